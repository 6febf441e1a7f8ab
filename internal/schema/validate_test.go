package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
)

func TestValidateRecord_Valid(t *testing.T) {
	db := taskSchema(t)

	result := ValidateRecord(db, map[string]any{
		"Name":     "Write spec",
		"Status":   "Todo",
		"Priority": 2,
	})
	if !result.Valid {
		t.Fatalf("expected valid, got violations: %v", result.Violations)
	}
	if result.Err() != nil {
		t.Errorf("Err() = %v, want nil", result.Err())
	}
}

func TestValidateRecord_OptionalMayBeAbsent(t *testing.T) {
	db := taskSchema(t)

	// Priority and Status are optional; only Name is required.
	result := ValidateRecord(db, map[string]any{"Name": "Write spec"})
	if !result.Valid {
		t.Fatalf("expected valid, got violations: %v", result.Violations)
	}
}

func TestValidateRecord_CollectsAllViolations(t *testing.T) {
	db := taskSchema(t)

	// Missing required Name AND invalid Status option: both reported.
	result := ValidateRecord(db, map[string]any{"Status": "Unknown"})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations %v, want 2", len(result.Violations), result.Violations)
	}
	if !strings.Contains(result.Violations[0], "missing required property: Name") {
		t.Errorf("violation[0] = %q, want missing Name", result.Violations[0])
	}
	if !strings.Contains(result.Violations[1], `"Unknown" is not a configured option`) {
		t.Errorf("violation[1] = %q, want invalid option", result.Violations[1])
	}

	err := result.Err()
	if !errors.Is(err, errors.ErrValidationFailed) {
		t.Fatalf("Err() = %v, want VALIDATION_FAILED", err)
	}
	if len(errors.Violations(err)) != 2 {
		t.Errorf("error should carry both violations")
	}
}

func TestValidateRecord_TypeMismatchAndMissingRequired(t *testing.T) {
	db := taskSchema(t)

	// Example scenario: {Priority: "high"} fails with missing Name and
	// Priority not numeric.
	result := ValidateRecord(db, map[string]any{"Priority": "high"})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations %v, want 2", len(result.Violations), result.Violations)
	}
	joined := strings.Join(result.Violations, "; ")
	if !strings.Contains(joined, "missing required property: Name") {
		t.Errorf("missing-required violation absent: %v", result.Violations)
	}
	if !strings.Contains(joined, "property Priority: expected number") {
		t.Errorf("type-mismatch violation absent: %v", result.Violations)
	}
}

func TestValidateRecord_UnknownKeys(t *testing.T) {
	db := taskSchema(t)

	result := ValidateRecord(db, map[string]any{
		"Name":    "x",
		"Zebra":   1,
		"Alpha":   2,
		"Unknown": 3,
	})
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	// Unknown keys come last, sorted.
	want := []string{
		"unknown property: Alpha",
		"unknown property: Unknown",
		"unknown property: Zebra",
	}
	if len(result.Violations) != 3 {
		t.Fatalf("got %d violations %v, want 3", len(result.Violations), result.Violations)
	}
	for i, w := range want {
		if result.Violations[i] != w {
			t.Errorf("violation[%d] = %q, want %q", i, result.Violations[i], w)
		}
	}
}

func TestValidateRecord_NilRequiredValue(t *testing.T) {
	db := taskSchema(t)

	result := ValidateRecord(db, map[string]any{"Name": nil})
	if result.Valid {
		t.Fatal("nil value for required property should be a violation")
	}
	if !strings.Contains(result.Violations[0], "missing required property: Name") {
		t.Errorf("violation = %q, want missing Name", result.Violations[0])
	}
}

func TestValidateRecord_PerTypeChecks(t *testing.T) {
	props := []Property{
		{Name: "Name", Type: TypeTitle, Required: true},
		{Name: "Notes", Type: TypeRichText},
		{Name: "Count", Type: TypeNumber},
		{Name: "Stage", Type: TypeSelect, Options: []SelectOption{{Name: "One"}, {Name: "Two"}}},
		{Name: "Labels", Type: TypeMultiSelect, Options: []SelectOption{{Name: "red"}, {Name: "blue"}}},
		{Name: "When", Type: TypeDate},
		{Name: "Done", Type: TypeCheckbox},
		{Name: "Link", Type: TypeURL},
		{Name: "Contact", Type: TypeEmail},
	}
	db, err := NewDatabase("Everything", "", props)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}

	valid := map[string]any{
		"Name":    "ok",
		"Notes":   "free text",
		"Count":   3.14,
		"Stage":   "One",
		"Labels":  []string{"red", "blue"},
		"When":    "2026-03-01",
		"Done":    true,
		"Link":    "https://example.com/page",
		"Contact": "dev@example.com",
	}
	if res := ValidateRecord(db, valid); !res.Valid {
		t.Fatalf("expected valid, got %v", res.Violations)
	}

	// JSON-decoded shapes: []any multi-select, json-style float, time.Time date.
	decoded := map[string]any{
		"Name":   "ok",
		"Labels": []any{"red"},
		"Count":  float64(7),
		"When":   time.Now(),
	}
	if res := ValidateRecord(db, decoded); !res.Valid {
		t.Fatalf("expected valid for decoded shapes, got %v", res.Violations)
	}

	invalid := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{"number", map[string]any{"Name": "x", "Count": "seven"}, "expected number"},
		{"checkbox", map[string]any{"Name": "x", "Done": "yes"}, "expected boolean"},
		{"select type", map[string]any{"Name": "x", "Stage": 1}, "expected option name"},
		{"multi_select member", map[string]any{"Name": "x", "Labels": []string{"green"}}, "not a configured option"},
		{"multi_select type", map[string]any{"Name": "x", "Labels": "red"}, "expected list"},
		{"date", map[string]any{"Name": "x", "When": "tomorrow"}, "not a valid date"},
		{"url", map[string]any{"Name": "x", "Link": "not a url"}, "not a valid URL"},
		{"email", map[string]any{"Name": "x", "Contact": "nobody"}, "not a valid email"},
		{"title type", map[string]any{"Name": 42}, "expected text"},
	}

	for _, tt := range invalid {
		res := ValidateRecord(db, tt.props)
		if res.Valid {
			t.Errorf("%s: expected invalid", tt.name)
			continue
		}
		joined := strings.Join(res.Violations, "; ")
		if !strings.Contains(joined, tt.want) {
			t.Errorf("%s: violations %v do not mention %q", tt.name, res.Violations, tt.want)
		}
	}
}

func TestValidateRecord_DateRanges(t *testing.T) {
	when := Property{Name: "When", Type: TypeDate}
	name := Property{Name: "Name", Type: TypeTitle}
	db, err := NewDatabase("Dates", "", []Property{name, when})
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}

	ok := []string{
		"2026-03-01",
		"2026-03-01/2026-03-05",
		"2026-03-01T10:00:00Z",
	}
	for _, v := range ok {
		if res := ValidateRecord(db, map[string]any{"When": v}); !res.Valid {
			t.Errorf("date %q: expected valid, got %v", v, res.Violations)
		}
	}

	bad := []string{
		"2026-03-05/2026-03-01", // inverted range
		"2026-03-01/soon",
		"03/01/2026", // parses as a malformed range, not a date
	}
	for _, v := range bad {
		if res := ValidateRecord(db, map[string]any{"When": v}); res.Valid {
			t.Errorf("date %q: expected invalid", v)
		}
	}
}
