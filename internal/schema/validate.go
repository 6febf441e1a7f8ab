package schema

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
)

// ValidationResult collects every schema violation found in one pass so a
// caller can report them all together instead of fixing one at a time.
type ValidationResult struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`
}

// Err converts the result to a VALIDATION_FAILED error, or nil when valid.
func (v *ValidationResult) Err() error {
	if v.Valid {
		return nil
	}
	return errors.NewValidationFailed(v.Violations)
}

// ValidateRecord checks a record's property values against the owning schema.
// All checks run to completion (no short-circuit): unknown keys, missing
// required properties, and per-type value mismatches are reported together.
// Violations are ordered by schema property order, unknown keys last.
func ValidateRecord(db *Database, properties map[string]any) *ValidationResult {
	var violations []string

	// Schema-ordered checks: required presence, then value type.
	for _, p := range db.Properties {
		value, present := properties[p.Name]
		if !present || value == nil {
			if p.Required {
				violations = append(violations, fmt.Sprintf("missing required property: %s", p.Name))
			}
			continue
		}
		if msg := checkValue(p, value); msg != "" {
			violations = append(violations, fmt.Sprintf("property %s: %s", p.Name, msg))
		}
	}

	// Unknown keys, sorted for determinism.
	var unknown []string
	for name := range properties {
		if _, ok := db.Property(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		violations = append(violations, fmt.Sprintf("unknown property: %s", name))
	}

	return &ValidationResult{Valid: len(violations) == 0, Violations: violations}
}

// checkValue verifies a single non-nil value against its declared type.
// Returns "" when the value conforms, otherwise a violation message.
func checkValue(p Property, value any) string {
	switch p.Type {
	case TypeTitle, TypeRichText:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("expected text, got %T", value)
		}

	case TypeNumber:
		if !isNumeric(value) {
			return fmt.Sprintf("expected number, got %T", value)
		}

	case TypeSelect:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected option name, got %T", value)
		}
		if !p.HasOption(s) {
			return fmt.Sprintf("%q is not a configured option (valid: %s)",
				s, strings.Join(p.OptionNames(), ", "))
		}

	case TypeMultiSelect:
		names, ok := stringSlice(value)
		if !ok {
			return fmt.Sprintf("expected list of option names, got %T", value)
		}
		for _, s := range names {
			if !p.HasOption(s) {
				return fmt.Sprintf("%q is not a configured option (valid: %s)",
					s, strings.Join(p.OptionNames(), ", "))
			}
		}

	case TypeDate:
		if msg := checkDate(value); msg != "" {
			return msg
		}

	case TypeCheckbox:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("expected boolean, got %T", value)
		}

	case TypeURL:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected URL string, got %T", value)
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Sprintf("%q is not a valid URL", s)
		}

	case TypeEmail:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected email string, got %T", value)
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return fmt.Sprintf("%q is not a valid email address", s)
		}
	}
	return ""
}

// isNumeric accepts the numeric representations that survive JSON decoding
// and native Go callers.
func isNumeric(value any) bool {
	switch v := value.(type) {
	case int, int32, int64, float32, float64:
		return true
	case json.Number:
		_, err := v.Float64()
		return err == nil
	}
	return false
}

// stringSlice converts []string or []any-of-strings (the shape JSON decoding
// produces) into a string slice.
func stringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// dateFormats lists the accepted single-date layouts.
var dateFormats = []string{"2006-01-02", time.RFC3339}

// checkDate accepts time.Time, a date string, or a "start/end" range string
// where both sides parse and start does not follow end.
func checkDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		return ""
	case string:
		if start, end, ok := strings.Cut(v, "/"); ok {
			st, err1 := parseDate(start)
			en, err2 := parseDate(end)
			if err1 != nil || err2 != nil {
				return fmt.Sprintf("%q is not a valid date range", v)
			}
			if st.After(en) {
				return fmt.Sprintf("date range %q starts after it ends", v)
			}
			return ""
		}
		if _, err := parseDate(v); err != nil {
			return fmt.Sprintf("%q is not a valid date", v)
		}
		return ""
	}
	return fmt.Sprintf("expected date, got %T", value)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
