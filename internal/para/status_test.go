package para

import "testing"

func TestStatusFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"new", StatusNew, false},
		{"PROCESSING", StatusProcessing, false},
		{"  completed  ", StatusCompleted, false},
		{"failed", StatusFailed, false},
		{"skipped", StatusSkipped, false},
		{"pending", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := StatusFromString(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("StatusFromString(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("StatusFromString(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("StatusFromString(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	allStatuses := []Status{StatusNew, StatusProcessing, StatusCompleted, StatusFailed, StatusSkipped}

	legal := map[Status]map[Status]bool{
		StatusNew:        {StatusProcessing: true, StatusSkipped: true},
		StatusProcessing: {StatusCompleted: true, StatusFailed: true},
		StatusFailed:     {StatusProcessing: true},
	}

	// Exhaustive cross-product: exactly the legal pairs return true.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s.CanTransitionTo(%s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() {
		t.Error("completed should be terminal")
	}
	if !StatusSkipped.IsTerminal() {
		t.Error("skipped should be terminal")
	}
	for _, s := range []Status{StatusNew, StatusProcessing, StatusFailed} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
