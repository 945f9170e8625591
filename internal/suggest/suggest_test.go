package suggest

import (
	"strings"
	"testing"
)

func TestSimilar(t *testing.T) {
	candidates := []string{"assignee", "status", "priority"}

	tests := []struct {
		name string
		want []string
	}{
		{"assigne", []string{"assignee"}},
		{"ASSIGNEE", []string{"assignee"}},
		{"stat", []string{"status"}},
		{"xyz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similar(tt.name, candidates)
			if len(got) != len(tt.want) {
				t.Fatalf("Similar(%q) = %v, want %v", tt.name, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Similar(%q) = %v, want %v", tt.name, got, tt.want)
				}
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	known := []string{"assignee", "status"}

	msg := Describe("field", "assigne", known)
	if !strings.Contains(msg, "did you mean") || !strings.Contains(msg, "assignee") {
		t.Errorf("Describe should suggest assignee, got %q", msg)
	}

	msg = Describe("field", "xyz", known)
	if !strings.Contains(msg, "known fields are") {
		t.Errorf("Describe should list known fields, got %q", msg)
	}

	msg = Describe("field", "xyz", nil)
	if msg != "unknown field 'xyz'" {
		t.Errorf("Describe with no candidates = %q", msg)
	}
}
