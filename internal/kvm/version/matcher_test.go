package version

// Tests for version label checks.
//
// Labels become part of file names in the library and in the install
// locations, so validation guards against path injection. Matching guards
// against a label from another release line.

import (
	"errors"
	"testing"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
)

func TestMatches(t *testing.T) {
	m := New()

	tests := []struct {
		label string
		slot  domain.Slot
		want  bool
		err   error
	}{
		{"8.0.0", 8, true, nil},
		{"8", 8, true, nil},
		{"8.1.2 beta", 8, true, nil},
		{"8 beta", 8, true, nil},
		{"  7.10.0  ", 7, true, nil},
		{"5.8.1", 5, true, nil},
		{"7.0.0", 8, false, domain.ErrVersionMismatch},
		{"80.0", 8, false, domain.ErrVersionMismatch},
		{"abc", 8, false, domain.ErrInvalidVersionFormat},
		{"8b.0", 8, false, domain.ErrInvalidVersionFormat},
		{"", 8, false, domain.ErrInvalidVersionFormat},
		{"   ", 8, false, domain.ErrInvalidVersionFormat},
		{".8", 8, false, domain.ErrInvalidVersionFormat},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := m.Matches(tt.label, tt.slot)
			if got != tt.want {
				t.Errorf("Matches(%q, %d) = %v, want %v", tt.label, tt.slot, got, tt.want)
			}
			if tt.err == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestMajor(t *testing.T) {
	m := New()
	got, err := m.Major("7.1.0 beta 2")
	if err != nil {
		t.Fatalf("Major error: %v", err)
	}
	if got != 7 {
		t.Errorf("Major = %d, want 7", got)
	}
}

func TestValidateLabel_ValidLabels(t *testing.T) {
	m := New()

	for _, label := range []string{"8.0.0", "8.0.0 beta", "7.10.3b", "6 (old)", "5.8.1-final", "8.0.0 béta", "7.1 ベータ"} {
		t.Run(label, func(t *testing.T) {
			if err := m.ValidateLabel(label); err != nil {
				t.Errorf("expected valid for %q, got %v", label, err)
			}
		})
	}
}

func TestValidateLabel_Rejects(t *testing.T) {
	m := New()

	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", domain.ErrLabelEmpty},
		{"whitespace", " \t ", domain.ErrLabelEmpty},
		{"null byte", "8.0\x00", domain.ErrLabelNullByte},
		{"control char", "8.0\x01", domain.ErrLabelNonPrintable},
		{"bell", "8.0.0\a", domain.ErrLabelNonPrintable},
		{"delete", "8.0\x7f", domain.ErrLabelNonPrintable},
		{"tab inside", "8.0\tbeta", domain.ErrLabelNonPrintable},
		{"zero width space", "8.0\u200bbeta", domain.ErrLabelNonPrintable},
		{"forward slash", "8.0/../../x", domain.ErrLabelInvalidChars},
		{"backslash", `8.0\x`, domain.ErrLabelInvalidChars},
		{"colon", "8:0", domain.ErrLabelInvalidChars},
		{"wildcard", "8.*", domain.ErrLabelInvalidChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.ValidateLabel(tt.input); !errors.Is(err, tt.err) {
				t.Errorf("ValidateLabel(%q) = %v, want %v", tt.input, err, tt.err)
			}
		})
	}
}
