package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
)

var invalidCharsPattern = regexp.MustCompile(`[<>:"/\\|?*]`)

// Matcher validates version labels against the selected slot.
type Matcher struct{}

// New creates a new Matcher instance.
func New() *Matcher {
	return &Matcher{}
}

// ValidateLabel checks that label can be embedded in a library file name.
//
// The function checks for:
//   - Empty names or whitespace-only labels
//   - Null bytes
//   - Control and other non-printable runes
//   - Invalid filesystem characters (<>:"/\|?*)
//
// Spaces, dots and non-ASCII letters are allowed, so "8.0.0 béta" is a
// valid label.
func (m *Matcher) ValidateLabel(label string) error {
	trimmed := strings.TrimSpace(label)
	if len(trimmed) == 0 {
		return domain.ErrLabelEmpty
	}
	if strings.ContainsRune(trimmed, 0) {
		return domain.ErrLabelNullByte
	}
	for _, r := range trimmed {
		if !unicode.IsPrint(r) {
			return domain.ErrLabelNonPrintable
		}
	}
	if invalidCharsPattern.MatchString(trimmed) {
		return domain.ErrLabelInvalidChars
	}
	return nil
}

// Major extracts the leading number of label: the first whitespace
// separated token, cut at its first dot. "8.0.0 beta" yields 8.
func (m *Matcher) Major(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, domain.ErrInvalidVersionFormat
	}
	first, _, _ := strings.Cut(fields[0], ".")
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidVersionFormat, label)
	}
	return n, nil
}

// Matches reports whether label belongs to slot.
//
// Returns (true, nil) on a match, (false, ErrInvalidVersionFormat) when the
// leading number cannot be parsed and (false, ErrVersionMismatch) when it
// names a different release line.
func (m *Matcher) Matches(label string, slot domain.Slot) (bool, error) {
	major, err := m.Major(label)
	if err != nil {
		return false, err
	}
	if major != int(slot) {
		return false, fmt.Errorf("%w: %q is not Kontakt %d", domain.ErrVersionMismatch, label, slot)
	}
	return true, nil
}
