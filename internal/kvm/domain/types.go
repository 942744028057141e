package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Product is the file name prefix shared by every archived and installed binary.
const Product = "Kontakt"

// Slot is a major Kontakt release line.
type Slot int

// SupportedSlots lists the release lines with known install locations, oldest first.
var SupportedSlots = []Slot{5, 6, 7, 8}

// DefaultSlot is preselected by the interactive form.
const DefaultSlot Slot = 8

// Supported reports whether s is one of SupportedSlots.
func (s Slot) Supported() bool {
	for _, supported := range SupportedSlots {
		if s == supported {
			return true
		}
	}
	return false
}

func (s Slot) String() string {
	return strconv.Itoa(int(s))
}

// ParseSlot converts user input such as "8" into a supported Slot.
func ParseSlot(value string) (Slot, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrUnsupportedSlot, value)
	}
	slot := Slot(n)
	if !slot.Supported() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedSlot, n)
	}
	return slot, nil
}

// FileKind identifies one of the three binaries managed per slot.
type FileKind int

const (
	Executable FileKind = iota
	VST
	AAX
)

// FileKinds lists every kind in processing order.
var FileKinds = []FileKind{Executable, VST, AAX}

func (k FileKind) String() string {
	switch k {
	case Executable:
		return "executable"
	case VST:
		return "vst"
	case AAX:
		return "aax"
	default:
		return fmt.Sprintf("FileKind(%d)", int(k))
	}
}

// DefaultExtension is the usual suffix for the kind. Individual slots may
// install under a different suffix (Kontakt 5 ships its VST as a .dll).
func (k FileKind) DefaultExtension() string {
	switch k {
	case Executable:
		return ".exe"
	case VST:
		return ".vst3"
	case AAX:
		return ".aaxplugin"
	default:
		return ""
	}
}

// MarshalText lets reports encode kinds by name.
func (k FileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Mode selects the operation run by the orchestrator.
type Mode string

const (
	ModeLoad  Mode = "load"
	ModeStore Mode = "store"
	ModeRead  Mode = "read"
)

// Modes lists the modes in the order the form offers them.
var Modes = []Mode{ModeLoad, ModeStore, ModeRead}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(value string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(value)))
	for _, m := range Modes {
		if mode == m {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, value)
}

// FileName builds the archived file name for a version label, e.g.
// "Kontakt 8.0.0.exe".
func FileName(label, ext string) string {
	return Product + " " + label + ext
}

// SlotKey builds the key under which the last transferred version of a
// slot and extension is recorded, e.g. "Kontakt 8.exe".
func SlotKey(slot Slot, ext string) string {
	return Product + " " + slot.String() + ext
}

// SlotPrefix is the library file name prefix shared by every label of a slot.
func SlotPrefix(slot Slot) string {
	return Product + " " + slot.String()
}

// LabelFromFileName recovers the label from a name built by FileName. It
// returns the input unchanged when it does not have that shape.
func LabelFromFileName(name, ext string) string {
	prefix := Product + " "
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
		return name
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
}
