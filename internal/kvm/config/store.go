// Package config persists the library location and the last version
// transferred for every slot and file extension.
package config

import (
	"fmt"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
)

// Section and key names of the settings file.
const (
	SettingsSection = "Settings"
	VersionsSection = "Versions"
	LibraryPathKey  = "LibraryPath"
)

// DefaultLibraryPrompt is returned by LibraryPath until a folder is chosen.
const DefaultLibraryPrompt = "Set the Library Path"

// Store reads and writes the persisted settings.
type Store interface {
	// Path returns a human-readable location of the backing storage.
	Path() string
	// LibraryPath returns the chosen library folder or DefaultLibraryPrompt.
	LibraryPath() (string, error)
	// SetLibraryPath persists path immediately.
	SetLibraryPath(path string) error
	// RecordedVersion returns the file name last loaded or stored for the
	// slot and extension, e.g. "Kontakt 8.0.0.exe".
	RecordedVersion(slot domain.Slot, ext string) (string, bool, error)
	// RecordVersion upserts the record for slot and extension.
	RecordVersion(slot domain.Slot, ext, label string) error
}

// NotRecordedMessage is shown by read when no transfer has been recorded.
func NotRecordedMessage(slot domain.Slot, ext string) string {
	return fmt.Sprintf("You need to Load or Store a Kontakt Version for %s before reading is possible", domain.SlotKey(slot, ext))
}
