package library

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/storage"
)

// Catalog inspects the flat library folder of archived versions.
type Catalog struct {
	storage *storage.Storage
}

// New creates a new Catalog.
func New(storage *storage.Storage) *Catalog {
	return &Catalog{storage: storage}
}

// Matching returns the names of library files that belong to slot and end in
// ext, sorted lexicographically. Directories are skipped.
//
// Returns an error if the library directory cannot be read.
func (c *Catalog) Matching(libraryPath string, slot domain.Slot, ext string) ([]string, error) {
	entries, err := c.storage.ReadDir(libraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read library: %w", err)
	}
	prefix := domain.SlotPrefix(slot)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Entry describes one library file for list output.
type Entry struct {
	Name       string   `json:"name" yaml:"name"`
	Label      string   `json:"label" yaml:"label"`
	Prefix     string   `json:"prefix" yaml:"prefix"`
	Qualifiers []string `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
}

// Hasher returns a content hash for path, or "" when the file is missing.
type Hasher func(path string) (string, error)

// Entries lists the library files of slot and ext, annotated against the
// recorded version and the file currently installed at installPath.
//
// Each entry includes:
//   - Prefix: "*" for the recorded version, "!" when the recorded version is
//     missing from the library, " " otherwise
//   - Qualifiers: "active" for the recorded version, plus "modified" when the
//     installed file no longer matches the library copy
//
// recorded is the file name kept by the config store, empty when nothing has
// been recorded.
func (c *Catalog) Entries(libraryPath string, slot domain.Slot, ext, recorded, installPath string, hash Hasher) ([]Entry, error) {
	names, err := c.Matching(libraryPath, slot, ext)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	recordedHandled := false
	for _, name := range names {
		entry := Entry{Name: name, Label: domain.LabelFromFileName(name, ext), Prefix: " "}
		if name == recorded {
			recordedHandled = true
			entry.Prefix = "*"
			entry.Qualifiers = append(entry.Qualifiers, "active")
			modified, err := differs(hash, filepath.Join(libraryPath, name), installPath)
			if err != nil {
				return nil, err
			}
			if modified {
				entry.Qualifiers = append(entry.Qualifiers, "modified")
			}
		}
		entries = append(entries, entry)
	}

	if recorded != "" && !recordedHandled {
		entries = append(entries, Entry{
			Name:       recorded,
			Label:      domain.LabelFromFileName(recorded, ext),
			Prefix:     "!",
			Qualifiers: []string{"active", "missing!"},
		})
	}
	return entries, nil
}

func differs(hash Hasher, libraryFile, installPath string) (bool, error) {
	if hash == nil {
		return false, nil
	}
	stored, err := hash(libraryFile)
	if err != nil {
		return false, err
	}
	current, err := hash(installPath)
	if err != nil {
		return false, err
	}
	return current != "" && stored != "" && current != stored, nil
}

// File returns the library location of the file for label and ext.
func File(libraryPath, label, ext string) string {
	return filepath.Join(libraryPath, domain.FileName(label, ext))
}
