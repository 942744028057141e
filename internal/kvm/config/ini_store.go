package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/storage"
)

// IniStore keeps settings in an ini file. The file is re-read on every call
// and rewritten on every change; the directory and file are created on the
// first write.
type IniStore struct {
	storage *storage.Storage
	path    string
}

// NewIniStore creates a store backed by the file at path.
func NewIniStore(storage *storage.Storage, path string) *IniStore {
	return &IniStore{storage: storage, path: path}
}

// Path returns the settings file location.
func (s *IniStore) Path() string {
	return s.path
}

// Keys are case-insensitive: files written by earlier releases of the tool
// store them lower-cased. Values are taken verbatim so labels may contain
// ';' or '#' and Windows paths may end in a backslash.
var loadOptions = ini.LoadOptions{
	InsensitiveKeys:     true,
	IgnoreInlineComment: true,
	IgnoreContinuation:  true,
}

func (s *IniStore) load() (*ini.File, error) {
	data, err := s.storage.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ini.Empty(loadOptions), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", s.path, err)
	}
	return file, nil
}

func (s *IniStore) save(file *ini.File) error {
	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.storage.WriteFile(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// LibraryPath returns the persisted library folder.
func (s *IniStore) LibraryPath() (string, error) {
	file, err := s.load()
	if err != nil {
		return "", err
	}
	section, err := file.GetSection(SettingsSection)
	if err != nil || !section.HasKey(LibraryPathKey) {
		return DefaultLibraryPrompt, nil
	}
	return section.Key(LibraryPathKey).String(), nil
}

// SetLibraryPath persists path, keeping every other setting.
func (s *IniStore) SetLibraryPath(path string) error {
	file, err := s.load()
	if err != nil {
		return err
	}
	file.Section(SettingsSection).Key(LibraryPathKey).SetValue(path)
	return s.save(file)
}

// RecordedVersion looks up the last transferred file for slot and ext.
func (s *IniStore) RecordedVersion(slot domain.Slot, ext string) (string, bool, error) {
	file, err := s.load()
	if err != nil {
		return "", false, err
	}
	section, err := file.GetSection(VersionsSection)
	if err != nil {
		return "", false, nil
	}
	key := domain.SlotKey(slot, ext)
	if !section.HasKey(key) {
		return "", false, nil
	}
	return section.Key(key).String(), true, nil
}

// RecordVersion stores "Kontakt <label><ext>" under "Kontakt <slot><ext>".
func (s *IniStore) RecordVersion(slot domain.Slot, ext, label string) error {
	file, err := s.load()
	if err != nil {
		return err
	}
	file.Section(VersionsSection).Key(domain.SlotKey(slot, ext)).SetValue(domain.FileName(label, ext))
	return s.save(file)
}
