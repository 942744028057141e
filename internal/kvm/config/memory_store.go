package config

import "github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"

// MemoryStore is a Store that never touches the filesystem.
type MemoryStore struct {
	libraryPath string
	versions    map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{versions: make(map[string]string)}
}

func (s *MemoryStore) Path() string {
	return "(memory)"
}

func (s *MemoryStore) LibraryPath() (string, error) {
	if s.libraryPath == "" {
		return DefaultLibraryPrompt, nil
	}
	return s.libraryPath, nil
}

func (s *MemoryStore) SetLibraryPath(path string) error {
	s.libraryPath = path
	return nil
}

func (s *MemoryStore) RecordedVersion(slot domain.Slot, ext string) (string, bool, error) {
	value, ok := s.versions[domain.SlotKey(slot, ext)]
	return value, ok, nil
}

func (s *MemoryStore) RecordVersion(slot domain.Slot, ext, label string) error {
	s.versions[domain.SlotKey(slot, ext)] = domain.FileName(label, ext)
	return nil
}
