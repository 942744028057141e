package config

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/storage"
)

const testConfigPath = "/config/Kontakt Version Manager/settings.ini"

func newTestIniStore(t *testing.T) (*IniStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewIniStore(storage.New(fs), testConfigPath), fs
}

func TestIniStore_DefaultsWithoutFile(t *testing.T) {
	store, fs := newTestIniStore(t)

	path, err := store.LibraryPath()
	require.NoError(t, err)
	require.Equal(t, DefaultLibraryPrompt, path)

	_, ok, err := store.RecordedVersion(8, ".exe")
	require.NoError(t, err)
	require.False(t, ok)

	exists, err := afero.Exists(fs, testConfigPath)
	require.NoError(t, err)
	require.False(t, exists, "reads must not create the settings file")
}

func TestIniStore_LibraryPathRoundTrip(t *testing.T) {
	store, fs := newTestIniStore(t)

	require.NoError(t, store.SetLibraryPath(`D:\Kontakt Library`))

	path, err := store.LibraryPath()
	require.NoError(t, err)
	require.Equal(t, `D:\Kontakt Library`, path)

	data, err := afero.ReadFile(fs, testConfigPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "[Settings]")
}

func TestIniStore_RecordVersionUpserts(t *testing.T) {
	store, _ := newTestIniStore(t)

	require.NoError(t, store.RecordVersion(8, ".exe", "8.0.0"))
	require.NoError(t, store.RecordVersion(8, ".vst3", "8.0.0"))
	require.NoError(t, store.RecordVersion(8, ".exe", "8.1.0 beta"))

	got, ok, err := store.RecordedVersion(8, ".exe")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kontakt 8.1.0 beta.exe", got)

	got, ok, err = store.RecordedVersion(8, ".vst3")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kontakt 8.0.0.vst3", got)

	_, ok, err = store.RecordedVersion(7, ".exe")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIniStore_ValuesAreVerbatim(t *testing.T) {
	store, _ := newTestIniStore(t)

	require.NoError(t, store.SetLibraryPath(`D:\Kontakt\`))
	require.NoError(t, store.RecordVersion(8, ".exe", "8.0.0 ;hotfix #2"))

	path, err := store.LibraryPath()
	require.NoError(t, err)
	require.Equal(t, `D:\Kontakt\`, path)

	got, ok, err := store.RecordedVersion(8, ".exe")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kontakt 8.0.0 ;hotfix #2.exe", got)
}

func TestIniStore_PreservesOtherSections(t *testing.T) {
	store, _ := newTestIniStore(t)

	require.NoError(t, store.SetLibraryPath("/library"))
	require.NoError(t, store.RecordVersion(7, ".exe", "7.10.0"))
	require.NoError(t, store.SetLibraryPath("/library2"))

	got, ok, err := store.RecordedVersion(7, ".exe")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kontakt 7.10.0.exe", got)

	path, err := store.LibraryPath()
	require.NoError(t, err)
	require.Equal(t, "/library2", path)
}

func TestIniStore_ReadsLowercasedKeys(t *testing.T) {
	store, fs := newTestIniStore(t)
	legacy := strings.Join([]string{
		"[Settings]",
		"librarypath = C:/Users/me/Kontakt Versions",
		"",
		"[Versions]",
		"kontakt 8.exe = Kontakt 8.0.0.exe",
		"kontakt 8.aaxplugin = Kontakt 8.0.0.aaxplugin",
		"",
	}, "\n")
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte(legacy), 0o600))

	path, err := store.LibraryPath()
	require.NoError(t, err)
	require.Equal(t, "C:/Users/me/Kontakt Versions", path)

	got, ok, err := store.RecordedVersion(8, ".aaxplugin")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kontakt 8.0.0.aaxplugin", got)
}

func TestIniStore_InvalidFile(t *testing.T) {
	store, fs := newTestIniStore(t)
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte("[Settings\nbroken"), 0o600))

	_, err := store.LibraryPath()
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	path, err := store.LibraryPath()
	require.NoError(t, err)
	require.Equal(t, DefaultLibraryPrompt, path)

	require.NoError(t, store.RecordVersion(6, ".vst3", "6.8.0"))
	got, ok, err := store.RecordedVersion(6, ".vst3")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Kontakt 6.8.0.vst3", got)
}

func TestNotRecordedMessage(t *testing.T) {
	require.Equal(t,
		"You need to Load or Store a Kontakt Version for Kontakt 8.exe before reading is possible",
		NotRecordedMessage(8, ".exe"))
}
