package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Application identity and file name constants for the per-user data directory.
const (
	AppName        = "Kontakt Version Manager"
	AppAuthor      = "Its All Noise"
	ConfigFileName = "settings.ini"
	BackupDirName  = "backups"

	ConfigDirEnv = "KVM_CONFIG_DIR"
	PlatformEnv  = "KVM_PLATFORM"
)

// PathBuilder provides methods to construct application paths relative to a config directory.
type PathBuilder struct {
	configDir string
}

// New creates a new PathBuilder for the given config directory.
func New(configDir string) *PathBuilder {
	return &PathBuilder{configDir: configDir}
}

// ConfigDir returns the directory holding the settings file and backups.
func (p *PathBuilder) ConfigDir() string {
	return p.configDir
}

// ConfigFile returns the path to settings.ini.
func (p *PathBuilder) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

// BackupDir returns the directory where replaced install files are backed up.
func (p *PathBuilder) BackupDir() string {
	return filepath.Join(p.configDir, BackupDirName)
}

// ResolveConfigDir returns the per-user configuration directory. The
// KVM_CONFIG_DIR environment variable takes precedence. On Windows the
// vendor name is part of the path, elsewhere only the application name is.
func ResolveConfigDir() (string, error) {
	if custom := strings.TrimSpace(os.Getenv(ConfigDirEnv)); custom != "" {
		return custom, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(base, AppAuthor, AppName), nil
	}
	return filepath.Join(base, AppName), nil
}

// ResolvePlatform returns the platform whose install table should be used.
func ResolvePlatform() string {
	if custom := strings.TrimSpace(os.Getenv(PlatformEnv)); custom != "" {
		return strings.ToLower(custom)
	}
	return runtime.GOOS
}
