// Package kvm swaps installed Kontakt binaries with versions archived in a
// user-maintained library folder.
package kvm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/backup"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/config"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/library"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/paths"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/report"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/storage"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/transfer"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/version"
)

// Disclaimer closes every read report.
const Disclaimer = "This display shows the version last loaded or stored. This could differ from the actual version present if the version has been changed by other methods"

// Options configures a Manager.
type Options struct {
	// ConfigDir holds settings.ini and the backup directory.
	ConfigDir string
	// Platform selects the install table; empty means paths.ResolvePlatform().
	Platform string
	// Tables replaces paths.DefaultTables when non-nil.
	Tables map[string]paths.Table
	// Store replaces the ini store under ConfigDir when non-nil.
	Store config.Store
	// DisableBackups skips backing up installed files before a load.
	DisableBackups bool
	// Logger receives structured logs; nil discards them.
	Logger *slog.Logger
}

// Manager coordinates the services behind load, store and read.
type Manager struct {
	fs       afero.Fs
	paths    *paths.PathBuilder
	storage  *storage.Storage
	resolver *paths.Resolver
	matcher  *version.Matcher
	store    config.Store
	catalog  *library.Catalog
	backup   *backup.Service
	transfer *transfer.Service
	logger   *slog.Logger
}

// NewManager wires a Manager on top of fs.
func NewManager(fs afero.Fs, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	platform := opts.Platform
	if platform == "" {
		platform = paths.ResolvePlatform()
	}

	pb := paths.New(opts.ConfigDir)
	stor := storage.New(fs)
	store := opts.Store
	if store == nil {
		store = config.NewIniStore(stor, pb.ConfigFile())
	}
	catalog := library.New(stor)
	backups := backup.New(stor, pb.BackupDir(), logger.With("component", "backup"))

	var loadBackups *backup.Service
	if !opts.DisableBackups {
		loadBackups = backups
	}

	return &Manager{
		fs:       fs,
		paths:    pb,
		storage:  stor,
		resolver: paths.NewResolver(platform, opts.Tables),
		matcher:  version.New(),
		store:    store,
		catalog:  catalog,
		backup:   backups,
		transfer: transfer.New(stor, store, catalog, loadBackups, logger.With("component", "transfer")),
		logger:   logger,
	}
}

// FileSystem returns the filesystem the manager operates on.
func (m *Manager) FileSystem() afero.Fs {
	return m.fs
}

// ConfigDir returns the directory holding settings and backups.
func (m *Manager) ConfigDir() string {
	return m.paths.ConfigDir()
}

// ConfigPath returns the location of the persisted settings.
func (m *Manager) ConfigPath() string {
	return m.store.Path()
}

// BackupDir returns the directory holding backups of replaced install files.
func (m *Manager) BackupDir() string {
	return m.backup.BackupDir()
}

// Platform returns the install table in use.
func (m *Manager) Platform() string {
	return m.resolver.Platform()
}

// Slots returns the release lines that can be managed on this platform.
func (m *Manager) Slots() []domain.Slot {
	return m.resolver.Slots()
}

// InstallPaths resolves the install locations of slot.
func (m *Manager) InstallPaths(slot domain.Slot) (paths.InstallPaths, error) {
	return m.resolver.Resolve(slot)
}

// LibraryPath returns the persisted library folder, or
// config.DefaultLibraryPrompt when none was chosen yet.
func (m *Manager) LibraryPath() (string, error) {
	return m.store.LibraryPath()
}

// SetLibraryPath persists a new library folder. The folder must exist.
func (m *Manager) SetLibraryPath(path string) error {
	ok, err := m.storage.IsDir(path)
	if err != nil {
		return fmt.Errorf("failed to inspect library folder: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSourceDirectoryMissing, path)
	}
	if err := m.store.SetLibraryPath(path); err != nil {
		return err
	}
	m.logger.Info("library path updated", "library", path)
	return nil
}

// Request carries the inputs of one load, store or read action.
type Request struct {
	Mode        domain.Mode
	Slot        domain.Slot
	Label       string
	IncludeVST  bool
	IncludeAAX  bool
	LibraryPath string
}

// Run executes req and returns its report.
//
// read reports the recorded version of the executable and each included
// plugin, followed by Disclaimer. load and store first validate the label and
// check that it belongs to the slot; if that fails nothing is touched and the
// error is returned alongside the report. Otherwise every included file is
// transferred independently and a failure on one file does not stop the
// others. Per-file failures are only reported as records.
func (m *Manager) Run(req Request) (*report.Report, error) {
	started := time.Now()
	rep := report.New(req.Mode, req.Slot, req.Label)

	install, err := m.resolver.Resolve(req.Slot)
	if err != nil {
		return m.reject(rep, err, err.Error())
	}

	libraryPath := req.LibraryPath
	if libraryPath == "" {
		libraryPath, err = m.store.LibraryPath()
		if err != nil {
			return m.reject(rep, err, fmt.Sprintf("Failed to read settings. Error: %v", err))
		}
	}

	targets := selectTargets(install, req)

	switch req.Mode {
	case domain.ModeRead:
		rep.Info("Currently Loaded Versions:")
		for _, target := range targets {
			rep.Add(m.transfer.Read(target, req.Slot))
		}
		rep.Add(report.Record{Kind: report.KindDisclaimer, Message: Disclaimer, Success: true})

	case domain.ModeLoad, domain.ModeStore:
		if err := m.matcher.ValidateLabel(req.Label); err != nil {
			return m.reject(rep, err, fmt.Sprintf("Error: %v", err))
		}
		if _, err := m.matcher.Matches(req.Label, req.Slot); err != nil {
			if errors.Is(err, domain.ErrInvalidVersionFormat) {
				return m.reject(rep, err, "Error: Invalid version format.")
			}
			return m.reject(rep, err, "Kontakt Version mismatch")
		}
		for _, target := range targets {
			if req.Mode == domain.ModeLoad {
				rep.Add(m.transfer.Load(libraryPath, target, req.Label, req.Slot)...)
			} else {
				rep.Add(m.transfer.Store(target, libraryPath, req.Label, req.Slot))
			}
		}

	default:
		err := fmt.Errorf("%w: %q", domain.ErrUnknownMode, req.Mode)
		return m.reject(rep, err, err.Error())
	}

	m.logger.Info("operation finished",
		"mode", string(req.Mode),
		"slot", int(req.Slot),
		"label", req.Label,
		"ok", rep.OK(),
		"duration", time.Since(started))
	return rep, nil
}

func (m *Manager) reject(rep *report.Report, err error, message string) (*report.Report, error) {
	m.logger.Warn("operation rejected",
		"mode", string(rep.Mode),
		"slot", int(rep.Slot),
		"label", rep.Label,
		"error", err)
	rep.Add(report.Record{Kind: report.KindError, Message: message, Err: err})
	return rep, err
}

func selectTargets(install paths.InstallPaths, req Request) []paths.Target {
	var targets []paths.Target
	for _, target := range install.Targets() {
		switch target.Kind {
		case domain.VST:
			if !req.IncludeVST {
				continue
			}
		case domain.AAX:
			if !req.IncludeAAX {
				continue
			}
		}
		targets = append(targets, target)
	}
	return targets
}

// Listing groups the library entries of one file kind.
type Listing struct {
	Kind    domain.FileKind `json:"kind" yaml:"kind"`
	Ext     string          `json:"ext" yaml:"ext"`
	Entries []library.Entry `json:"entries" yaml:"entries"`
}

// ListLibrary lists the archived versions of slot for the executable and the
// included plugins, marking the recorded version of each.
func (m *Manager) ListLibrary(slot domain.Slot, includeVST, includeAAX bool) ([]Listing, error) {
	install, err := m.resolver.Resolve(slot)
	if err != nil {
		return nil, err
	}
	libraryPath, err := m.store.LibraryPath()
	if err != nil {
		return nil, err
	}
	if ok, err := m.storage.IsDir(libraryPath); err != nil || !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceDirectoryMissing, libraryPath)
	}

	req := Request{Slot: slot, IncludeVST: includeVST, IncludeAAX: includeAAX}
	var listings []Listing
	for _, target := range selectTargets(install, req) {
		recorded, _, err := m.store.RecordedVersion(slot, target.Ext)
		if err != nil {
			return nil, err
		}
		entries, err := m.catalog.Entries(libraryPath, slot, target.Ext, recorded, target.Path, m.backup.CalculateHash)
		if err != nil {
			return nil, err
		}
		listings = append(listings, Listing{Kind: target.Kind, Ext: target.Ext, Entries: entries})
	}
	return listings, nil
}

// PruneBackups removes backups older than olderThan.
func (m *Manager) PruneBackups(olderThan time.Duration) (int, error) {
	return m.backup.PruneBackups(olderThan)
}

// Instructions returns the usage text shown before the first action.
func (m *Manager) Instructions() string {
	return fmt.Sprintf(`Kontakt Version Manager

Set the path to your Kontakt library folder with 'kvm library'.
It should contain all of your alternate Kontakt versions, named
"Kontakt <version>.exe", "Kontakt <version>.vst3" and
"Kontakt <version>.aaxplugin".

--slot    the Kontakt release line to manage (5, 6, 7 or 8).
--label   the specific version to load or store, e.g. "8.0.0" or
          "8.0.0 beta". Any naming works as long as it starts with
          the release line.
--vst     also manage the VST plugin.
--aax     also manage the AAX plugin.

load   set the selected version as the active version.
store  save the currently active version for future loading.
read   display the version last loaded or stored.
list   show the versions archived in the library.

Installed files live in protected folders, so load and store need
to run with administrator privileges.

Program data stored here:
%s
`, m.ConfigPath())
}
