package transfer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/backup"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/config"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/library"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/paths"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/report"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/storage"
)

// Service copies single files between the library and install locations and
// records every successful transfer in the config store.
type Service struct {
	storage *storage.Storage
	store   config.Store
	catalog *library.Catalog
	backups *backup.Service
	logger  *slog.Logger
}

// New creates a transfer Service. backups may be nil to disable backing up
// installed files before they are replaced.
func New(storage *storage.Storage, store config.Store, catalog *library.Catalog, backups *backup.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		storage: storage,
		store:   store,
		catalog: catalog,
		backups: backups,
		logger:  logger,
	}
}

// Load copies "Kontakt <label><ext>" from libraryPath over the installed file
// of target, always overwriting it.
//
// When the library file is missing nothing is copied; the returned listing
// names every library file of the slot with the same extension instead. The
// config store is only updated after a successful copy.
func (s *Service) Load(libraryPath string, target paths.Target, label string, slot domain.Slot) []report.Record {
	log := s.logger.With("operation", "load", "slot", int(slot), "file", target.Kind.String())

	if ok, err := s.storage.IsDir(libraryPath); err != nil || !ok {
		log.Warn("library directory missing", "library", libraryPath, "error", err)
		return []report.Record{report.Failure(target.Kind,
			fmt.Sprintf("Directory does not exist or cannot be accessed: %s", libraryPath),
			libraryPath, domain.ErrSourceDirectoryMissing)}
	}

	name := domain.FileName(label, target.Ext)
	source := library.File(libraryPath, label, target.Ext)

	exists, err := s.storage.Exists(source)
	if err != nil {
		log.Error("failed to inspect library file", "source", source, "error", err)
		return []report.Record{report.Failure(target.Kind,
			fmt.Sprintf("Failed to load %s. Error: %v", name, err),
			source, fmt.Errorf("%w: %v", domain.ErrCopyFailure, err))}
	}
	if !exists {
		return []report.Record{s.availability(log, libraryPath, target, name, slot)}
	}

	var records []report.Record
	if s.backups != nil {
		backupPath, err := s.backups.BackupFile(target.Path)
		if err != nil {
			log.Warn("backup of installed file failed", "path", target.Path, "error", err)
			records = append(records, report.Warning(target.Kind,
				fmt.Sprintf("Could not back up %s before replacing it. Error: %v", target.Path, err),
				target.Path, err))
		} else if backupPath != "" {
			log.Debug("installed file backed up", "path", target.Path, "backup_path", backupPath)
		}
	}

	if err := s.storage.CopyFile(source, target.Path); err != nil {
		log.Error("load failed", "source", source, "destination", target.Path, "error", err)
		return append(records, report.Failure(target.Kind,
			fmt.Sprintf("Failed to load %s. Error: %v", name, err),
			target.Path, fmt.Errorf("%w: %v", domain.ErrCopyFailure, err)))
	}

	if err := s.store.RecordVersion(slot, target.Ext, label); err != nil {
		log.Error("failed to record loaded version", "error", err)
		records = append(records, report.Warning(target.Kind,
			fmt.Sprintf("%s loaded but the version could not be recorded. Error: %v", name, err),
			s.store.Path(), err))
	}

	log.Info("file loaded", "source", source, "destination", target.Path, "label", label)
	return append(records, report.Success(target.Kind, fmt.Sprintf("%s loaded", name), label, target.Path))
}

func (s *Service) availability(log *slog.Logger, libraryPath string, target paths.Target, name string, slot domain.Slot) report.Record {
	rec := report.Record{
		Kind:    report.KindListing,
		File:    target.Kind.String(),
		Message: fmt.Sprintf("%s is not available. Available versions include:", name),
		Path:    libraryPath,
		Err:     domain.ErrSourceFileMissing,
	}
	names, err := s.catalog.Matching(libraryPath, slot, target.Ext)
	if err != nil {
		log.Warn("failed to list library", "library", libraryPath, "error", err)
	}
	rec.Items = names
	log.Info("library file not available", "file_name", name, "alternatives", len(names))
	return rec
}

// Store copies the installed file of target into libraryPath as
// "Kontakt <label><ext>". An existing library file is never overwritten.
func (s *Service) Store(target paths.Target, libraryPath, label string, slot domain.Slot) report.Record {
	log := s.logger.With("operation", "store", "slot", int(slot), "file", target.Kind.String())
	ext := paths.Ext(target.Path)
	name := domain.FileName(label, ext)

	exists, err := s.storage.Exists(target.Path)
	if err != nil || !exists {
		log.Warn("installed file missing", "path", target.Path, "error", err)
		return report.Failure(target.Kind, fmt.Sprintf("%s not found", target.Path), target.Path, domain.ErrInstallFileMissing)
	}

	if ok, err := s.storage.IsDir(libraryPath); err != nil || !ok {
		log.Warn("library directory missing", "library", libraryPath, "error", err)
		return report.Failure(target.Kind,
			fmt.Sprintf("Directory does not exist or cannot be accessed: %s", libraryPath),
			libraryPath, domain.ErrSourceDirectoryMissing)
	}

	destination := library.File(libraryPath, label, ext)
	if exists, err := s.storage.Exists(destination); err != nil {
		log.Error("failed to inspect library file", "destination", destination, "error", err)
		return report.Failure(target.Kind, fmt.Sprintf("Failed to store %s. Error: %v", name, err),
			destination, fmt.Errorf("%w: %v", domain.ErrCopyFailure, err))
	} else if exists {
		log.Info("library file exists, not overwriting", "destination", destination)
		return report.Record{
			Kind:    report.KindWarning,
			File:    target.Kind.String(),
			Message: fmt.Sprintf("%s already exists and will not be overwritten", name),
			Path:    destination,
			Err:     domain.ErrDestinationExists,
		}
	}

	if err := s.storage.CopyFile(target.Path, destination); err != nil {
		log.Error("store failed", "source", target.Path, "destination", destination, "error", err)
		return report.Failure(target.Kind, fmt.Sprintf("Failed to store %s. Error: %v", name, err),
			destination, fmt.Errorf("%w: %v", domain.ErrCopyFailure, err))
	}

	if err := s.store.RecordVersion(slot, ext, label); err != nil {
		log.Error("failed to record stored version", "error", err)
		return report.Warning(target.Kind,
			fmt.Sprintf("%s stored but the version could not be recorded. Error: %v", name, err),
			destination, err)
	}

	log.Info("file stored", "source", target.Path, "destination", destination, "label", label)
	return report.Success(target.Kind, fmt.Sprintf("%s stored", name), label, destination)
}

// Read reports the version last loaded or stored for target. Only the
// presence of the installed file is checked; its content is not inspected.
func (s *Service) Read(target paths.Target, slot domain.Slot) report.Record {
	log := s.logger.With("operation", "read", "slot", int(slot), "file", target.Kind.String())

	exists, err := s.storage.Exists(target.Path)
	if err != nil || !exists {
		log.Debug("installed file missing", "path", target.Path, "error", err)
		return report.Failure(target.Kind, fmt.Sprintf("File not found: %s", target.Path), target.Path, domain.ErrInstallPathMissing)
	}

	recorded, ok, err := s.store.RecordedVersion(slot, target.Ext)
	if err != nil {
		log.Error("failed to read recorded version", "error", err)
		return report.Failure(target.Kind, fmt.Sprintf("Failed to read recorded version. Error: %v", err), s.store.Path(), err)
	}
	if !ok {
		return report.Record{
			Kind:    report.KindInfo,
			File:    target.Kind.String(),
			Message: config.NotRecordedMessage(slot, target.Ext),
			Success: true,
			Path:    target.Path,
		}
	}
	return report.Record{
		Kind:    report.KindSuccess,
		File:    target.Kind.String(),
		Message: recorded,
		Success: true,
		Label:   domain.LabelFromFileName(recorded, target.Ext),
	}
}
