package domain

import "errors"

// Exported error variables allow callers to use errors.Is() for error checking.
var (
	ErrInvalidVersionFormat   = errors.New("invalid version format")
	ErrVersionMismatch        = errors.New("kontakt version mismatch")
	ErrUnsupportedSlot        = errors.New("unsupported kontakt version")
	ErrUnsupportedPlatform    = errors.New("no install paths known for this platform")
	ErrSourceDirectoryMissing = errors.New("directory does not exist or cannot be accessed")
	ErrSourceFileMissing      = errors.New("file is not available in the library")
	ErrInstallFileMissing     = errors.New("installed file not found")
	ErrInstallPathMissing     = errors.New("file not found")
	ErrDestinationExists      = errors.New("file already exists and will not be overwritten")
	ErrCopyFailure            = errors.New("copy failed")
	ErrUnknownMode            = errors.New("unknown mode")

	ErrLabelEmpty        = errors.New("version label cannot be empty")
	ErrLabelNullByte     = errors.New("version label contains null byte")
	ErrLabelNonPrintable = errors.New("version label contains non-printable characters")
	ErrLabelInvalidChars = errors.New("version label contains invalid characters (<>:\"/\\|?*)")
)
