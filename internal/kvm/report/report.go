// Package report carries the outcome of an operation as a sequence of
// records, so the core never writes to a terminal or widget directly.
package report

import (
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/domain"
)

// Kind classifies a record for rendering.
type Kind string

const (
	KindInfo       Kind = "info"
	KindSuccess    Kind = "success"
	KindWarning    Kind = "warning"
	KindError      Kind = "error"
	KindListing    Kind = "listing"
	KindDisclaimer Kind = "disclaimer"
)

// Record is one line (or block) of operation output.
type Record struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	File    string   `json:"file,omitempty" yaml:"file,omitempty"`
	Message string   `json:"message" yaml:"message"`
	Success bool     `json:"success" yaml:"success"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Path    string   `json:"path,omitempty" yaml:"path,omitempty"`
	Items   []string `json:"items,omitempty" yaml:"items,omitempty"`

	// Err is the classified failure, usable with errors.Is.
	Err error `json:"-" yaml:"-"`
}

// Report collects the records of one orchestrated run.
type Report struct {
	Mode    domain.Mode `json:"mode" yaml:"mode"`
	Slot    domain.Slot `json:"slot" yaml:"slot"`
	Label   string      `json:"label,omitempty" yaml:"label,omitempty"`
	Records []Record    `json:"records" yaml:"records"`
}

// New starts an empty report for mode.
func New(mode domain.Mode, slot domain.Slot, label string) *Report {
	return &Report{Mode: mode, Slot: slot, Label: label}
}

// Add appends records.
func (r *Report) Add(records ...Record) {
	r.Records = append(r.Records, records...)
}

// Info appends an informational record.
func (r *Report) Info(message string) {
	r.Add(Record{Kind: KindInfo, Message: message, Success: true})
}

// Failed reports whether any record is an error.
func (r *Report) Failed() bool {
	for _, rec := range r.Records {
		if rec.Kind == KindError {
			return true
		}
	}
	return false
}

// OK reports whether the run finished without errors.
func (r *Report) OK() bool {
	return !r.Failed()
}

// Errors returns the classified errors of every failed record.
func (r *Report) Errors() []error {
	var errs []error
	for _, rec := range r.Records {
		if rec.Kind == KindError && rec.Err != nil {
			errs = append(errs, rec.Err)
		}
	}
	return errs
}

// Success builds a record for a completed transfer.
func Success(kind domain.FileKind, message, label, path string) Record {
	return Record{Kind: KindSuccess, File: kind.String(), Message: message, Success: true, Label: label, Path: path}
}

// Failure builds an error record wrapping err.
func Failure(kind domain.FileKind, message, path string, err error) Record {
	return Record{Kind: KindError, File: kind.String(), Message: message, Path: path, Err: err}
}

// Warning builds a warning record that does not fail the run.
func Warning(kind domain.FileKind, message, path string, err error) Record {
	return Record{Kind: KindWarning, File: kind.String(), Message: message, Success: true, Path: path, Err: err}
}
