package acquire

import (
	"errors"

	"github.com/joseph-ayodele/maritime-tracker/constants"
)

// Reason classifies an acquisition failure.
type Reason string

const (
	ReasonUnsupported Reason = "unsupported"
	ReasonUnreadable  Reason = "unreadable"
	ReasonEmpty       Reason = "empty"
	ReasonTooLarge    Reason = "too_large"
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrUnreadable  = errors.New("file unreadable")
	ErrEmpty       = errors.New("no text in document")
	ErrTooLarge    = errors.New("file too large")
)

const msgUnsupported = "Unsupported file type. Please use PDF, CSV, or TXT files."

// AcquisitionError is returned for every failure to obtain document text.
// Message is safe to show to the user.
type AcquisitionError struct {
	Reason  Reason
	Path    string
	Message string
	Cause   error
}

func (e *AcquisitionError) Error() string { return e.Message }

// Unwrap exposes both the reason sentinel and the underlying cause to errors.Is.
func (e *AcquisitionError) Unwrap() []error {
	errs := []error{sentinel(e.Reason)}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func sentinel(r Reason) error {
	switch r {
	case ReasonUnsupported:
		return ErrUnsupported
	case ReasonEmpty:
		return ErrEmpty
	case ReasonTooLarge:
		return ErrTooLarge
	default:
		return ErrUnreadable
	}
}

func newError(r Reason, path, msg string, cause error) *AcquisitionError {
	return &AcquisitionError{Reason: r, Path: path, Message: msg, Cause: cause}
}

// AsAcquisitionError unwraps err to an *AcquisitionError.
func AsAcquisitionError(err error) (*AcquisitionError, bool) {
	var ae *AcquisitionError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func emptyMessage(kind constants.SourceKind) string {
	switch kind {
	case constants.PDF:
		return "No text could be extracted from PDF or PDF is empty."
	case constants.CSV:
		return "CSV file is empty or contains only whitespace."
	default:
		return "TXT file is empty or contains only whitespace."
	}
}
