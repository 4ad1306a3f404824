package core

import "errors"

// Error kinds shared by all packages of the module. Package-level sentinel
// errors wrap one of these, so callers can branch on the kind with errors.Is.
var (
	// ErrInsufficientData reports too few samples, values or accepted windows
	// for a computation to be defined.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidConfiguration reports an unknown identifier or inconsistent
	// parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrMissingPrerequisite reports required inputs (e.g. channels) that are
	// absent.
	ErrMissingPrerequisite = errors.New("missing prerequisite")
)
