// Package apperror gives every service a shared vocabulary for tagging its
// sentinel errors, so a boundary (an HTTP handler, the job runner's error
// counters) can classify an error without string-matching or importing every
// service package's sentinel values directly.
package apperror

import "errors"

// Kind classifies a service error for a boundary's response mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindUnauthorized
	KindForbidden
	KindInternal
	KindPreconditionFailed
	KindTransientBackend
	KindPermanentBackend
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInternal:
		return "internal"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindTransientBackend:
		return "transient_backend"
	case KindPermanentBackend:
		return "permanent_backend"
	default:
		return "unknown"
	}
}

// taggedError pairs a Kind with the underlying sentinel so errors.Is still
// matches against the wrapped value.
type taggedError struct {
	kind Kind
	err  error
}

func (e *taggedError) Error() string { return e.err.Error() }
func (e *taggedError) Unwrap() error { return e.err }
func (e *taggedError) Kind() Kind    { return e.kind }

// Wrap tags err with kind, preserving errors.Is/errors.As against err.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &taggedError{kind: kind, err: err}
}

// KindOf extracts the Kind a caller previously attached with Wrap, or
// KindUnknown if err was never tagged.
func KindOf(err error) Kind {
	var te *taggedError
	if errors.As(err, &te) {
		return te.kind
	}
	return KindUnknown
}
