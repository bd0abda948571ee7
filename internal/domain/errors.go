package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure so the dispatcher can pick the
// user-facing message without inspecting backend error strings.
type ErrorKind string

const (
	ErrValidation  ErrorKind = "validation"
	ErrTransport   ErrorKind = "transport"
	ErrConversion  ErrorKind = "conversion"
	ErrRecognition ErrorKind = "recognition"
	ErrSynthesis   ErrorKind = "synthesis"
)

// PipelineError wraps a backend failure with its kind. All errors crossing
// from an adapter back into the dispatcher are of this type.
type PipelineError struct {
	Kind ErrorKind
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Pipeline wraps err with a kind, preserving the cause chain.
func Pipeline(kind ErrorKind, err error) *PipelineError {
	return &PipelineError{Kind: kind, Err: err}
}

// KindOf extracts the kind from err, defaulting to ErrTransport for
// unclassified failures.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrTransport
}
