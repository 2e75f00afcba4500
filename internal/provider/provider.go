// Package provider wraps the external text-retrieval process behind a
// capability interface so everything above it can run against an in-memory
// fake.
package provider

import (
	"context"
	"errors"
	"fmt"

	"canon-tui/internal/ref"
)

// TextProvider returns the raw rendered text for a (module, range) pair.
// Implementations must honor ctx cancellation and never block the caller
// indefinitely.
type TextProvider interface {
	Fetch(ctx context.Context, module string, rng ref.Range) (string, error)
}

// ErrorKind classifies fetch failures.
type ErrorKind int

const (
	// Timeout means the external process exceeded the per-call budget.
	Timeout ErrorKind = iota
	// ProcessFailure means a non-zero exit or an invocation error.
	ProcessFailure
	// EmptyResult means the module has no text for the range. This is not
	// a failure: empty but valid results occur at canon edges.
	EmptyResult
)

func (k ErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case ProcessFailure:
		return "process failure"
	case EmptyResult:
		return "empty result"
	}
	return "unknown"
}

// Error is a classified fetch failure.
type Error struct {
	Kind   ErrorKind
	Module string
	Range  ref.Range
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s from %s: %s", e.Range, e.Module, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or ProcessFailure for errors
// that did not come from a provider.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ProcessFailure
}

// IsEmpty reports whether err is an EmptyResult.
func IsEmpty(err error) bool {
	return err != nil && KindOf(err) == EmptyResult
}
