package core

import (
	"fmt"
)

// SolverError represents an error raised by the solver or one of its
// components. It carries the originating subsystem and operation so that
// callers driving many solver instances can tell them apart in logs.
type SolverError struct {
	System   string
	Op       string
	Message  string
	Position int

	// Fatal marks errors that leave the solver instance unusable (allocator
	// exhaustion, an internal invariant check failing in a debug build).
	// Non-fatal errors (invalid input, interrupted solves) leave the solver
	// valid for further queries.
	Fatal bool
}

func (e *SolverError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("solver error in %s.%s: %s", e.System, e.Op, e.Message)
	}
	return fmt.Sprintf("solver error in %s: %s", e.Op, e.Message)
}

// NewSolverError builds a non-fatal error.
func NewSolverError(system, operation, message string) *SolverError {
	return &SolverError{System: system, Op: operation, Message: message}
}

// NewFatalError builds an error that signals a permanently broken instance.
func NewFatalError(system, operation, message string) *SolverError {
	return &SolverError{System: system, Op: operation, Message: message, Fatal: true}
}
