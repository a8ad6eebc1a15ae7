package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrMalformedEdge = errors.New("malformed edge")
	ErrSelfLoop      = errors.New("self-loop not allowed")
	ErrBadWeight     = errors.New("edge weight must be positive")
	ErrNodeNotFound  = errors.New("node not found")
	ErrEmptyGraph    = errors.New("graph has no nodes")
)

// EdgeError provides structured error information for graph construction.
type EdgeError struct {
	Op     string  // Operation that failed (e.g., "Build", "ReadEdgeList")
	Source string  // Source endpoint as read from input
	Target string  // Target endpoint as read from input
	Weight float64 // Weight as read from input
	Line   int     // Input line number (0 if not from a file)
	Cause  error   // Underlying error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: edge %q -- %q (weight %g) at line %d: %v",
			e.Op, e.Source, e.Target, e.Weight, e.Line, e.Cause)
	}
	return fmt.Sprintf("%s: edge %q -- %q (weight %g): %v",
		e.Op, e.Source, e.Target, e.Weight, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EdgeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *EdgeError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
