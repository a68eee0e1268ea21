package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed synthesis errors via errors.Is
var (
	ErrResolution    = errors.New("unresolvable reference")
	ErrCycleDetected = errors.New("reference cycle detected")
	ErrUnknownType   = errors.New("unknown schema kind")
)

// ResolutionError reports a $ref pointer that does not resolve against the document
type ResolutionError struct {
	Pointer string
	Cause   error
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", ErrResolution, e.Pointer, e.Cause)
	}
	return fmt.Sprintf("%s %q", ErrResolution, e.Pointer)
}

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

func (e *ResolutionError) Unwrap() error { return e.Cause }

// CycleDetectedError reports a $ref chain that re-enters a pointer still being resolved
type CycleDetectedError struct {
	Pointer string
	// Chain lists the pointers being resolved, outermost first
	Chain []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("%s at %q (%s -> %s)", ErrCycleDetected, e.Pointer, strings.Join(e.Chain, " -> "), e.Pointer)
}

func (e *CycleDetectedError) Is(target error) bool { return target == ErrCycleDetected }

// UnknownTypeError reports a structurally unrecognized schema kind
type UnknownTypeError struct {
	Kind string
	// Pointer is the innermost reference being resolved when the kind was found
	Pointer string
}

func (e *UnknownTypeError) Error() string {
	if e.Pointer != "" {
		return fmt.Sprintf("%s %q in %q", ErrUnknownType, e.Kind, e.Pointer)
	}
	return fmt.Sprintf("%s %q", ErrUnknownType, e.Kind)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// operationError prefixes err with the operation it aborted
func operationError(method, path string, err error) error {
	return fmt.Errorf("%s %s: %w", method, path, err)
}
