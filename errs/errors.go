// Package errs defines the error-kind taxonomy used across the execution
// core: every failure raised by a plan, expression or executor carries one
// of these kinds so callers can switch on Kind() instead of string-matching
// messages.
package errs

import (
	"fmt"
	"runtime"

	"github.com/devlights/gomy/output"
)

// Kind classifies a failure the way the execution core expects its
// collaborators (planner, optimizer, executors) to report it.
type Kind int

const (
	// NotImplemented marks a stubbed-out operator or feature.
	NotImplemented Kind = iota
	// TypeMismatch marks incompatible value types or vector dimensions.
	TypeMismatch
	// SchemaMismatch marks a shape or name mismatch between a source and a target schema.
	SchemaMismatch
	// NotFound marks an unresolved table/index/CTE name.
	NotFound
	// AlreadyExists marks a duplicate table/index name.
	AlreadyExists
	// Conflict marks a concurrent-mutation conflict surfaced unchanged from the MVCC collaborator.
	Conflict
	// ExecutionAborted is raised by an executor to terminate the pipeline early.
	ExecutionAborted
	// Invariant marks a broken internal invariant; non-recoverable.
	Invariant
)

func (k Kind) String() string {
	switch k {
	case NotImplemented:
		return "NotImplemented"
	case TypeMismatch:
		return "TypeMismatch"
	case SchemaMismatch:
		return "SchemaMismatch"
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case Conflict:
		return "Conflict"
	case ExecutionAborted:
		return "ExecutionAborted"
	case Invariant:
		return "Invariant"
	default:
		return "Unknown"
	}
}

// Location is an optional source-location tag attached to an Error, named
// by the component that raised it (e.g. "optimizer.mergeFilterScan").
type Location string

// Error is the single error type returned by this core's packages.
type Error struct {
	Kind Kind
	Msg  string
	Loc  Location
}

func (e *Error) Error() string {
	if e.Loc != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Kind, e.Msg, e.Loc)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New builds an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At attaches a source location to an Error and returns it, for chaining.
func (e *Error) At(loc Location) *Error {
	e.Loc = loc
	return e
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// Invariantf panics with an Invariant-kind error and dumps a goroutine
// stack trace for postmortem diagnosis, matching the teacher's
// common.SH_Assert / RuntimeStack pairing.
func Invariantf(condition bool, format string, args ...interface{}) {
	if condition {
		return
	}
	e := New(Invariant, format, args...)
	dumpStack(e.Error())
	panic(e)
}

func dumpStack(reason string) {
	buf := make([]byte, 1<<12)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			output.Stdoutl("=== invariant violated: "+reason+" ===", string(buf[:n]))
			return
		}
		buf = make([]byte, 2*len(buf))
	}
}
