// Package snowerr defines the error taxonomy shared by every snow package.
package snowerr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failure without pinning down its message.
type Kind int

const (
	Unknown Kind = iota
	NotARepository
	NoHead
	InvalidCommondir
	NothingToCommit
	RefExists
	RefNotFound
	CannotDeleteCheckedOutRef
	InvalidStartPoint
	UnknownTarget
	InvalidHashSyntax
	OutOfHistory
	UnsupportedPlatform
	HelperNotFound
	HelperExitNonZero
	FileWrittenByAnotherProcess
	IndexInvalidated
	IoError
	NotFound
	AmbiguousHash
)

func (k Kind) String() string {
	switch k {
	case NotARepository:
		return "NotARepository"
	case NoHead:
		return "NoHead"
	case InvalidCommondir:
		return "InvalidCommondir"
	case NothingToCommit:
		return "NothingToCommit"
	case RefExists:
		return "RefExists"
	case RefNotFound:
		return "RefNotFound"
	case CannotDeleteCheckedOutRef:
		return "CannotDeleteCheckedOutRef"
	case InvalidStartPoint:
		return "InvalidStartPoint"
	case UnknownTarget:
		return "UnknownTarget"
	case InvalidHashSyntax:
		return "InvalidHashSyntax"
	case OutOfHistory:
		return "OutOfHistory"
	case UnsupportedPlatform:
		return "UnsupportedPlatform"
	case HelperNotFound:
		return "HelperNotFound"
	case HelperExitNonZero:
		return "HelperExitNonZero"
	case FileWrittenByAnotherProcess:
		return "FileWrittenByAnotherProcess"
	case IndexInvalidated:
		return "IndexInvalidated"
	case IoError:
		return "IoError"
	case NotFound:
		return "NotFound"
	case AmbiguousHash:
		return "AmbiguousHash"
	default:
		return "Unknown"
	}
}

// Error is the single error type every snow package returns. Kind is what
// callers should switch on; Op and Path are context for humans; Err is the
// wrapped cause, if any.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error

	// ExitCode and Stderr are only meaningful for HelperExitNonZero.
	ExitCode int
	Stderr   string

	// ProcessName is only meaningful for FileWrittenByAnotherProcess.
	ProcessName string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, snowerr.Sentinel(kind)) work by comparing
// against a bare *Error carrying only a Kind, which Sentinel constructs.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error of the given kind with no wrapped cause.
func New(kind Kind, op, path string) *Error {
	return &Error{Kind: kind, Op: op, Path: path}
}

// Wrap builds an *Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Sentinel returns a bare *Error usable with errors.Is(err, Sentinel(Kind)).
func Sentinel(kind Kind) error { return &Error{Kind: kind} }

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// WriteLockViolation aggregates per-file write-lock errors detected by the
// I/O context's pre-flight check into a single composite failure.
type WriteLockViolation struct {
	Errors []*Error
}

func (w *WriteLockViolation) Error() string {
	return fmt.Sprintf("write lock violation: %d file(s) held open for writing", len(w.Errors))
}

func (w *WriteLockViolation) Unwrap() []error {
	errs := make([]error, len(w.Errors))
	for i, e := range w.Errors {
		errs[i] = e
	}
	return errs
}
