// Package copyerr defines the closed set of failures a copy session can
// report and which of them are worth retrying.
package copyerr

import (
	"errors"
	"fmt"
)

// Kind classifies a copy failure.
type Kind int

const (
	// TransientIO covers open/read/write/seek/stat failures. Retryable.
	TransientIO Kind = iota + 1
	// CheckpointInvalid means the file at the checkpoint path is not one we
	// wrote, or no longer matches the source. Never retried.
	CheckpointInvalid
	// NotImplemented is reported by the daemon surface.
	NotImplemented
)

var kindNames = [...]string{
	TransientIO:       "TransientIO",
	CheckpointInvalid: "CheckpointInvalid",
	NotImplemented:    "NotImplemented",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Causes attached to CheckpointInvalid errors.
var (
	ErrWrongSize      = errors.New("checkpoint file is not 8 bytes")
	ErrOutOfRange     = errors.New("checkpoint offset outside source file")
	ErrNotImplemented = errors.New("not implemented")
)

// Error is a classified copy failure.
type Error struct {
	Err  error
	Op   string // "open", "read", "checkpoint", ...
	Path string
	Kind Kind
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Op != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool { return e.Kind == TransientIO }

// Transient wraps err as a retryable I/O failure.
func Transient(op, path string, err error) error {
	return &Error{Kind: TransientIO, Op: op, Path: path, Err: err}
}

// InvalidCheckpoint reports a checkpoint that must not be used or overwritten.
func InvalidCheckpoint(path string, cause error) error {
	return &Error{Kind: CheckpointInvalid, Op: "checkpoint", Path: path, Err: cause}
}

// Unimplemented reports a surface that exists only as a stub.
func Unimplemented(op string) error {
	return &Error{Kind: NotImplemented, Op: op, Err: ErrNotImplemented}
}

// IsRetryable reports whether err carries a retryable classification.
// Unclassified errors are treated as fatal.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
