package pipeline

import (
	"errors"
	"fmt"
)

// ErrCommitMismatch means the proof's embedded public values differ from
// the dry-run commitment. A backend must never produce this; it is a
// defect, not a user error.
var ErrCommitMismatch = errors.New("proof public values do not match dry-run commitment")

// ExecutionError reports a failed local dry run: the kernel aborted or
// committed values that do not decode.
type ExecutionError struct {
	N   uint32
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("local execution failed for n=%d: %v", e.N, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// LocalVerificationError means a proof this pipeline produced failed
// verification against its own key. That signals a backend or binding
// bug, never a transient condition.
type LocalVerificationError struct {
	Err error
}

func (e *LocalVerificationError) Error() string {
	return fmt.Sprintf("self-generated proof failed local verification: %v", e.Err)
}

func (e *LocalVerificationError) Unwrap() error { return e.Err }
