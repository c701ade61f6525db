package snapshotpool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSnapshotSize is returned for a negative snapshot size other than VariableSize.
	ErrInvalidSnapshotSize = errors.New("invalid snapshot size")
	// ErrSnapshotTooLarge is reported when a snapshot needs more than MaxSnapshotWords payload words.
	ErrSnapshotTooLarge = errors.New("snapshot too large")
	// ErrInvalidShape is returned for a bit layout that does not fit the pool.
	ErrInvalidShape = errors.New("invalid bit array shape")
	// ErrIndexOutOfRange is reported for a word, byte or bit index outside the snapshot.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrNotVariableSize is reported when a variable-size operation is used on a fixed-size pool.
	ErrNotVariableSize = errors.New("pool is not variable-size")
	// ErrSharedNotLoaded is reported when the scratch snapshot is used before LoadToShared.
	ErrSharedNotLoaded = errors.New("scratch snapshot not loaded")
	// ErrSharedTooSmall is reported when the scratch snapshot cannot hold the requested size.
	ErrSharedTooSmall = errors.New("scratch snapshot too small")
	// ErrSharedShrink is reported when the scratch snapshot is asked to shrink.
	ErrSharedShrink = errors.New("scratch snapshot cannot shrink")
)

// PreconditionError is the panic value for a misuse of a pool, such as an
// out-of-range index. It indicates a programming error in the caller.
//
// The violated condition can be matched with errors.Is against the sentinel
// errors of this package.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("snapshotpool: %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error { return e.Err }

func precondition(op string, err error, format string, args ...any) {
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
	}
	panic(&PreconditionError{Op: op, Err: err})
}
