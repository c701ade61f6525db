package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxWords is the largest number of words a Storage can address.
// Offsets are 32-bit, so the last record must end at or before this bound.
const MaxWords = math.MaxUint32

// minGrowWords is the capacity a buffer grows to when it starts empty.
const minGrowWords = 16

// acquireTimeout bounds how long growth waits on a MemoryAcquirer.
const acquireTimeout = 100 * time.Millisecond

var (
	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("storage: already initialized")
	// ErrCapacityOverflow is reported when a request cannot be addressed with 32-bit offsets.
	ErrCapacityOverflow = errors.New("storage: capacity exceeds 32-bit word offsets")
	// ErrClosed is reported when a closed storage is used.
	ErrClosed = errors.New("storage: closed")
)

// AllocationError reports a failed attempt to obtain backing memory.
// Storage panics with it, since running out of memory is not recoverable
// in the middle of an interning operation.
type AllocationError struct {
	Words uint64 // Requested capacity in words
	Err   error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("storage: cannot allocate %d words: %v", e.Words, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}

// MemoryAcquirer accounts backing memory against an external budget.
// resource.Controller satisfies it.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

// Storage is a growable flat buffer of 32-bit words.
//
// Offsets returned by Allocate stay valid for the lifetime of the storage.
// Slices derived from the backing memory do not: growth may move it.
type Storage interface {
	// Init allocates the initial buffer. A second call returns ErrAlreadyInitialized.
	Init(capacityWords uint32) error
	// Word returns the word at offset+index.
	Word(offset, index uint32) uint32
	// SetWord overwrites the word at offset+index.
	SetWord(offset, index, value uint32)
	// EqualRange reports whether words [start,end) of the records at a and b are equal.
	EqualRange(a, b, start, end uint32) bool
	// Copy copies words from src to dst. The ranges must not overlap.
	Copy(src, dst, words uint32)
	// Allocate reserves words zeroed words and returns their offset.
	Allocate(words uint32) uint32
	// SizeBytes returns the size of the backing buffer in bytes.
	SizeBytes() uint64
	// UsedWords returns the number of allocated words.
	UsedWords() uint32
	// Close releases the backing buffer.
	Close() error
}

// Option configures a storage realization.
type Option func(*options)

type options struct {
	acquirer MemoryAcquirer
}

// WithMemoryAcquirer accounts every growth of the backing buffer against acquirer.
// Growth beyond the budget panics with an *AllocationError.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// nextCapacity doubles current until it can hold need words.
func nextCapacity(current, need uint64) (uint64, error) {
	if need > MaxWords {
		return 0, ErrCapacityOverflow
	}
	c := max(current, minGrowWords)
	for c < need {
		c *= 2
	}
	return min(c, MaxWords), nil
}

// budget tracks the bytes a storage has acquired from a MemoryAcquirer.
type budget struct {
	acquirer MemoryAcquirer
	held     int64
}

func (b *budget) acquire(bytes int64) error {
	if b.acquirer == nil || bytes <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), acquireTimeout)
	defer cancel()
	if err := b.acquirer.AcquireMemory(ctx, bytes); err != nil {
		return err
	}
	b.held += bytes
	return nil
}

func (b *budget) release(bytes int64) {
	if b.acquirer == nil || bytes <= 0 {
		return
	}
	b.acquirer.ReleaseMemory(bytes)
	b.held -= bytes
}

func (b *budget) releaseAll() {
	b.release(b.held)
}
