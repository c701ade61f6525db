package storage

import (
	"fmt"

	"github.com/hupe1980/snapshotpool/internal/mmap"
)

// pageWords is the number of words in a 4 KiB page.
const pageWords = 1024

// Unmanaged is a Storage backed by an anonymous memory mapping.
//
// The words live outside the Go heap, so very large pools add nothing to
// garbage collection work. Growth replaces the mapping; words is re-derived
// from the current mapping every time and never cached by callers.
type Unmanaged struct {
	mapping     *mmap.Mapping
	words       []uint32
	used        uint32
	initialized bool
	closed      bool
	budget      budget
}

var _ Storage = (*Unmanaged)(nil)

// NewUnmanaged creates an uninitialized off-heap storage.
func NewUnmanaged(opts ...Option) *Unmanaged {
	o := applyOptions(opts)
	return &Unmanaged{budget: budget{acquirer: o.acquirer}}
}

// Init maps capacityWords zeroed words, rounded up to whole pages.
func (u *Unmanaged) Init(capacityWords uint32) error {
	if u.initialized {
		return ErrAlreadyInitialized
	}
	if u.closed {
		return ErrClosed
	}
	u.initialized = true
	if capacityWords == 0 {
		return nil
	}
	return u.remap(roundToPage(uint64(capacityWords)))
}

func (u *Unmanaged) Word(offset, index uint32) uint32 {
	return u.words[offset+index]
}

func (u *Unmanaged) SetWord(offset, index, value uint32) {
	u.words[offset+index] = value
}

func (u *Unmanaged) EqualRange(a, b, start, end uint32) bool {
	wa := u.words[a+start : a+end]
	wb := u.words[b+start : b+end]
	for i := range wa {
		if wa[i] != wb[i] {
			return false
		}
	}
	return true
}

func (u *Unmanaged) Copy(src, dst, words uint32) {
	copy(u.words[dst:dst+words], u.words[src:src+words])
}

// Allocate reserves words zeroed words, remapping to a doubled region as needed.
func (u *Unmanaged) Allocate(words uint32) uint32 {
	if u.closed {
		panic(&AllocationError{Words: uint64(words), Err: ErrClosed})
	}
	u.initialized = true
	offset := u.used
	need := uint64(u.used) + uint64(words)
	if need > uint64(len(u.words)) {
		newCap, err := nextCapacity(uint64(len(u.words)), need)
		if err != nil {
			panic(&AllocationError{Words: need, Err: err})
		}
		if err := u.remap(roundToPage(newCap)); err != nil {
			panic(err)
		}
	}
	u.used = uint32(need)
	return offset
}

// remap moves the used words into a fresh mapping of capWords words.
func (u *Unmanaged) remap(capWords uint64) error {
	capWords = min(capWords, MaxWords)
	oldBytes := int64(len(u.words)) * 4
	newBytes := int64(capWords) * 4
	if err := u.budget.acquire(newBytes - oldBytes); err != nil {
		return &AllocationError{Words: capWords, Err: err}
	}

	m, err := mmap.MapAnon(int(newBytes))
	if err != nil {
		u.budget.release(newBytes - oldBytes)
		return &AllocationError{Words: capWords, Err: fmt.Errorf("map anonymous memory: %w", err)}
	}
	// Interner probes hit records in no particular order.
	_ = m.Advise(mmap.AccessRandom)

	words := m.Uint32s()
	copy(words, u.words[:u.used])

	if u.mapping != nil {
		_ = u.mapping.Close()
	}
	u.mapping = m
	u.words = words
	return nil
}

func (u *Unmanaged) SizeBytes() uint64 {
	return uint64(len(u.words)) * 4
}

func (u *Unmanaged) UsedWords() uint32 {
	return u.used
}

// Close unmaps the backing memory. It is idempotent.
func (u *Unmanaged) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.words = nil
	u.used = 0
	u.budget.releaseAll()
	if u.mapping == nil {
		return nil
	}
	err := u.mapping.Close()
	u.mapping = nil
	return err
}

func roundToPage(words uint64) uint64 {
	return (words + pageWords - 1) / pageWords * pageWords
}
