package snapshotpool

import (
	"fmt"

	"github.com/hupe1980/snapshotpool/internal/conv"
	"github.com/hupe1980/snapshotpool/internal/hashset"
	"github.com/hupe1980/snapshotpool/storage"
)

// VariableSize selects a pool whose snapshots carry their own length.
const VariableSize = -1

// sharedSlotWords is the size of the scratch slot of a variable-size pool.
const sharedSlotWords = MaxSnapshotWords + 1

type mode uint8

const (
	modeEmpty    mode = iota // zero bytes per snapshot, every handle is Zero
	modeTrivial              // up to four bytes, the content is the handle
	modeFixed                // records in storage, handle is the offset
	modeVariable             // per-handle size, short content inline
)

func (m mode) String() string {
	switch m {
	case modeEmpty:
		return "empty"
	case modeTrivial:
		return "trivial"
	case modeFixed:
		return "fixed"
	default:
		return "variable"
	}
}

// Pool interns snapshots: flat records of 32-bit words addressed by Handle.
// Equal content always yields the same handle, and editing one word of a
// snapshot costs a constant-time hash update plus one interner probe.
//
// Records are laid out as payload words followed by one hash word. The
// pool owns a single scratch slot (see LoadToShared) for batching edits.
//
// A Pool is not safe for concurrent use. Run one pool per goroutine.
type Pool[S storage.Storage] struct {
	st   S
	set  *hashset.Set
	keys keys[S]

	mode     mode
	bytes    int
	words    uint32 // payload words per record in fixed-size pools
	lastMask uint32 // valid bits of the last payload word in fixed-size pools

	sharedOffset uint32
	sharedLoaded bool
	sharedSize   uint32 // staged size of a variable-size pool
	sharedHash   uint32
	sharedValue  uint32 // staged content of a trivial pool

	hits    uint64
	misses  uint64
	logger  *Logger
	metrics MetricsCollector
}

// New creates a pool backed by managed (Go heap) storage.
// bytesPerSnapshot is the fixed snapshot width or VariableSize.
func New(bytesPerSnapshot int, opts ...Option) (*Pool[*storage.Managed], error) {
	return NewWithStorage(storage.NewManaged(), bytesPerSnapshot, opts...)
}

// NewWithStorage creates a pool on top of an uninitialized storage.
//
// A width of 0 creates a degenerate pool whose only snapshot is Zero.
// Widths of 1 to 4 bytes keep the content in the handle and never touch
// storage. Wider snapshots are stored as records of at most
// MaxSnapshotWords payload words.
func NewWithStorage[S storage.Storage](st S, bytesPerSnapshot int, opts ...Option) (*Pool[S], error) {
	o := applyOptions(opts)

	p := &Pool[S]{
		st:      st,
		bytes:   bytesPerSnapshot,
		logger:  o.logger.WithPool(o.name, bytesPerSnapshot),
		metrics: o.metricsCollector,
	}
	p.keys.bind(p)

	var err error
	switch {
	case bytesPerSnapshot == VariableSize:
		err = p.initVariable(o.capacity)
	case bytesPerSnapshot < 0:
		err = fmt.Errorf("%w: %d", ErrInvalidSnapshotSize, bytesPerSnapshot)
	case bytesPerSnapshot == 0:
		p.mode = modeEmpty
		p.set = hashset.New(0)
	case bytesPerSnapshot <= 4:
		p.mode = modeTrivial
		p.words = 1
		p.lastMask = trimMask(uint32(bytesPerSnapshot), 0)
		p.set = hashset.New(0)
	default:
		err = p.initFixed(o.capacity)
	}
	if err != nil {
		return nil, err
	}

	p.logger.LogCreated(p.mode.String(), st.SizeBytes())
	return p, nil
}

func (p *Pool[S]) initFixed(capacity int) error {
	size, err := conv.IntToUint32(p.bytes)
	if err != nil {
		return err
	}
	words := wordsFor(size)
	if words > MaxSnapshotWords {
		return fmt.Errorf("%w: %d bytes need %d words, at most %d are supported",
			ErrSnapshotTooLarge, p.bytes, words, MaxSnapshotWords)
	}

	p.mode = modeFixed
	p.words = words
	p.lastMask = trimMask(size, words-1)

	// Zero and the scratch slot come first.
	record := uint64(words + 1)
	initial, err := conv.Uint64ToUint32(record * uint64(capacity+2))
	if err != nil {
		return fmt.Errorf("capacity %d: %w", capacity, err)
	}
	if err := p.st.Init(initial); err != nil {
		return err
	}
	p.set = hashset.New(capacity + 1)

	zero := p.st.Allocate(words + 1)
	p.addNew(Handle(zero), 0)
	p.sharedOffset = p.st.Allocate(words + 1)
	return nil
}

func (p *Pool[S]) initVariable(capacity int) error {
	p.mode = modeVariable

	initial, err := conv.IntToUint32(capacity + sharedSlotWords)
	if err != nil {
		return fmt.Errorf("capacity %d: %w", capacity, err)
	}
	if err := p.st.Init(initial); err != nil {
		return err
	}
	p.set = hashset.New(capacity)
	p.sharedOffset = p.st.Allocate(sharedSlotWords)
	return nil
}

// BytesPerSnapshot returns the configured width, or VariableSize.
func (p *Pool[S]) BytesPerSnapshot() int {
	return p.bytes
}

// IsVariableSize reports whether snapshots carry their own length.
func (p *Pool[S]) IsVariableSize() bool {
	return p.mode == modeVariable
}

// Size returns the number of content bytes of h.
func (p *Pool[S]) Size(h Handle) int {
	if p.mode != modeVariable {
		return p.bytes
	}
	_, size, _ := p.locate(h)
	return int(size)
}

// Words returns the number of payload words of h.
func (p *Pool[S]) Words(h Handle) int {
	if p.mode != modeVariable {
		return int(p.words)
	}
	_, size, _ := p.locate(h)
	return int(wordsFor(size))
}

// locate decodes a variable-size handle. inline reports that the content is
// the low half of the handle rather than a record at off.
func (p *Pool[S]) locate(h Handle) (off, size uint32, inline bool) {
	if h.size() == sharedSizeTag {
		return p.sharedOffset, p.sharedSize, false
	}
	size = h.size()
	return h.low(), size, size <= maxInlineBytes
}

func (p *Pool[S]) isShared(h Handle) bool {
	switch p.mode {
	case modeFixed:
		return uint32(h) == p.sharedOffset
	case modeVariable:
		return h.size() == sharedSizeTag
	default:
		return false
	}
}

func (p *Pool[S]) checkIndex(op string, index int, h Handle) {
	if p.mode == modeVariable {
		_, size, _ := p.locate(h)
		if index < 0 || uint64(index)*4 >= uint64(size) {
			precondition(op, ErrIndexOutOfRange, "word %d of a %d-byte snapshot", index, size)
		}
		return
	}
	if index < 0 || index >= int(p.words) {
		precondition(op, ErrIndexOutOfRange, "word %d of a %d-byte snapshot", index, p.bytes)
	}
}

// Word returns word index of h.
func (p *Pool[S]) Word(h Handle, index int) uint32 {
	if checksEnabled {
		p.checkIndex("Word", index, h)
	}
	switch p.mode {
	case modeTrivial:
		return uint32(h)
	case modeVariable:
		off, _, inline := p.locate(h)
		if inline {
			return h.low()
		}
		return p.st.Word(off, uint32(index))
	default:
		return p.st.Word(uint32(h), uint32(index))
	}
}

// DebugWords returns a copy of all payload words of h.
// It allocates and is meant for diagnostics and tests.
func (p *Pool[S]) DebugWords(h Handle) []uint32 {
	n := p.Words(h)
	out := make([]uint32, n)
	for i := range n {
		out[i] = p.Word(h, i)
	}
	return out
}

// SetWord returns the snapshot equal to h with word index set to value.
//
// Writing the current value returns h itself. Otherwise the pool looks up
// the edited content and returns the existing handle if it was seen
// before; only new content allocates a record. Bytes beyond the snapshot
// width are cut from value. Passing Shared() stores the scratch snapshot
// first.
func (p *Pool[S]) SetWord(h Handle, index int, value uint32) Handle {
	if checksEnabled {
		p.checkIndex("SetWord", index, h)
	}
	if p.isShared(h) {
		h = p.StoreShared()
	}

	i := uint32(index)
	switch p.mode {
	case modeTrivial:
		return Handle(value & p.lastMask)
	case modeVariable:
		off, size, inline := p.locate(h)
		if inline {
			// off holds the inline content.
			if off == value {
				return h
			}
			return variableHandle(size, value&trimMask(size, i))
		}
		// Appended masks may leave bits past size, so compare before trimming.
		old := p.st.Word(off, i)
		if old == value {
			return h
		}
		value &= trimMask(size, i)
		if old == value {
			return h
		}
		words := wordsFor(size)
		hash := rehash(p.st.Word(off, words), i, old, value)
		return p.internChanged(off, words, size, i, value, hash)
	default:
		if i == p.words-1 {
			value &= p.lastMask
		}
		src := uint32(h)
		old := p.st.Word(src, i)
		if old == value {
			return h
		}
		hash := rehash(p.st.Word(src, p.words), i, old, value)
		return p.internChanged(src, p.words, 0, i, value, hash)
	}
}

func (p *Pool[S]) keyHash(hash, size uint32) uint32 {
	if p.mode == modeVariable {
		return sizedHash(hash, size)
	}
	return hash
}

func (p *Pool[S]) handleAt(off, size uint32) Handle {
	if p.mode == modeVariable {
		return variableHandle(size, off)
	}
	return Handle(off)
}

// internChanged returns the handle of the record at src with one word replaced.
func (p *Pool[S]) internChanged(src, words, size, index, value, hash uint32) Handle {
	k := &p.keys.changed
	k.src, k.words, k.index, k.value, k.size = src, words, index, value, size
	k.hash = p.keyHash(hash, size)
	if found, ok := p.set.TryGet(k); ok {
		p.hit()
		return Handle(found)
	}
	p.miss()

	off := p.allocate(words + 1)
	p.st.Copy(src, off, words)
	p.st.SetWord(off, index, value)
	p.st.SetWord(off, words, hash)

	h := p.handleAt(off, size)
	p.addNew(h, k.hash)
	return h
}

// internRecord returns the handle of a record with the content at src.
func (p *Pool[S]) internRecord(src, words, size, hash uint32) Handle {
	k := &p.keys.record
	k.off, k.words, k.size = src, words, size
	k.hash = p.keyHash(hash, size)
	if found, ok := p.set.TryGet(k); ok {
		p.hit()
		return Handle(found)
	}
	p.miss()

	off := p.allocate(words + 1)
	p.st.Copy(src, off, words)
	p.st.SetWord(off, words, hash)

	h := p.handleAt(off, size)
	p.addNew(h, k.hash)
	return h
}

func (p *Pool[S]) addNew(h Handle, keyHash uint32) {
	p.keys.inserted.hash = keyHash
	p.set.Add(uint64(h), &p.keys.inserted)
}

// allocate reserves words in storage, reporting growth.
// Offsets stay valid across growth; raw memory does not.
func (p *Pool[S]) allocate(words uint32) uint32 {
	before := p.st.SizeBytes()
	off := p.st.Allocate(words)
	if after := p.st.SizeBytes(); after != before {
		p.logger.LogGrowth(before, after, p.set.Len())
		p.metrics.RecordGrowth(before, after)
	}
	return off
}

func (p *Pool[S]) hit() {
	p.hits++
	p.metrics.RecordIntern(true)
}

func (p *Pool[S]) miss() {
	p.misses++
	p.metrics.RecordIntern(false)
}

// Len returns the number of snapshots held in storage, Zero included.
// Snapshots kept inside their handles are not counted.
func (p *Pool[S]) Len() int {
	return p.set.Len()
}

// MemoryTotalBytes returns the bytes held by storage and the interner.
func (p *Pool[S]) MemoryTotalBytes() uint64 {
	return p.st.SizeBytes() + p.set.TotalBytes()
}

// MemoryPerSnapshotBytes returns the bytes one stored snapshot costs,
// record plus interner entry. Pools that keep content in handles report 0.
// Variable-size pools report the average over the records stored so far.
func (p *Pool[S]) MemoryPerSnapshotBytes() uint64 {
	switch p.mode {
	case modeFixed:
		return uint64(p.words+1)*4 + hashset.BytesPerRecord
	case modeVariable:
		n := p.set.Len()
		if n == 0 {
			return 0
		}
		used := uint64(p.st.UsedWords() - sharedSlotWords)
		return used*4/uint64(n) + hashset.BytesPerRecord
	default:
		return 0
	}
}

// Close releases the backing storage. The pool must not be used afterwards.
func (p *Pool[S]) Close() error {
	return p.st.Close()
}
