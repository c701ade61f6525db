package storage

import "slices"

// Managed is a Storage backed by a Go slice.
type Managed struct {
	words       []uint32
	used        uint32
	initialized bool
	budget      budget
}

var _ Storage = (*Managed)(nil)

// NewManaged creates an uninitialized managed storage.
func NewManaged(opts ...Option) *Managed {
	o := applyOptions(opts)
	return &Managed{budget: budget{acquirer: o.acquirer}}
}

// Init allocates capacityWords zeroed words.
func (m *Managed) Init(capacityWords uint32) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	if err := m.budget.acquire(int64(capacityWords) * 4); err != nil {
		return &AllocationError{Words: uint64(capacityWords), Err: err}
	}
	m.words = make([]uint32, capacityWords)
	m.initialized = true
	return nil
}

func (m *Managed) Word(offset, index uint32) uint32 {
	return m.words[offset+index]
}

func (m *Managed) SetWord(offset, index, value uint32) {
	m.words[offset+index] = value
}

func (m *Managed) EqualRange(a, b, start, end uint32) bool {
	return slices.Equal(m.words[a+start:a+end], m.words[b+start:b+end])
}

func (m *Managed) Copy(src, dst, words uint32) {
	copy(m.words[dst:dst+words], m.words[src:src+words])
}

// Allocate reserves words zeroed words, doubling the slice as needed.
func (m *Managed) Allocate(words uint32) uint32 {
	m.initialized = true
	offset := m.used
	need := uint64(m.used) + uint64(words)
	if need > uint64(len(m.words)) {
		m.grow(need)
	}
	m.used = uint32(need)
	return offset
}

func (m *Managed) grow(need uint64) {
	newCap, err := nextCapacity(uint64(len(m.words)), need)
	if err != nil {
		panic(&AllocationError{Words: need, Err: err})
	}
	if err := m.budget.acquire(int64(newCap-uint64(len(m.words))) * 4); err != nil {
		panic(&AllocationError{Words: newCap, Err: err})
	}
	grown := make([]uint32, newCap)
	copy(grown, m.words[:m.used])
	m.words = grown
}

func (m *Managed) SizeBytes() uint64 {
	return uint64(len(m.words)) * 4
}

func (m *Managed) UsedWords() uint32 {
	return m.used
}

// Close drops the slice and returns its bytes to the memory budget.
func (m *Managed) Close() error {
	m.words = nil
	m.used = 0
	m.budget.releaseAll()
	return nil
}
