package mmap

import (
	"sync/atomic"
	"unsafe"
)

// Mapping is an anonymous read-write memory mapping.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	// unmap is the platform-specific function to release the memory.
	unmap func([]byte) error
}

// MapAnon creates a zero-filled anonymous mapping of size bytes.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		unmap: unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		err := m.unmap(m.data)
		m.data = nil
		return err
	}
	return nil
}

// Bytes returns the mapped memory.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Uint32s returns the mapped memory viewed as 32-bit words.
// Trailing bytes that do not form a whole word are not part of the view.
// Warning: The slice is valid only until Close() is called.
func (m *Mapping) Uint32s() []uint32 {
	data := m.Bytes()
	if len(data) < 4 {
		return nil
	}
	// Mappings are page aligned, so the word view is always aligned.
	return unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/4) //nolint:gosec // unsafe is required for the off-heap word view
}

// Len returns the size of the mapping in bytes.
func (m *Mapping) Len() int {
	if m.closed.Load() {
		return 0
	}
	return len(m.data)
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}
