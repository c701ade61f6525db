package snapshotpool

import "fmt"

// Handle identifies an interned snapshot. Two handles from the same pool are
// equal exactly when the snapshots they name have equal content.
//
// In fixed-size pools a handle is the word offset of the record, or the
// content itself when a snapshot fits in four bytes. In variable-size pools
// the upper 32 bits hold the size in bytes and the lower 32 bits hold either
// the word offset (size >= 4) or the content itself (size <= 3).
type Handle uint64

// Zero is the all-zero snapshot of a fixed-size pool and the empty snapshot
// of a variable-size pool.
const Zero Handle = 0

const (
	// maxInlineBytes is the largest variable-size snapshot kept inside its handle.
	maxInlineBytes = 3
	// sharedSizeTag marks the scratch handle of a variable-size pool.
	sharedSizeTag = 0xFFFFFFFF
)

func variableHandle(size, low uint32) Handle {
	return Handle(uint64(size)<<32 | uint64(low))
}

func (h Handle) size() uint32 {
	return uint32(h >> 32)
}

func (h Handle) low() uint32 {
	return uint32(h)
}

// String formats the raw handle value.
func (h Handle) String() string {
	return fmt.Sprintf("Handle(%#x)", uint64(h))
}

// capacityBytes is the number of bytes a variable-size snapshot of size bytes
// can grow to without a new record: 3 while inline, whole words afterwards.
func capacityBytes(size uint32) uint32 {
	if size <= maxInlineBytes {
		return maxInlineBytes
	}
	return wordsFor(size) * 4
}

// wordsFor returns the number of words needed to hold size bytes.
func wordsFor(size uint32) uint32 {
	return (size + 3) / 4
}

// trimMask keeps the bytes of the word at index that lie below size.
func trimMask(size, index uint32) uint32 {
	rest := size - index*4
	if rest >= 4 {
		return ^uint32(0)
	}
	return 1<<(rest*8) - 1
}
