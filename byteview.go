package snapshotpool

import "github.com/hupe1980/snapshotpool/storage"

// ByteView addresses the snapshots of a pool byte by byte. Bytes are
// little-endian within words: byte i is bits 8*(i%4) to 8*(i%4)+7 of word i/4.
type ByteView[S storage.Storage] struct {
	pool *Pool[S]
}

// NewByteView returns a byte view over pool.
func NewByteView[S storage.Storage](pool *Pool[S]) ByteView[S] {
	return ByteView[S]{pool: pool}
}

func byteShift(index int) uint {
	return uint(index%4) * 8
}

func (v ByteView[S]) checkByte(op string, h Handle, index int) {
	if size := v.pool.Size(h); index < 0 || index >= size {
		precondition(op, ErrIndexOutOfRange, "byte %d of a %d-byte snapshot", index, size)
	}
}

// Byte returns byte index of h.
func (v ByteView[S]) Byte(h Handle, index int) byte {
	if checksEnabled {
		v.checkByte("Byte", h, index)
	}
	return byte(v.pool.Word(h, index/4) >> byteShift(index))
}

// SetByte returns h with byte index replaced by value.
func (v ByteView[S]) SetByte(h Handle, index int, value byte) Handle {
	if checksEnabled {
		v.checkByte("SetByte", h, index)
	}
	shift := byteShift(index)
	w := v.pool.Word(h, index/4)
	return v.pool.SetWord(h, index/4, w&^(0xFF<<shift)|uint32(value)<<shift)
}

// AppendByte returns the variable-size snapshot h extended by value.
func (v ByteView[S]) AppendByte(h Handle, value byte) Handle {
	return v.pool.AppendBytes(h, 1, uint32(value)<<byteShift(v.pool.Size(h)))
}

// DebugBytes returns a copy of the content bytes of h.
func (v ByteView[S]) DebugBytes(h Handle) []byte {
	out := make([]byte, v.pool.Size(h))
	for i := range out {
		out[i] = v.Byte(h, i)
	}
	return out
}
