//go:build !snapshotpool_nochecks

package snapshotpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePrecondition(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(*PreconditionError)
		require.True(t, ok, "unexpected panic value %v", r)
		assert.ErrorIs(t, err, want)
	}()
	fn()
}

func TestPreconditions(t *testing.T) {
	fixed := newTestPool(t, 10)
	variable := newTestPool(t, VariableSize)

	t.Run("word index", func(t *testing.T) {
		requirePrecondition(t, ErrIndexOutOfRange, func() { fixed.Word(Zero, 3) })
		requirePrecondition(t, ErrIndexOutOfRange, func() { fixed.SetWord(Zero, -1, 1) })
		requirePrecondition(t, ErrIndexOutOfRange, func() { variable.Word(Zero, 0) })

		h := variable.AppendBytes(Zero, 5, 0)
		assert.Equal(t, uint32(0), variable.Word(h, 1))
		requirePrecondition(t, ErrIndexOutOfRange, func() { variable.Word(h, 2) })
	})

	t.Run("append on fixed pool", func(t *testing.T) {
		requirePrecondition(t, ErrNotVariableSize, func() { fixed.AppendBytes(Zero, 1, 0) })
		requirePrecondition(t, ErrNotVariableSize, func() { fixed.ResizeShared(4) })
	})

	t.Run("append too large", func(t *testing.T) {
		requirePrecondition(t, ErrSnapshotTooLarge, func() { variable.AppendBytes(Zero, MaxSnapshotWords*4+1, 0) })
		requirePrecondition(t, ErrIndexOutOfRange, func() { variable.AppendBytes(Zero, -1, 0) })
	})

	t.Run("scratch not loaded", func(t *testing.T) {
		p := newTestPool(t, 16)
		requirePrecondition(t, ErrSharedNotLoaded, func() { p.SharedWord(0) })
		requirePrecondition(t, ErrSharedNotLoaded, func() { p.SetSharedWord(0, 1) })
		requirePrecondition(t, ErrSharedNotLoaded, func() { p.StoreShared() })
	})

	t.Run("resize scratch", func(t *testing.T) {
		variable.LoadToShared(variable.AppendBytes(Zero, 8, 0))
		requirePrecondition(t, ErrSharedShrink, func() { variable.ResizeShared(4) })
		requirePrecondition(t, ErrSharedTooSmall, func() { variable.ResizeShared(MaxSnapshotWords*4 + 1) })
		variable.ResizeShared(MaxSnapshotWords * 4)
	})

	t.Run("views", func(t *testing.T) {
		bits, err := NewBitPool(4, 3)
		require.NoError(t, err)
		requirePrecondition(t, ErrIndexOutOfRange, func() { bits.Bit(Zero, 4, 0) })
		requirePrecondition(t, ErrIndexOutOfRange, func() { bits.SetBit(Zero, 0, 3) })

		wide, err := NewBitPool(2, 65)
		require.NoError(t, err)
		requirePrecondition(t, ErrInvalidShape, func() { wide.Item64(Zero, 0) })

		bytes := NewByteView(variable)
		requirePrecondition(t, ErrIndexOutOfRange, func() { bytes.Byte(variable.AppendBytes(Zero, 2, 0), 2) })
	})
}
