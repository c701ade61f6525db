package snapshotpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariable(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		p := newTestPool(t, VariableSize)
		assert.True(t, p.IsVariableSize())
		assert.Equal(t, 0, p.Size(Zero))
		assert.Empty(t, p.DebugWords(Zero))

		one := p.AppendBytes(Zero, 1, 0)
		assert.NotEqual(t, Zero, one)
		assert.Equal(t, 1, p.Size(one))
		assert.Equal(t, []uint32{0}, p.DebugWords(one))
		assert.Equal(t, one, p.AppendBytes(Zero, 1, 0))

		two := p.AppendBytes(Zero, 2, 0)
		assert.Equal(t, 2, p.Size(two))
		assert.NotEqual(t, one, two)
		assert.Equal(t, two, p.AppendBytes(one, 1, 0))

		three := p.AppendBytes(Zero, 3, 0)
		assert.Equal(t, 3, p.Size(three))
		assert.Equal(t, three, p.AppendBytes(two, 1, 0))

		modified := p.SetWord(three, 0, 0xABCDEF12)
		assert.NotEqual(t, three, modified)
		assert.Equal(t, uint32(0xCDEF12), p.Word(modified, 0))
		assert.Equal(t, []uint32{0xCDEF12}, p.DebugWords(modified))

		four := p.AppendBytes(modified, 1, 0)
		assert.Equal(t, 4, p.Size(four))
		assert.Equal(t, []uint32{0xCDEF12}, p.DebugWords(four))

		assert.Equal(t, four, p.AppendBytes(Zero, 4, 0xCDEF12))
		assert.Equal(t, four, p.AppendBytes(p.AppendBytes(Zero, 2, 0xEF12), 2, 0x00CD0000))
	})

	t.Run("AppendWithMask", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		a := p.AppendBytes(p.AppendBytes(Zero, 2, 0x00A0CDEF), 1, 0x000B0000)
		b := p.AppendBytes(Zero, 3, 0x00ABCDEF)
		assert.Equal(t, a, b)
		assert.Equal(t, uint32(0x00ABCDEF), p.Word(b, 0))
	})

	t.Run("GrowWithinCapacity", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		five := p.AppendBytes(Zero, 5, 0x44332211)
		before := p.Stats().StorageUsedBytes

		seven := p.AppendBytes(five, 2, 0)
		assert.Equal(t, 7, p.Size(seven))
		assert.NotEqual(t, five, seven)
		assert.Equal(t, p.DebugWords(five), p.DebugWords(seven))
		assert.Equal(t, before, p.Stats().StorageUsedBytes)

		eight := p.AppendBytes(seven, 1, 0x77000000)
		assert.Equal(t, []uint32{0x44332211, 0x77000000}, p.DebugWords(eight))
		assert.Equal(t, eight, p.SetWord(p.AppendBytes(Zero, 8, 0x44332211), 1, 0x77000000))
	})

	t.Run("GrowPastCapacity", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		h := Zero
		for i := range 40 {
			h = p.AppendBytes(h, 1, uint32(i+1)<<(8*(i%4)))
		}
		assert.Equal(t, 40, p.Size(h))
		words := p.DebugWords(h)
		assert.Len(t, words, 10)
		assert.Equal(t, uint32(0x04030201), words[0])
		assert.Equal(t, uint32(0x28272625), words[9])

		p.LoadToShared(Zero)
		p.ResizeShared(40)
		for i, w := range words {
			p.SetSharedWord(i, w)
		}
		assert.Equal(t, h, p.StoreShared())
	})

	t.Run("SizesAreDistinct", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		four := p.AppendBytes(Zero, 4, 0)
		eight := p.AppendBytes(Zero, 8, 0)
		assert.NotEqual(t, four, eight)
		assert.Equal(t, eight, p.AppendBytes(four, 4, 0))
		assert.Equal(t, []uint32{0, 0}, p.DebugWords(eight))
	})

	t.Run("AppendNothing", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		h := p.AppendBytes(Zero, 6, 9)
		assert.Equal(t, h, p.AppendBytes(h, 0, 0))
	})

	t.Run("SetWordOnRecord", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		h := p.AppendBytes(Zero, 6, 0)
		edited := p.SetWord(h, 1, 0xFFFFFFFF)
		assert.Equal(t, uint32(0xFFFF), p.Word(edited, 1))
		assert.Equal(t, h, p.SetWord(edited, 1, 0))
	})

	t.Run("SetWordKeepsMaskedBits", func(t *testing.T) {
		p := newTestPool(t, VariableSize)

		inline := p.AppendBytes(Zero, 2, 0x00A0CDEF)
		assert.Equal(t, uint32(0x00A0CDEF), p.Word(inline, 0))
		assert.Equal(t, inline, p.SetWord(inline, 0, p.Word(inline, 0)))

		four := p.AppendBytes(Zero, 4, 0x11223344)
		five := p.AppendBytes(four, 1, 0xFFFF0000)
		assert.Equal(t, uint32(0xFFFF0000), p.Word(five, 1))

		before := p.MemoryTotalBytes()
		assert.Equal(t, five, p.SetWord(five, 1, p.Word(five, 1)))
		assert.Equal(t, five, p.SetWord(five, 0, p.Word(five, 0)))
		assert.Equal(t, before, p.MemoryTotalBytes())
	})
}
