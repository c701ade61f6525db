package snapshotpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/snapshotpool/bitvec"
	"github.com/hupe1980/snapshotpool/storage"
)

const (
	testItems       = 40
	testBitsPerItem = 38
)

type bitPos struct{ item, bit int }

func newTestBitPool(t *testing.T, items, bitsPerItem int) *BitView[*storage.Managed] {
	t.Helper()
	v, err := NewBitPool(items, bitsPerItem)
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Pool().Close() })
	return v
}

func givenBits(t *testing.T, v *BitView[*storage.Managed], set ...bitPos) Handle {
	t.Helper()
	p := v.Pool()
	p.LoadToShared(Zero)
	for _, pos := range set {
		v.SetSharedBit(pos.item, pos.bit)
		require.True(t, v.Bit(p.Shared(), pos.item, pos.bit))
	}
	return p.StoreShared()
}

func assertBits(t *testing.T, v *BitView[*storage.Managed], h Handle, set ...bitPos) {
	t.Helper()
	want := map[bitPos]bool{}
	for _, pos := range set {
		want[pos] = true
	}
	l := v.Layout()
	for item := range l.Items {
		for bit := range l.BitsPerItem {
			pos := bitPos{item, bit}
			if v.Bit(h, item, bit) != want[pos] {
				t.Fatalf("bit (%d, %d): got %v, want %v", item, bit, !want[pos], want[pos])
			}
		}
	}
}

func TestBitView_SetBit(t *testing.T) {
	t.Run("first bit", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)

		h := v.SetBit(Zero, 0, 0)
		assert.NotEqual(t, Zero, h)
		assertBits(t, v, Zero)
		assertBits(t, v, h, bitPos{0, 0})
	})

	t.Run("twice", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)

		a := v.SetBit(Zero, 0, 0)
		b := v.SetBit(Zero, 0, 0)
		assert.Equal(t, a, b)
		assert.Equal(t, a, v.SetBit(a, 0, 0))
		assertBits(t, v, a, bitPos{0, 0})
	})

	t.Run("middle bit", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)

		h := v.SetBit(Zero, 3, 3)
		assert.NotEqual(t, Zero, h)
		assertBits(t, v, h, bitPos{3, 3})
	})

	t.Run("order independent", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)

		a := v.SetBit(v.SetBit(Zero, 7, 37), 39, 0)
		b := v.SetBit(v.SetBit(Zero, 39, 0), 7, 37)
		assert.Equal(t, a, b)
		assert.Equal(t, a, givenBits(t, v, bitPos{39, 0}, bitPos{7, 37}))
	})
}

func TestBitView_SetBitAndClearOthers(t *testing.T) {
	v := newTestBitPool(t, testItems, testBitsPerItem)

	t.Run("one item", func(t *testing.T) {
		h := givenBits(t, v, bitPos{0, 0}, bitPos{1, 4})
		result := v.SetBitAndClearOthers(h, 0, 5)
		assertBits(t, v, h, bitPos{0, 0}, bitPos{1, 4})
		assertBits(t, v, result, bitPos{0, 5}, bitPos{1, 4})
	})

	t.Run("straddling item", func(t *testing.T) {
		h := givenBits(t, v, bitPos{5, 10})
		result := v.SetBitAndClearOthers(h, 5, 37)
		assertBits(t, v, result, bitPos{5, 37})

		back := v.SetBitAndClearOthers(result, 5, 10)
		assert.Equal(t, h, back)
	})

	t.Run("already only bit", func(t *testing.T) {
		h := givenBits(t, v, bitPos{5, 37}, bitPos{6, 0})
		assert.Equal(t, h, v.SetBitAndClearOthers(h, 5, 37))
	})

	t.Run("several items", func(t *testing.T) {
		h := givenBits(t, v, bitPos{0, 3}, bitPos{1, 3}, bitPos{2, 3})
		result := h
		for _, item := range []int{0, 5} {
			result = v.SetBitAndClearOthers(result, item, 7)
		}
		assertBits(t, v, result, bitPos{0, 7}, bitPos{1, 3}, bitPos{2, 3}, bitPos{5, 7})
	})
}

func TestBitView_Clear(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		v := newTestBitPool(t, 16, 2)

		h := v.SetBit(Zero, 3, 1)
		assert.False(t, v.Bit(h, 2, 0))
		assert.False(t, v.Bit(h, 2, 1))
		assert.False(t, v.Bit(h, 3, 0))
		assert.True(t, v.Bit(h, 3, 1))
		assert.False(t, v.Bit(h, 4, 0))
		assert.False(t, v.Bit(h, 4, 1))

		for _, item := range []int{0, 1, 2, 4} {
			assert.Equal(t, h, v.Clear(h, item))
		}
		cleared := v.Clear(h, 3)
		assert.NotEqual(t, h, cleared)
		assertBits(t, v, cleared)
		assert.Equal(t, Zero, cleared)
	})

	set := []bitPos{{0, testBitsPerItem - 1}, {1, 0}, {1, 1}, {1, 7}, {2, 0}, {7, 7}}

	t.Run("one item", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		h := givenBits(t, v, set...)

		cleared := v.Clear(h, 1)
		assert.NotEqual(t, h, cleared)
		assertBits(t, v, h, set...)
		assertBits(t, v, cleared, bitPos{0, testBitsPerItem - 1}, bitPos{2, 0}, bitPos{7, 7})
	})

	t.Run("several items", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		set := []bitPos{{0, testBitsPerItem - 1}, {1, 0}, {2, 1}, {3, 0}, {4, 3}, {7, 7}}
		h := givenBits(t, v, set...)

		cleared := v.ClearItems(h, 1, 2, 4, 10)
		assert.NotEqual(t, h, cleared)
		assertBits(t, v, h, set...)
		assertBits(t, v, cleared, bitPos{0, testBitsPerItem - 1}, bitPos{3, 0}, bitPos{7, 7})
	})

	t.Run("unset items", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		h := givenBits(t, v, set...)
		before := v.Pool().Stats()

		assert.Equal(t, h, v.ClearItems(h, 10, 20))
		assertBits(t, v, h, set...)
		assert.Equal(t, before.Snapshots, v.Pool().Stats().Snapshots)
	})

	t.Run("matches bitvec", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		a := bitvec.NewArray(testItems, testBitsPerItem)
		h := Zero
		for item := range testItems {
			for bit := 0; bit < testBitsPerItem; bit += 1 + item%5 {
				a, _ = a.SetBit(item, bit)
				h = v.SetBit(h, item, bit)
			}
		}
		a, _ = a.ClearItems(3, 17, 39)
		h = v.ClearItems(h, 3, 17, 39)
		for item := range testItems {
			assert.Equal(t, a.Bits(item), v.Bits(h, item), "item %d", item)
		}
	})
}

func TestBitView_CopyItem(t *testing.T) {
	full := func() []bitPos {
		var set []bitPos
		for bit := range testBitsPerItem {
			set = append(set, bitPos{3, bit}, bitPos{25, bit})
		}
		return set
	}

	t.Run("equal items", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		h := givenBits(t, v, full()...)
		assert.Equal(t, h, v.CopyItem(h, 3, 25))
	})

	t.Run("differing items", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		set := full()
		set[len(set)-1] = bitPos{26, 0}
		h := givenBits(t, v, set...)

		result := v.CopyItem(h, 3, 25)
		assert.NotEqual(t, h, result)
		assertBits(t, v, h, set...)
		assertBits(t, v, result, append(full(), bitPos{26, 0})...)
	})

	t.Run("clears bits", func(t *testing.T) {
		v := newTestBitPool(t, testItems, testBitsPerItem)
		h := givenBits(t, v, bitPos{1, 0}, bitPos{1, 37}, bitPos{2, 5})

		result := v.CopyItem(h, 0, 1)
		assertBits(t, v, result, bitPos{2, 5})
		assert.Equal(t, v.Clear(h, 1), result)
	})
}

func TestBitView_Item64(t *testing.T) {
	const pattern = bitvec.Vector64(0xDEADBEEFCAFEBABE)

	for width := 1; width <= 64; width++ {
		v := newTestBitPool(t, 20, width)
		mask := ^bitvec.Vector64(0)
		if width < 64 {
			mask = 1<<uint(width) - 1
		}

		h := Zero
		for item := range 20 {
			h = v.SetItem64(h, item, pattern+bitvec.Vector64(item))
		}
		for item := range 20 {
			require.Equal(t, (pattern+bitvec.Vector64(item))&mask, v.Item64(h, item), "width %d item %d", width, item)
		}

		cleared := v.SetItem64(h, 7, 0)
		assert.Equal(t, bitvec.Vector64(0), v.Item64(cleared, 7))
		assert.Equal(t, v.Item64(h, 6), v.Item64(cleared, 6))
		assert.Equal(t, v.Item64(h, 8), v.Item64(cleared, 8))
		assert.Equal(t, h, v.SetItem64(cleared, 7, pattern+7), "width %d", width)
		assert.Equal(t, h, v.SetItem64(h, 7, pattern+7))
	}
}

func TestBitView_Shape(t *testing.T) {
	_, err := NewBitPool(0, 0)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewBitPool(100, 30)
	assert.ErrorIs(t, err, ErrSnapshotTooLarge)

	p := newTestPool(t, 4)
	_, err = NewBitView(p, 4, 9)
	assert.ErrorIs(t, err, ErrInvalidShape)

	v, err := NewBitView(p, 4, 8)
	require.NoError(t, err)
	h := v.SetItem64(Zero, 2, 0xAB)
	assert.Equal(t, Handle(0xAB0000), h)

	vp := newTestPool(t, VariableSize)
	_, err = NewBitView(vp, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidShape)
}
