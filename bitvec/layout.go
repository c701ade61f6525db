package bitvec

import (
	"errors"
	"fmt"
)

const wordBits = 32

var (
	// ErrInvalidLayout is reported for negative item counts or non-positive widths.
	ErrInvalidLayout = errors.New("bitvec: invalid layout")
	// ErrWidthTooLarge is reported when a 64-bit window is requested for items wider than 64 bits.
	ErrWidthTooLarge = errors.New("bitvec: item wider than 64 bits")
)

// Layout places items of BitsPerItem bits each into consecutive 32-bit words.
// Bit (item, bit) is absolute bit item*BitsPerItem+bit, stored in word
// index/32 at offset index%32.
type Layout struct {
	Items       int
	BitsPerItem int
}

// NewLayout validates and returns a layout.
func NewLayout(items, bitsPerItem int) (Layout, error) {
	if items < 0 || bitsPerItem <= 0 {
		return Layout{}, fmt.Errorf("%w: %d items of %d bits", ErrInvalidLayout, items, bitsPerItem)
	}
	return Layout{Items: items, BitsPerItem: bitsPerItem}, nil
}

// Words returns the number of 32-bit words the layout occupies (at least one).
func (l Layout) Words() int {
	return (l.Items*l.BitsPerItem-1)/wordBits + 1
}

// Bytes returns the number of bytes the layout occupies (at least one).
func (l Layout) Bytes() int {
	return (l.Items*l.BitsPerItem-1)/8 + 1
}

// Locate returns the word holding (item, bit) and the bit's mask within it.
func (l Layout) Locate(item, bit int) (word int, mask uint32) {
	index := item*l.BitsPerItem + bit
	return index / wordBits, 1 << uint(index%wordBits)
}

// Span is the inclusive range of words an item occupies, with the masks
// selecting the item's bits in the first and last word.
type Span struct {
	First, Last         int
	FirstMask, LastMask uint32
}

// Mask returns the item's bits within word, which must lie in [First, Last].
func (s Span) Mask(word int) uint32 {
	switch word {
	case s.First:
		return s.FirstMask
	case s.Last:
		return s.LastMask
	default:
		return ^uint32(0)
	}
}

// Span returns the words occupied by item.
func (l Layout) Span(item int) Span {
	start := item * l.BitsPerItem
	end := start + l.BitsPerItem
	s := Span{First: start / wordBits, Last: (end - 1) / wordBits}

	lo := uint(start % wordBits)
	if s.First == s.Last {
		s.FirstMask = ^uint32(0) >> uint(wordBits-l.BitsPerItem) << lo
		s.LastMask = s.FirstMask
		return s
	}

	hi := uint(end - s.Last*wordBits) // 1..32
	s.FirstMask = ^uint32(0) << lo
	s.LastMask = ^uint32(0) >> (wordBits - hi)
	return s
}

// Window describes how an item of at most 64 bits is spread over one, two
// or three consecutive words.
type Window struct {
	Lower, Upper int // first and last word; a middle word sits at Lower+1 when Count is 3
	Count        int // number of words touched

	width     uint
	shift     uint   // offset of the item in the lower word
	delta     uint   // number of item bits held by the lower word
	upperMask uint32 // item bits within the upper word
}

// Window returns the 64-bit window of item.
func (l Layout) Window(item int) (Window, error) {
	if l.BitsPerItem > 64 {
		return Window{}, ErrWidthTooLarge
	}
	start := item * l.BitsPerItem
	end := start + l.BitsPerItem
	w := Window{
		Lower: start / wordBits,
		Upper: (end - 1) / wordBits,
		width: uint(l.BitsPerItem),
		shift: uint(start % wordBits),
	}
	w.Count = w.Upper - w.Lower + 1
	w.delta = wordBits - w.shift
	if w.Count == 1 {
		w.upperMask = ^uint32(0) >> (wordBits - w.width) << w.shift
	} else {
		w.upperMask = ^uint32(0) >> (wordBits - uint(end-w.Upper*wordBits))
	}
	return w, nil
}

// Middle returns the index of the middle word. Only meaningful when Count is 3.
func (w Window) Middle() int {
	return w.Lower + 1
}

// Read assembles the item from the words it touches. middle and upper are
// ignored when the window does not reach them.
func (w Window) Read(lower, middle, upper uint32) uint64 {
	switch w.Count {
	case 1:
		return uint64((lower & w.upperMask) >> w.shift)
	case 2:
		return uint64(lower>>w.shift) | uint64(upper&w.upperMask)<<w.delta
	default:
		return uint64(lower>>w.shift) | uint64(middle)<<w.delta | uint64(upper&w.upperMask)<<(w.delta+wordBits)
	}
}

// Write stores v into the item and returns the updated words. Bits of v
// above the item width are dropped; bits of other items are preserved.
func (w Window) Write(v uint64, lower, upper uint32) (newLower, newMiddle, newUpper uint32) {
	if w.width < 64 {
		v &= 1<<w.width - 1
	}
	switch w.Count {
	case 1:
		newLower = lower&^w.upperMask | uint32(v)<<w.shift
		return newLower, 0, newLower
	case 2:
		newLower = lower&^(^uint32(0)<<w.shift) | uint32(v)<<w.shift
		newUpper = upper&^w.upperMask | uint32(v>>w.delta)
		return newLower, 0, newUpper
	default:
		newLower = lower&^(^uint32(0)<<w.shift) | uint32(v)<<w.shift
		newMiddle = uint32(v >> w.delta)
		newUpper = upper&^w.upperMask | uint32(v>>(w.delta+wordBits))
		return newLower, newMiddle, newUpper
	}
}
