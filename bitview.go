package snapshotpool

import (
	"fmt"

	"github.com/hupe1980/snapshotpool/bitvec"
	"github.com/hupe1980/snapshotpool/storage"
)

// BitView reads and edits the snapshots of a fixed-size pool as a table of
// Items entries of BitsPerItem bits, packed as described by bitvec.Layout.
//
// Edits that touch one word go through SetWord. Edits that touch several
// words are staged in the scratch snapshot and interned once, so no
// intermediate snapshots are created.
type BitView[S storage.Storage] struct {
	pool   *Pool[S]
	layout bitvec.Layout
}

// NewBitView lays out items of bitsPerItem bits over the snapshots of pool.
// The pool must be fixed-size and wide enough for the layout.
func NewBitView[S storage.Storage](pool *Pool[S], items, bitsPerItem int) (*BitView[S], error) {
	layout, err := bitvec.NewLayout(items, bitsPerItem)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	if pool.IsVariableSize() || pool.BytesPerSnapshot() < layout.Bytes() {
		return nil, fmt.Errorf("%w: %d items of %d bits need %d bytes, pool has %d",
			ErrInvalidShape, items, bitsPerItem, layout.Bytes(), pool.BytesPerSnapshot())
	}
	return &BitView[S]{pool: pool, layout: layout}, nil
}

// NewBitPool creates a managed pool sized for items of bitsPerItem bits and
// returns a view over it.
func NewBitPool(items, bitsPerItem int, opts ...Option) (*BitView[*storage.Managed], error) {
	layout, err := bitvec.NewLayout(items, bitsPerItem)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShape, err)
	}
	pool, err := New(layout.Bytes(), opts...)
	if err != nil {
		return nil, err
	}
	return NewBitView(pool, items, bitsPerItem)
}

// Pool returns the underlying pool.
func (v *BitView[S]) Pool() *Pool[S] {
	return v.pool
}

// Layout returns the bit layout of the view.
func (v *BitView[S]) Layout() bitvec.Layout {
	return v.layout
}

func (v *BitView[S]) checkItem(op string, item int) {
	if item < 0 || item >= v.layout.Items {
		precondition(op, ErrIndexOutOfRange, "item %d of %d", item, v.layout.Items)
	}
}

func (v *BitView[S]) checkBit(op string, item, bit int) {
	v.checkItem(op, item)
	if bit < 0 || bit >= v.layout.BitsPerItem {
		precondition(op, ErrIndexOutOfRange, "bit %d of a %d-bit item", bit, v.layout.BitsPerItem)
	}
}

// Bit reports whether bit of item is set in h.
func (v *BitView[S]) Bit(h Handle, item, bit int) bool {
	if checksEnabled {
		v.checkBit("Bit", item, bit)
	}
	word, mask := v.layout.Locate(item, bit)
	return v.pool.Word(h, word)&mask != 0
}

// SetBit returns h with bit of item set.
func (v *BitView[S]) SetBit(h Handle, item, bit int) Handle {
	if checksEnabled {
		v.checkBit("SetBit", item, bit)
	}
	word, mask := v.layout.Locate(item, bit)
	w := v.pool.Word(h, word)
	if w&mask != 0 {
		return h
	}
	return v.pool.SetWord(h, word, w|mask)
}

// SetSharedBit sets bit of item in the scratch snapshot.
func (v *BitView[S]) SetSharedBit(item, bit int) {
	if checksEnabled {
		v.checkBit("SetSharedBit", item, bit)
	}
	word, mask := v.layout.Locate(item, bit)
	w := v.pool.SharedWord(word)
	if w&mask != 0 {
		return
	}
	v.pool.SetSharedWord(word, w|mask)
}

// Clear returns h with every bit of item cleared.
func (v *BitView[S]) Clear(h Handle, item int) Handle {
	return v.ClearItems(h, item)
}

// ClearItems returns h with every bit of each item cleared. Items without
// set bits are skipped; if none has any, h is returned.
func (v *BitView[S]) ClearItems(h Handle, items ...int) Handle {
	p := v.pool
	staged := false
	for _, item := range items {
		if checksEnabled {
			v.checkItem("ClearItems", item)
		}
		span := v.layout.Span(item)
		if !v.spanHasBits(h, staged, span) {
			continue
		}
		if !staged && span.First == span.Last {
			h = p.SetWord(h, span.First, p.Word(h, span.First)&^span.FirstMask)
			continue
		}
		if !staged {
			p.LoadToShared(h)
			staged = true
		}
		for i := span.First; i <= span.Last; i++ {
			p.SetSharedWord(i, p.SharedWord(i)&^span.Mask(i))
		}
	}
	if staged {
		return p.StoreShared()
	}
	return h
}

func (v *BitView[S]) spanHasBits(h Handle, staged bool, span bitvec.Span) bool {
	for i := span.First; i <= span.Last; i++ {
		var w uint32
		if staged {
			w = v.pool.SharedWord(i)
		} else {
			w = v.pool.Word(h, i)
		}
		if w&span.Mask(i) != 0 {
			return true
		}
	}
	return false
}

// CopyItem returns h with the bits of item to replaced by those of item from.
func (v *BitView[S]) CopyItem(h Handle, from, to int) Handle {
	if checksEnabled {
		v.checkItem("CopyItem", from)
		v.checkItem("CopyItem", to)
	}
	if from == to {
		return h
	}

	p := v.pool
	span := v.layout.Span(to)
	changed, last := 0, 0
	for i := span.First; i <= span.Last; i++ {
		if v.copiedWord(h, from, to, i) != p.Word(h, i) {
			changed++
			last = i
		}
	}
	switch changed {
	case 0:
		return h
	case 1:
		return p.SetWord(h, last, v.copiedWord(h, from, to, last))
	}

	// Items never share bits, so the source stays intact while staging.
	p.LoadToShared(h)
	for i := span.First; i <= span.Last; i++ {
		p.SetSharedWord(i, v.copiedWord(h, from, to, i))
	}
	return p.StoreShared()
}

// copiedWord returns word i of h with the bits of item to that it holds
// replaced by the matching bits of item from.
func (v *BitView[S]) copiedWord(h Handle, from, to, i int) uint32 {
	width := v.layout.BitsPerItem
	start := to * width
	lo := max(start, i*32)
	hi := min(start+width, (i+1)*32)

	w := v.pool.Word(h, i)
	for abs := lo; abs < hi; abs++ {
		mask := uint32(1) << uint(abs%32)
		if v.Bit(h, from, abs-start) {
			w |= mask
		} else {
			w &^= mask
		}
	}
	return w
}

// Item64 returns the bits of item in h. Items must be at most 64 bits wide.
func (v *BitView[S]) Item64(h Handle, item int) bitvec.Vector64 {
	if checksEnabled {
		v.checkItem("Item64", item)
	}
	win := v.window("Item64", item)
	p := v.pool
	var middle uint32
	if win.Count == 3 {
		middle = p.Word(h, win.Middle())
	}
	return bitvec.Vector64(win.Read(p.Word(h, win.Lower), middle, p.Word(h, win.Upper)))
}

// SetItem64 returns h with the bits of item replaced by value. Bits of value
// above the item width are ignored.
func (v *BitView[S]) SetItem64(h Handle, item int, value bitvec.Vector64) Handle {
	if checksEnabled {
		v.checkItem("SetItem64", item)
	}
	win := v.window("SetItem64", item)
	p := v.pool

	oldLower, oldUpper := p.Word(h, win.Lower), p.Word(h, win.Upper)
	var oldMiddle uint32
	if win.Count == 3 {
		oldMiddle = p.Word(h, win.Middle())
	}
	lower, middle, upper := win.Write(uint64(value), oldLower, oldUpper)

	switch {
	case win.Count == 1:
		return p.SetWord(h, win.Lower, lower)
	case lower == oldLower && (win.Count == 2 || middle == oldMiddle):
		return p.SetWord(h, win.Upper, upper)
	case upper == oldUpper && (win.Count == 2 || middle == oldMiddle):
		return p.SetWord(h, win.Lower, lower)
	}

	p.LoadToShared(h)
	p.SetSharedWord(win.Lower, lower)
	if win.Count == 3 {
		p.SetSharedWord(win.Middle(), middle)
	}
	p.SetSharedWord(win.Upper, upper)
	return p.StoreShared()
}

func (v *BitView[S]) window(op string, item int) bitvec.Window {
	win, err := v.layout.Window(item)
	if err != nil {
		precondition(op, ErrInvalidShape, "%v", err)
	}
	return win
}

// SetBitAndClearOthers returns h with bit as the only set bit of item.
func (v *BitView[S]) SetBitAndClearOthers(h Handle, item, bit int) Handle {
	if checksEnabled {
		v.checkBit("SetBitAndClearOthers", item, bit)
	}
	p := v.pool
	word, mask := v.layout.Locate(item, bit)
	span := v.layout.Span(item)
	if v.onlyBitSet(h, span, word, mask) {
		return h
	}
	if span.First == span.Last {
		return p.SetWord(h, word, p.Word(h, word)&^span.FirstMask|mask)
	}

	p.LoadToShared(h)
	for i := span.First; i <= span.Last; i++ {
		w := p.SharedWord(i) &^ span.Mask(i)
		if i == word {
			w |= mask
		}
		p.SetSharedWord(i, w)
	}
	return p.StoreShared()
}

func (v *BitView[S]) onlyBitSet(h Handle, span bitvec.Span, word int, mask uint32) bool {
	for i := span.First; i <= span.Last; i++ {
		w := v.pool.Word(h, i) & span.Mask(i)
		if i == word {
			if w&mask == 0 {
				return false
			}
			w &^= mask
		}
		if w != 0 {
			return false
		}
	}
	return true
}

// Bits returns the set bits of item in h in ascending order.
func (v *BitView[S]) Bits(h Handle, item int) []int {
	result := []int{}
	for bit := range v.layout.BitsPerItem {
		if v.Bit(h, item, bit) {
			result = append(result, bit)
		}
	}
	return result
}
