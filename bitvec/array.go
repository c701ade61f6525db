package bitvec

import "slices"

// Array is a copy-on-write table of items, each bitsPerItem bits wide.
//
// Arrays are values: methods never modify the receiver. Item and bit
// indexes are not validated beyond the bounds of the backing words.
type Array struct {
	layout Layout
	words  []uint32
}

// NewArray returns an all-zero array of items × bitsPerItem bits.
// It panics if the layout is invalid.
func NewArray(items, bitsPerItem int) Array {
	l, err := NewLayout(items, bitsPerItem)
	if err != nil {
		panic(err)
	}
	return Array{layout: l, words: make([]uint32, l.Words())}
}

// Layout returns the shape of the array.
func (a Array) Layout() Layout {
	return a.layout
}

// Words returns a copy of the backing words.
func (a Array) Words() []uint32 {
	return slices.Clone(a.words)
}

func (a Array) clone() Array {
	return Array{layout: a.layout, words: slices.Clone(a.words)}
}

// Bit reports whether bit of item is set.
func (a Array) Bit(item, bit int) bool {
	word, mask := a.layout.Locate(item, bit)
	return a.words[word]&mask != 0
}

// SetBit sets bit of item. If it is already set, a itself is returned unchanged.
func (a Array) SetBit(item, bit int) (Array, bool) {
	word, mask := a.layout.Locate(item, bit)
	if a.words[word]&mask != 0 {
		return a, false
	}
	result := a.clone()
	result.words[word] |= mask
	return result, true
}

// Clear clears every bit of item. Clearing an item without set bits
// returns a itself and allocates nothing.
func (a Array) Clear(item int) (Array, bool) {
	return a.ClearItems(item)
}

// ClearItems clears every bit of each item, copying the array at most once.
func (a Array) ClearItems(items ...int) (Array, bool) {
	result, changed := a, false
	for _, item := range items {
		span := a.layout.Span(item)
		if !spanHasBits(result.words, span) {
			continue
		}
		if !changed {
			result = a.clone()
			changed = true
		}
		clearSpan(result.words, span)
	}
	return result, changed
}

// SetBitAndClearOthers leaves bit as the only set bit of item.
// If that already holds, a itself is returned unchanged.
func (a Array) SetBitAndClearOthers(item, bit int) (Array, bool) {
	return a.SetBitAndClearOthersItems(bit, item)
}

// SetBitAndClearOthersItems leaves bit as the only set bit of each item,
// copying the array at most once.
func (a Array) SetBitAndClearOthersItems(bit int, items ...int) (Array, bool) {
	result, changed := a, false
	for _, item := range items {
		if onlyBitSet(result.words, a.layout, item, bit) {
			continue
		}
		if !changed {
			result = a.clone()
			changed = true
		}
		clearSpan(result.words, a.layout.Span(item))
		word, mask := a.layout.Locate(item, bit)
		result.words[word] |= mask
	}
	return result, changed
}

// Copy overwrites the bits of item to with the bits of item from.
// The array is copied only if at least one bit differs.
func (a Array) Copy(from, to int) (Array, bool) {
	result, changed := a, false
	for bit := range a.layout.BitsPerItem {
		fromWord, fromMask := a.layout.Locate(from, bit)
		toWord, toMask := a.layout.Locate(to, bit)

		fromSet := a.words[fromWord]&fromMask != 0
		toSet := a.words[toWord]&toMask != 0
		if fromSet == toSet {
			continue
		}
		if !changed {
			result = a.clone()
			changed = true
		}
		if fromSet {
			result.words[toWord] |= toMask
		} else {
			result.words[toWord] &^= toMask
		}
	}
	return result, changed
}

// Item64 returns the bits of item as a Vector64.
// It panics if items are wider than 64 bits.
func (a Array) Item64(item int) Vector64 {
	w, err := a.layout.Window(item)
	if err != nil {
		panic(err)
	}
	var middle uint32
	if w.Count == 3 {
		middle = a.words[w.Middle()]
	}
	return Vector64(w.Read(a.words[w.Lower], middle, a.words[w.Upper]))
}

// SetItem64 replaces the bits of item with v. Writing the current value
// returns a itself unchanged.
func (a Array) SetItem64(item int, v Vector64) (Array, bool) {
	if a.Item64(item) == v&widthMask(a.layout.BitsPerItem) {
		return a, false
	}
	w, _ := a.layout.Window(item)
	lower, middle, upper := w.Write(uint64(v), a.words[w.Lower], a.words[w.Upper])

	result := a.clone()
	result.words[w.Lower] = lower
	result.words[w.Upper] = upper
	if w.Count == 3 {
		result.words[w.Middle()] = middle
	}
	return result, true
}

// Bits returns the set bits of item in ascending order.
func (a Array) Bits(item int) []int {
	result := []int{}
	for bit := range a.layout.BitsPerItem {
		if a.Bit(item, bit) {
			result = append(result, bit)
		}
	}
	return result
}

// Equal reports whether a and b hold the same bits.
func (a Array) Equal(b Array) bool {
	return a.Same(b) || slices.Equal(a.words, b.words)
}

// Same reports whether a and b share the same backing words.
func (a Array) Same(b Array) bool {
	return len(a.words) > 0 && len(b.words) > 0 && &a.words[0] == &b.words[0]
}

// Hash returns a content hash of the array.
func (a Array) Hash() uint32 {
	var code uint32
	for _, w := range a.words {
		code = code*397 ^ w
	}
	return code
}

func widthMask(bitsPerItem int) Vector64 {
	if bitsPerItem >= 64 {
		return ^Vector64(0)
	}
	return 1<<uint(bitsPerItem) - 1
}

func spanHasBits(words []uint32, s Span) bool {
	for i := s.First; i <= s.Last; i++ {
		if words[i]&s.Mask(i) != 0 {
			return true
		}
	}
	return false
}

func clearSpan(words []uint32, s Span) {
	for i := s.First; i <= s.Last; i++ {
		words[i] &^= s.Mask(i)
	}
}

// onlyBitSet reports whether bit is the single set bit of item.
func onlyBitSet(words []uint32, l Layout, item, bit int) bool {
	word, mask := l.Locate(item, bit)
	if words[word]&mask == 0 {
		return false
	}
	s := l.Span(item)
	for i := s.First; i <= s.Last; i++ {
		m := s.Mask(i)
		if i == word {
			m &^= mask
		}
		if words[i]&m != 0 {
			return false
		}
	}
	return true
}
