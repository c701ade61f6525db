package bitvec

import "math/bits"

// Vector64 is an immutable set of 64 bit flags.
type Vector64 uint64

// Bit reports whether bit index is set.
func (v Vector64) Bit(index int) bool {
	return v&(1<<uint(index)) != 0
}

// Set returns v with bit index set.
func (v Vector64) Set(index int) Vector64 {
	return v | 1<<uint(index)
}

// SetAndClearOthers returns a vector with only bit index set.
func (v Vector64) SetAndClearOthers(index int) Vector64 {
	return 1 << uint(index)
}

// Bits returns the indexes of the set bits in ascending order.
func (v Vector64) Bits() []int {
	if v == 0 {
		return []int{}
	}
	result := make([]int, 0, v.Count())
	for rest := uint64(v); rest != 0; rest &= rest - 1 {
		result = append(result, bits.TrailingZeros64(rest))
	}
	return result
}

// Count returns the number of set bits.
func (v Vector64) Count() int {
	return bits.OnesCount64(uint64(v))
}

// Uint64 returns the raw bits.
func (v Vector64) Uint64() uint64 {
	return uint64(v)
}
