// Package conv provides checked integer conversions for sizes that reach the
// 32-bit word offsets of pool storage.
//
// Conversions that are provably safe by domain constraints (word indices
// below MaxSnapshotWords, bounded counters) use direct type casts instead.
package conv
