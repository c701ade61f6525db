// Package hashset implements a hash set of record handles whose keys live
// outside the set.
//
// The set stores only 64-bit handles. Hashing and equality are supplied per
// call by an ExternalKey, which typically compares the handle's record in a
// word storage against a pending mutation that has not been materialized.
// A lookup therefore never allocates a key.
//
// Collisions are resolved by separate chaining through a parallel next
// array; bucket counts follow a prime sequence (GetPrime / ExpandPrime).
// Entries are never removed individually.
package hashset
