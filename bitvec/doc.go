// Package bitvec provides bit-packed value types.
//
// Vector64 is a 64-bit set of flags. Array is a fixed table of items, each
// holding bitsPerItem bits, packed into 32-bit words. Array is copy-on-write:
// every mutating method returns the resulting Array together with a changed
// flag, and leaves the receiver untouched. When nothing changes the very same
// Array (sharing the same backing words) is returned and nothing is allocated.
//
// Layout exposes the word arithmetic behind Array so that other word stores,
// such as snapshot pool records, can address packed items the same way.
package bitvec
