// Package testutil provides testing utilities for snapshot pools.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Edit Scripts
//
//	rng := testutil.NewRNG(seed)
//	edits := rng.Edits(10000, 10, 4, 1.2) // 10 words, values 0..3
//
// # Interning Oracle
//
//	oracle := testutil.NewOracle()
//	err := oracle.Observe(uint64(h), pool.DebugWords(h))
package testutil
