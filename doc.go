// Package snapshotpool provides a content-addressed, structurally shared store
// for small fixed- or variable-width records ("snapshots").
//
// A snapshot is a flat sequence of 32-bit words named by a Handle. Snapshots
// are immutable and interned: equal content always yields the same handle,
// so comparing two snapshots is comparing two integers. Editing a word of a
// snapshot returns the handle of the edited content, which is deduplicated
// against everything the pool has seen before.
//
// The typical user is a state-space explorer that stores millions of
// slightly different states and revisits most of them.
//
// # Quick Start
//
//	pool, _ := snapshotpool.New(40) // 40 bytes = 10 words per snapshot
//	defer pool.Close()
//
//	a := pool.SetWord(snapshotpool.Zero, 5, 42)
//	b := pool.SetWord(snapshotpool.Zero, 5, 42)
//	// a == b, and only one record was stored.
//
//	c := pool.SetWord(a, 5, 0)
//	// c == snapshotpool.Zero
//
// # Batched Edits
//
// Each SetWord costs one interner probe. To change several words at once
// without producing intermediate snapshots, stage them in the pool's
// scratch snapshot:
//
//	pool.LoadToShared(h)
//	pool.SetSharedWord(0, x)
//	pool.SetSharedWord(1, y)
//	h = pool.StoreShared()
//
// # Variable-Size Snapshots
//
// A pool created with VariableSize stores snapshots that carry their own
// length. AppendBytes grows a snapshot; snapshots of up to three bytes live
// entirely inside the handle.
//
//	pool, _ := snapshotpool.New(snapshotpool.VariableSize)
//	bytes := snapshotpool.NewByteView(pool)
//	h := bytes.AppendByte(snapshotpool.Zero, 'a')
//
// # Views
//
// BitView treats snapshots as packed bit tables (items x bits per item) and
// ByteView as byte strings. Both are thin layers over Word and SetWord.
//
// # Storage
//
// Pools are generic over storage.Storage. New uses storage.Managed (a Go
// slice); NewWithStorage accepts storage.Unmanaged, which keeps records in
// an anonymous memory mapping outside the Go heap. Both produce identical
// handles for identical operation sequences.
//
// # Concurrency
//
// A pool is single-threaded. Run one pool per goroutine; the explore
// package does so to search several models in parallel.
//
// # Preconditions
//
// Misuse such as an out-of-range index panics with *PreconditionError.
// Building with the snapshotpool_nochecks tag removes these checks.
package snapshotpool
