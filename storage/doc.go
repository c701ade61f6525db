// Package storage provides the flat word buffers that back snapshot pools.
//
// A Storage is a growable array of 32-bit words addressed by word offsets.
// Records are carved out of it with a bump-pointer Allocate; when the buffer
// is full its capacity doubles until the request fits, so interning a new
// record costs amortized O(1) storage work.
//
// Two realizations are provided:
//
//   - Managed keeps the words in a Go slice on the garbage-collected heap.
//   - Unmanaged keeps the words in an anonymous memory mapping outside the
//     Go heap. Growth maps a larger region, copies and unmaps the old one.
//
// Both produce bit-identical results for the same sequence of calls and can
// be swapped behind the snapshotpool.Pool type parameter.
//
// Storage is not safe for concurrent use.
package storage
