// Package mmap provides anonymous, read-write memory mappings that live
// outside the Go heap.
//
// # Overview
//
// Large snapshot pools keep hundreds of megabytes of 32-bit words alive for
// the whole lifetime of a search. Holding them in a Go slice means the garbage
// collector has to account for them on every cycle; holding them in an
// anonymous mapping does not.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	words := m.Uint32s()
//	words[0] = 42
//
// Freshly mapped memory is always zero-filled by the kernel.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advice is a no-op)
//   - Other platforms: MapAnon returns ErrUnsupported
//
// # Thread Safety
//
// Close is idempotent and guarded by an atomic flag. Callers must not touch
// slices obtained from Bytes or Uint32s after Close returns.
package mmap
