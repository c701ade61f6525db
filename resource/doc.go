// Package resource governs memory and worker concurrency shared by many pools.
//
// A Controller combines two limits:
//
//   - Memory: a byte budget that storage growth is charged against
//     (see storage.WithMemoryAcquirer). Acquiring blocks until memory is
//     released or the context ends; TryAcquireMemory fails fast.
//   - Workers: a fixed number of slots for concurrently running explorations.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB shared by all pools
//	    MaxWorkers:       4,
//	})
//
//	st := storage.NewUnmanaged(storage.WithMemoryAcquirer(rc))
//
// All Controller methods are safe for concurrent use. A nil *Controller is
// valid and imposes no limits.
package resource
