// Package explore runs breadth-first state-space searches over a snapshot pool.
//
// A Model describes states as snapshots and enumerates the successors of a
// state. The explorer interns every state in its own pool, so duplicate
// states collapse into one handle and the visited set is a set of handles.
//
//	res, err := explore.Run(ctx, explore.Counters{Counters: 3, Max: 10})
//	fmt.Println(res.States) // 1000
//
// RunAll explores several models in parallel, one pool per model.
package explore
