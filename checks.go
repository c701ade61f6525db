//go:build !snapshotpool_nochecks

package snapshotpool

// checksEnabled guards precondition checks. Build with the
// snapshotpool_nochecks tag to compile them out.
const checksEnabled = true
