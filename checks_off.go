//go:build snapshotpool_nochecks

package snapshotpool

const checksEnabled = false
