package snapshotpool

// Stats summarizes the state of a pool.
type Stats struct {
	Mode             string
	BytesPerSnapshot int
	Snapshots        int // stored snapshots, Zero included
	Hits             uint64
	Misses           uint64
	StorageBytes     uint64 // reserved by storage
	StorageUsedBytes uint64 // handed out to records and reserved slots
	InternerBytes    uint64
}

// HitRatio returns the share of interning lookups that found existing content.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// FillRatio returns the share of reserved storage in use.
func (s Stats) FillRatio() float64 {
	if s.StorageBytes == 0 {
		return 0
	}
	return float64(s.StorageUsedBytes) / float64(s.StorageBytes)
}

// Stats returns current statistics of the pool.
func (p *Pool[S]) Stats() Stats {
	return Stats{
		Mode:             p.mode.String(),
		BytesPerSnapshot: p.bytes,
		Snapshots:        p.set.Len(),
		Hits:             p.hits,
		Misses:           p.misses,
		StorageBytes:     p.st.SizeBytes(),
		StorageUsedBytes: uint64(p.st.UsedWords()) * 4,
		InternerBytes:    p.set.TotalBytes(),
	}
}

// Storage returns the backing storage of the pool.
func (p *Pool[S]) Storage() S {
	return p.st
}
