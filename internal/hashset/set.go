package hashset

// ExternalKey supplies the hash and equality of a record that may or may not
// be present in a Set. Implementations are usually small structs describing a
// pending edit of an existing record.
type ExternalKey interface {
	// Hash returns the content hash of the record.
	Hash() uint32
	// Equal reports whether the stored record behind handle has the key's content.
	Equal(handle uint64) bool
}

// BytesPerRecord is the memory the set spends per stored handle
// (one entry plus one bucket slot at full load).
const BytesPerRecord = entryBytes + 4

const entryBytes = 16

type entry struct {
	hash   int32  // lower 31 bits of the key hash
	next   int32  // index+1 of the next entry in the chain, 0 ends it
	handle uint64 // stored record handle
}

// Set is a hash set of handles keyed by ExternalKey values.
// The zero value is an empty set ready to use.
type Set struct {
	buckets []int32 // index+1 of the chain head, 0 marks an empty bucket
	entries []entry
	count   int
}

// New returns a set able to hold capacity handles before it grows.
// A capacity of 0 defers allocation to the first Add.
func New(capacity int) *Set {
	s := &Set{}
	if capacity > 0 {
		s.initialize(capacity)
	}
	return s
}

func (s *Set) initialize(capacity int) {
	size := GetPrime(capacity)
	s.buckets = make([]int32, size)
	s.entries = make([]entry, size)
}

// Add stores handle under key. It returns false and leaves the set
// unchanged when a record equal to key is already present.
func (s *Set) Add(handle uint64, key ExternalKey) bool {
	if s.buckets == nil {
		s.initialize(0)
	}

	hash := int32(key.Hash() & 0x7FFFFFFF)
	bucket := int(hash) % len(s.buckets)

	for i := s.buckets[bucket]; i > 0; i = s.entries[i-1].next {
		e := &s.entries[i-1]
		if e.hash == hash && key.Equal(e.handle) {
			return false
		}
	}

	if s.count == len(s.entries) {
		s.resize()
		bucket = int(hash) % len(s.buckets)
	}

	index := s.count
	s.count++

	s.entries[index] = entry{
		hash:   hash,
		next:   s.buckets[bucket],
		handle: handle,
	}
	s.buckets[bucket] = int32(index + 1)
	return true
}

func (s *Set) resize() {
	newSize := ExpandPrime(s.count)

	entries := make([]entry, newSize)
	copy(entries, s.entries[:s.count])

	buckets := make([]int32, newSize)
	for i := range s.count {
		bucket := int(entries[i].hash) % newSize
		entries[i].next = buckets[bucket]
		buckets[bucket] = int32(i + 1)
	}

	s.buckets = buckets
	s.entries = entries
}

func (s *Set) find(key ExternalKey) int {
	if s.buckets == nil {
		return -1
	}
	hash := int32(key.Hash() & 0x7FFFFFFF)
	for i := s.buckets[int(hash)%len(s.buckets)]; i > 0; i = s.entries[i-1].next {
		e := &s.entries[i-1]
		if e.hash == hash && key.Equal(e.handle) {
			return int(i - 1)
		}
	}
	return -1
}

// TryGet returns the handle stored for a record equal to key.
func (s *Set) TryGet(key ExternalKey) (uint64, bool) {
	i := s.find(key)
	if i < 0 {
		return 0, false
	}
	return s.entries[i].handle, true
}

// Contains reports whether a record equal to key is present.
func (s *Set) Contains(key ExternalKey) bool {
	return s.find(key) >= 0
}

// Len returns the number of stored handles.
func (s *Set) Len() int {
	return s.count
}

// Clear removes all handles but keeps the allocated arrays.
func (s *Set) Clear() {
	if s.count == 0 {
		return
	}
	clear(s.buckets)
	clear(s.entries[:s.count])
	s.count = 0
}

// TotalBytes returns the memory held by the bucket and entry arrays.
func (s *Set) TotalBytes() uint64 {
	return uint64(len(s.buckets))*4 + uint64(len(s.entries))*entryBytes
}
