package snapshotpool

import "github.com/hupe1980/snapshotpool/storage"

// The interner never stores keys. Each lookup describes the wanted content
// with one of the keys below, which compare candidates directly against
// storage. A pool owns one instance of each and reuses it, so lookups do
// not allocate.

// keys holds the pool's reusable lookup keys.
type keys[S storage.Storage] struct {
	record   recordKey[S]
	changed  changedKey[S]
	extended extendedKey[S]
	inserted insertKey
}

func (k *keys[S]) bind(p *Pool[S]) {
	k.record.p = p
	k.changed.p = p
	k.extended.p = p
}

// candidate decodes a stored handle into its offset, rejecting sizes that
// cannot match. Fixed-size pools ignore size.
func candidate[S storage.Storage](p *Pool[S], handle uint64, size uint32) (uint32, bool) {
	h := Handle(handle)
	if p.mode == modeVariable {
		return h.low(), h.size() == size
	}
	return uint32(h), true
}

// recordKey matches the content of an existing record, such as the scratch slot.
type recordKey[S storage.Storage] struct {
	p     *Pool[S]
	off   uint32
	words uint32
	size  uint32
	hash  uint32
}

func (k *recordKey[S]) Hash() uint32 { return k.hash }

func (k *recordKey[S]) Equal(handle uint64) bool {
	off, ok := candidate(k.p, handle, k.size)
	return ok && k.p.st.EqualRange(off, k.off, 0, k.words)
}

// changedKey matches the record at src with the word at index replaced by value.
type changedKey[S storage.Storage] struct {
	p     *Pool[S]
	src   uint32
	words uint32
	index uint32
	value uint32
	size  uint32
	hash  uint32
}

func (k *changedKey[S]) Hash() uint32 { return k.hash }

func (k *changedKey[S]) Equal(handle uint64) bool {
	off, ok := candidate(k.p, handle, k.size)
	if !ok {
		return false
	}
	st := k.p.st
	return st.Word(off, k.index) == k.value &&
		st.EqualRange(off, k.src, 0, k.index) &&
		st.EqualRange(off, k.src, k.index+1, k.words)
}

// extendedKey matches a variable-size snapshot grown past its capacity: the
// source words, zero padding, and mask OR-ed into the word at maskIndex.
type extendedKey[S storage.Storage] struct {
	p         *Pool[S]
	src       uint32
	inline    bool // src is the content itself rather than an offset
	srcWords  uint32
	words     uint32
	maskIndex uint32
	mask      uint32
	size      uint32
	hash      uint32
}

func (k *extendedKey[S]) word(i uint32) uint32 {
	var w uint32
	switch {
	case i >= k.srcWords:
	case k.inline:
		w = k.src
	default:
		w = k.p.st.Word(k.src, i)
	}
	if i == k.maskIndex {
		w |= k.mask
	}
	return w
}

func (k *extendedKey[S]) contentHash() uint32 {
	var hash uint32
	for i := range k.words {
		hash ^= hashPart(k.word(i), i)
	}
	return hash
}

func (k *extendedKey[S]) Hash() uint32 { return k.hash }

func (k *extendedKey[S]) Equal(handle uint64) bool {
	off, ok := candidate(k.p, handle, k.size)
	if !ok {
		return false
	}
	for i := range k.words {
		if k.p.st.Word(off, i) != k.word(i) {
			return false
		}
	}
	return true
}

// insertKey registers a record already known to be absent.
type insertKey struct {
	hash uint32
}

func (k *insertKey) Hash() uint32 { return k.hash }

func (k *insertKey) Equal(uint64) bool { return false }
