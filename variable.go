package snapshotpool

// AppendBytes returns the variable-size snapshot h grown by n zero bytes,
// with mask OR-ed into the word that holds the first appended byte.
//
// mask is applied to the whole word as given, so callers normally confine
// it to the appended bytes. Snapshots of up to three bytes stay inside the
// handle. A record with spare bytes in its last word is reused for the
// longer snapshot when mask adds nothing. Anything else is interned like
// SetWord. Passing Shared() stores the scratch snapshot first.
func (p *Pool[S]) AppendBytes(h Handle, n int, mask uint32) Handle {
	if checksEnabled {
		if p.mode != modeVariable {
			precondition("AppendBytes", ErrNotVariableSize, "")
		}
		if n < 0 {
			precondition("AppendBytes", ErrIndexOutOfRange, "negative byte count %d", n)
		}
	}
	if n == 0 {
		return h
	}
	if p.isShared(h) {
		h = p.StoreShared()
	}

	off, size, inline := p.locate(h)
	grown := uint64(size) + uint64(n)
	if checksEnabled && (grown+3)/4 > MaxSnapshotWords {
		precondition("AppendBytes", ErrSnapshotTooLarge, "%d bytes, at most %d are supported", grown, MaxSnapshotWords*4)
	}
	newSize := uint32(grown)
	maskIndex := size / 4

	// Still fits into the handle.
	if newSize <= maxInlineBytes {
		return variableHandle(newSize, h.low()|mask)
	}

	// Fits into the spare bytes of the last word of the record.
	if !inline && newSize <= capacityBytes(size) {
		words := wordsFor(size)
		old := p.st.Word(off, maskIndex)
		hash := p.st.Word(off, words)
		if old|mask == old {
			return p.internResized(off, words, newSize, hash)
		}
		value := old | mask
		return p.internChanged(off, words, newSize, maskIndex, value, rehash(hash, maskIndex, old, value))
	}

	return p.internExtended(h, off, size, inline, newSize, maskIndex, mask)
}

// internResized returns the handle of the record at off read with a larger
// size that stays within its words. No storage is allocated: a new record
// reuses the words of the existing one.
func (p *Pool[S]) internResized(off, words, newSize, hash uint32) Handle {
	k := &p.keys.record
	k.off, k.words, k.size = off, words, newSize
	k.hash = sizedHash(hash, newSize)
	if found, ok := p.set.TryGet(k); ok {
		p.hit()
		return Handle(found)
	}
	p.miss()

	h := variableHandle(newSize, off)
	p.addNew(h, k.hash)
	return h
}

// internExtended returns the handle of h grown into a record with more words.
func (p *Pool[S]) internExtended(h Handle, off, size uint32, inline bool, newSize, maskIndex, mask uint32) Handle {
	k := &p.keys.extended
	k.src = off
	if inline {
		k.src = h.low()
	}
	k.inline = inline
	k.srcWords = wordsFor(size)
	k.words = wordsFor(newSize)
	k.maskIndex = maskIndex
	k.mask = mask
	k.size = newSize
	hash := k.contentHash()
	k.hash = sizedHash(hash, newSize)

	if found, ok := p.set.TryGet(k); ok {
		p.hit()
		return Handle(found)
	}
	p.miss()

	rec := p.allocate(k.words + 1)
	for i := range k.words {
		p.st.SetWord(rec, i, k.word(i))
	}
	p.st.SetWord(rec, k.words, hash)

	result := variableHandle(newSize, rec)
	p.addNew(result, k.hash)
	return result
}
