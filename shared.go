package snapshotpool

// The scratch snapshot batches several edits into one interner lookup:
//
//	pool.LoadToShared(h)
//	pool.SetSharedWord(0, a)
//	pool.SetSharedWord(3, b)
//	h = pool.StoreShared()
//
// There is one scratch slot per pool and one batch may be in flight at a
// time. Views that edit several words at once use the same slot.

// Shared returns the handle of the scratch snapshot. It can be read with
// Word like any other handle but is never returned by an interning
// operation. In pools of at most four bytes it is the staged content itself.
func (p *Pool[S]) Shared() Handle {
	switch p.mode {
	case modeTrivial:
		return Handle(p.sharedValue)
	case modeFixed:
		return Handle(p.sharedOffset)
	case modeVariable:
		return variableHandle(sharedSizeTag, 0)
	default:
		return Zero
	}
}

// LoadToShared copies h into the scratch snapshot.
func (p *Pool[S]) LoadToShared(h Handle) {
	p.sharedLoaded = true
	switch p.mode {
	case modeTrivial:
		p.sharedValue = uint32(h)
	case modeFixed:
		src := uint32(h)
		if src == p.sharedOffset {
			return
		}
		p.st.Copy(src, p.sharedOffset, p.words)
		p.sharedHash = p.st.Word(src, p.words)
	case modeVariable:
		if p.isShared(h) {
			return
		}
		off, size, inline := p.locate(h)
		p.sharedSize = size
		switch {
		case size == 0:
			p.sharedHash = 0
		case inline:
			p.st.SetWord(p.sharedOffset, 0, h.low())
			p.sharedHash = hashPart(h.low(), 0)
		default:
			words := wordsFor(size)
			p.st.Copy(off, p.sharedOffset, words)
			p.sharedHash = p.st.Word(off, words)
		}
	}
}

func (p *Pool[S]) checkShared(op string) {
	if !p.sharedLoaded {
		precondition(op, ErrSharedNotLoaded, "")
	}
}

// SharedWord returns word index of the scratch snapshot.
func (p *Pool[S]) SharedWord(index int) uint32 {
	if checksEnabled {
		p.checkShared("SharedWord")
	}
	return p.Word(p.Shared(), index)
}

// SetSharedWord overwrites word index of the scratch snapshot in place.
// The interner is not consulted until StoreShared.
func (p *Pool[S]) SetSharedWord(index int, value uint32) {
	if checksEnabled {
		p.checkShared("SetSharedWord")
		p.checkIndex("SetSharedWord", index, p.Shared())
	}

	i := uint32(index)
	switch p.mode {
	case modeTrivial:
		p.sharedValue = value & p.lastMask
		return
	case modeVariable:
		value &= trimMask(p.sharedSize, i)
	default:
		if i == p.words-1 {
			value &= p.lastMask
		}
	}

	old := p.st.Word(p.sharedOffset, i)
	if old == value {
		return
	}
	p.sharedHash = rehash(p.sharedHash, i, old, value)
	p.st.SetWord(p.sharedOffset, i, value)
}

// StoreShared interns the scratch snapshot and returns its handle.
// The scratch snapshot keeps its content and can be edited further.
func (p *Pool[S]) StoreShared() Handle {
	if checksEnabled {
		p.checkShared("StoreShared")
	}
	switch p.mode {
	case modeTrivial:
		return Handle(p.sharedValue)
	case modeFixed:
		return p.internRecord(p.sharedOffset, p.words, 0, p.sharedHash)
	case modeVariable:
		switch size := p.sharedSize; {
		case size == 0:
			return Zero
		case size <= maxInlineBytes:
			return variableHandle(size, p.st.Word(p.sharedOffset, 0))
		default:
			return p.internRecord(p.sharedOffset, wordsFor(size), size, p.sharedHash)
		}
	default:
		return Zero
	}
}

// ResizeShared grows the scratch snapshot of a variable-size pool to size
// bytes. New bytes are zero. Shrinking is not supported.
func (p *Pool[S]) ResizeShared(size int) {
	if checksEnabled {
		if p.mode != modeVariable {
			precondition("ResizeShared", ErrNotVariableSize, "")
		}
		p.checkShared("ResizeShared")
		if size < int(p.sharedSize) {
			precondition("ResizeShared", ErrSharedShrink, "from %d to %d bytes", p.sharedSize, size)
		}
		if (size+3)/4 > MaxSnapshotWords {
			precondition("ResizeShared", ErrSharedTooSmall, "%d bytes requested, %d available", size, MaxSnapshotWords*4)
		}
	}

	newSize := uint32(size)
	for i := wordsFor(p.sharedSize); i < wordsFor(newSize); i++ {
		p.st.SetWord(p.sharedOffset, i, 0)
	}
	p.sharedSize = newSize
}
