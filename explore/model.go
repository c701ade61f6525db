package explore

import (
	"fmt"

	"github.com/hupe1980/snapshotpool"
	"github.com/hupe1980/snapshotpool/storage"
)

// Pool is the pool type models operate on.
type Pool = snapshotpool.Pool[storage.Storage]

// Model describes a state space.
type Model interface {
	// Name identifies the model in logs and results.
	Name() string
	// BytesPerState is the snapshot width, or snapshotpool.VariableSize.
	BytesPerState() int
	// Start binds the model to a freshly created pool.
	Start(p *Pool) (Instance, error)
}

// Instance is a model bound to a pool.
type Instance interface {
	// Initial returns the initial state.
	Initial() snapshotpool.Handle
	// Successors calls visit for every successor of state. Successors may
	// repeat; the explorer deduplicates them.
	Successors(state snapshotpool.Handle, visit func(snapshotpool.Handle))
}

// Counters models Counters independent counters that each count up to
// Max-1 and may be reset to zero at any time. It reaches Max^Counters states.
type Counters struct {
	Counters int
	Max      uint32
}

func (m Counters) Name() string {
	return fmt.Sprintf("counters(%d,%d)", m.Counters, m.Max)
}

func (m Counters) BytesPerState() int {
	return m.Counters * 4
}

func (m Counters) Start(p *Pool) (Instance, error) {
	if m.Counters <= 0 || m.Max == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, m.Name())
	}
	return &counters{m: m, p: p}, nil
}

type counters struct {
	m Counters
	p *Pool
}

func (c *counters) Initial() snapshotpool.Handle {
	return snapshotpool.Zero
}

func (c *counters) Successors(state snapshotpool.Handle, visit func(snapshotpool.Handle)) {
	for i := range c.m.Counters {
		v := c.p.Word(state, i)
		if v+1 < c.m.Max {
			visit(c.p.SetWord(state, i, v+1))
		}
		visit(c.p.SetWord(state, i, 0))
	}
}

// OneHot models Registers registers of Width bits in which at most one bit
// is set. A step selects a bit of one register or clears it. It reaches
// (Width+1)^Registers states.
type OneHot struct {
	Registers int
	Width     int
}

func (m OneHot) Name() string {
	return fmt.Sprintf("onehot(%d,%d)", m.Registers, m.Width)
}

func (m OneHot) BytesPerState() int {
	return (m.Registers*m.Width-1)/8 + 1
}

func (m OneHot) Start(p *Pool) (Instance, error) {
	if m.Registers <= 0 || m.Width <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, m.Name())
	}
	v, err := snapshotpool.NewBitView(p, m.Registers, m.Width)
	if err != nil {
		return nil, err
	}
	return &oneHot{m: m, v: v}, nil
}

type oneHot struct {
	m OneHot
	v *snapshotpool.BitView[storage.Storage]
}

func (o *oneHot) Initial() snapshotpool.Handle {
	return snapshotpool.Zero
}

func (o *oneHot) Successors(state snapshotpool.Handle, visit func(snapshotpool.Handle)) {
	for r := range o.m.Registers {
		for bit := range o.m.Width {
			visit(o.v.SetBitAndClearOthers(state, r, bit))
		}
		visit(o.v.Clear(state, r))
	}
}

// Words models the strings of at most MaxLen bytes over the first Alphabet
// letters of "a".."z". A step appends a letter or rotates the first one.
// It reaches 1 + Alphabet + ... + Alphabet^MaxLen states.
type Words struct {
	Alphabet int
	MaxLen   int
}

func (m Words) Name() string {
	return fmt.Sprintf("words(%d,%d)", m.Alphabet, m.MaxLen)
}

func (m Words) BytesPerState() int {
	return snapshotpool.VariableSize
}

func (m Words) Start(p *Pool) (Instance, error) {
	if m.Alphabet <= 0 || m.Alphabet > 26 || m.MaxLen < 0 || m.MaxLen > snapshotpool.MaxSnapshotWords*4 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidModel, m.Name())
	}
	return &words{m: m, p: p, v: snapshotpool.NewByteView(p)}, nil
}

type words struct {
	m Words
	p *Pool
	v snapshotpool.ByteView[storage.Storage]
}

func (w *words) Initial() snapshotpool.Handle {
	return snapshotpool.Zero
}

func (w *words) Successors(state snapshotpool.Handle, visit func(snapshotpool.Handle)) {
	size := w.p.Size(state)
	if size < w.m.MaxLen {
		for i := range w.m.Alphabet {
			visit(w.v.AppendByte(state, 'a'+byte(i)))
		}
	}
	if size > 0 {
		next := (w.v.Byte(state, 0)-'a'+1)%byte(w.m.Alphabet) + 'a'
		visit(w.v.SetByte(state, 0, next))
	}
}
