package vector

// GrowthEvent describes one replacement of the storage block.
type GrowthEvent struct {
	OldCapacity int
	NewCapacity int
	Copied      int
}

// Observer is notified after the storage block has been replaced.
type Observer interface {
	OnGrow(ev GrowthEvent)
}

// Vector is a growable sequence of ints backed by one owned block.
//
// Slots [0, length) are live. Slots [length, capacity) hold whatever was last
// written there and must not be read.
type Vector struct {
	data     []int
	length   int
	capacity int

	growth    Growth
	observers []Observer
	pool      *BlockPool
}

type Option func(*Vector)

// WithGrowth selects the policy used when an append needs more room.
func WithGrowth(g Growth) Option {
	return func(v *Vector) {
		if g != nil {
			v.growth = g
		}
	}
}

// WithObserver adds o to the observers notified on growth. It may be given
// more than once.
func WithObserver(o Observer) Option {
	return func(v *Vector) {
		if o != nil {
			v.observers = append(v.observers, o)
		}
	}
}

// WithPool makes the vector take new blocks from p and hand retired ones back.
func WithPool(p *BlockPool) Option {
	return func(v *Vector) { v.pool = p }
}

// New returns an empty vector with no storage allocated.
func New(opts ...Option) *Vector {
	v := &Vector{growth: ExactFit{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Vector) Size() int {
	return v.length
}

// PushBack appends value as the new last element, growing storage first if
// the vector is full.
func (v *Vector) PushBack(value int) {
	if v.length+1 > v.capacity {
		v.grow(v.length + 1)
	}
	v.data[v.length] = value
	v.length++
}

// PopBack drops the last element. It is a no-op on an empty vector and never
// shrinks capacity.
func (v *Vector) PopBack() {
	if v.length > 0 {
		v.length--
	}
}

// At returns a reference to the live slot at index, through which the caller
// may read or write. The reference is invalidated by the next growth or by
// Release. At panics with a *BoundsError if index is not live.
func (v *Vector) At(index int) *int {
	if err := v.check(index); err != nil {
		panic(err)
	}
	return &v.data[index]
}

// Get is the non-panicking read form of At.
func (v *Vector) Get(index int) (int, error) {
	if err := v.check(index); err != nil {
		return 0, err
	}
	return v.data[index], nil
}

// Set overwrites the live slot at index. On error the vector is unchanged.
func (v *Vector) Set(index, value int) error {
	if err := v.check(index); err != nil {
		return err
	}
	v.data[index] = value
	return nil
}

// Release drops the storage block and leaves the vector empty. Calling it
// again, or on a vector that never allocated, does nothing.
func (v *Vector) Release() {
	if v.data == nil {
		return
	}
	v.retire(v.data)
	v.data = nil
	v.length = 0
	v.capacity = 0
}

func (v *Vector) check(index int) error {
	if index < 0 || index >= v.length {
		return &BoundsError{Index: index, Length: v.length}
	}
	return nil
}

func (v *Vector) grow(need int) {
	newCap := v.growth.Grow(v.length, v.capacity, need)
	if newCap < need {
		newCap = need
	}

	block := v.alloc(newCap)
	copy(block, v.data[:v.length])

	old, oldCap := v.data, v.capacity
	v.data = block
	v.capacity = newCap
	if old != nil {
		v.retire(old)
	}

	ev := GrowthEvent{OldCapacity: oldCap, NewCapacity: newCap, Copied: v.length}
	for _, o := range v.observers {
		o.OnGrow(ev)
	}
}

func (v *Vector) alloc(n int) []int {
	if v.pool != nil {
		return v.pool.Get(n)
	}
	return make([]int, n)
}

func (v *Vector) retire(block []int) {
	if v.pool != nil {
		v.pool.Put(block)
	}
}
