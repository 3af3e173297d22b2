package vector

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// MaxPooledBlock is the largest block, in slots, a BlockPool will keep.
// Larger requests are allocated directly and dropped on Put.
const MaxPooledBlock = 1 << 20

const numClasses = 21 // 1, 2, 4, ... MaxPooledBlock

// BlockPool recycles storage blocks in power-of-two size classes. A request
// for n slots is served from the smallest class holding n, sliced to length
// n. It is safe for concurrent use; the vectors drawing from it are not.
type BlockPool struct {
	classes [numClasses]sync.Pool
	hits    atomic.Int64
	misses  atomic.Int64
}

// PoolStats counts Get calls served from a retired block (Hits) and those
// that had to allocate (Misses).
type PoolStats struct {
	Hits   int64
	Misses int64
}

func NewBlockPool() *BlockPool {
	return &BlockPool{}
}

// sizeClass returns the class index for n slots, or -1 if n is not pooled.
func sizeClass(n int) int {
	if n <= 0 || n > MaxPooledBlock {
		return -1
	}
	return bits.Len(uint(n - 1))
}

// Get returns a zeroed block of exactly n slots. Its capacity may be larger.
func (p *BlockPool) Get(n int) []int {
	if n <= 0 {
		return nil
	}
	c := sizeClass(n)
	if c < 0 {
		p.misses.Add(1)
		return make([]int, n)
	}
	if b, ok := p.classes[c].Get().(*[]int); ok {
		p.hits.Add(1)
		return (*b)[:n]
	}
	p.misses.Add(1)
	return make([]int, n, 1<<c)
}

// Put retires b. The caller must not touch b afterwards. Blocks whose
// capacity is not a pooled size class are left to the garbage collector.
func (p *BlockPool) Put(b []int) {
	n := cap(b)
	c := sizeClass(n)
	if c < 0 || 1<<c != n {
		return
	}
	b = b[:n]
	for i := range b {
		b[i] = 0
	}
	p.classes[c].Put(&b)
}

func (p *BlockPool) Stats() PoolStats {
	return PoolStats{Hits: p.hits.Load(), Misses: p.misses.Load()}
}
