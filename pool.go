package celeste

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. The generation increments on deallocation to invalidate
// stale handles. The zero Handle is never issued.
type Handle uint64

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

// Pool is a fixed-capacity slab of T. Slots never move, so pointers returned by
// Get stay valid until the slot is deallocated. Deallocated slots are zeroed.
type Pool[T any] struct {
	slots       []T
	generations []uint32
	live        []bool
	freeList    []uint32
	count       int
}

// NewPool creates a pool with room for capacity values.
func NewPool[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}
	p := &Pool[T]{
		slots:       make([]T, capacity),
		generations: make([]uint32, capacity),
		live:        make([]bool, capacity),
		freeList:    make([]uint32, capacity),
	}
	for i := range p.generations {
		p.generations[i] = 1
		// Free list is popped from the back; fill it so slot 0 goes first.
		p.freeList[i] = uint32(capacity - 1 - i)
	}
	return p
}

// Allocate claims a zeroed slot. It returns false when the pool is exhausted.
func (p *Pool[T]) Allocate() (Handle, bool) {
	if len(p.freeList) == 0 {
		debugFail("pool exhausted (capacity %d)", len(p.slots))
		return 0, false
	}
	idx := p.freeList[len(p.freeList)-1]
	p.freeList = p.freeList[:len(p.freeList)-1]
	p.live[idx] = true
	p.count++
	return newHandle(idx, p.generations[idx]), true
}

// Deallocate zeroes the slot behind h and returns it to the free list.
// It returns false if h is not a live handle of this pool.
func (p *Pool[T]) Deallocate(h Handle) bool {
	if !p.IsAllocated(h) {
		debugFail("deallocate of handle %#x that is not live in this pool", uint64(h))
		return false
	}
	idx := h.Index()
	var zero T
	p.slots[idx] = zero
	p.live[idx] = false
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
	p.count--
	return true
}

// IsAllocated reports whether h refers to a live slot of this pool.
func (p *Pool[T]) IsAllocated(h Handle) bool {
	idx := h.Index()
	if h.IsZero() || int(idx) >= len(p.slots) {
		return false
	}
	return p.live[idx] && p.generations[idx] == h.Generation()
}

// Get returns the value behind h, or nil for a stale or foreign handle.
func (p *Pool[T]) Get(h Handle) *T {
	if !p.IsAllocated(h) {
		return nil
	}
	return &p.slots[h.Index()]
}

// CanAllocate reports whether n more slots are free.
func (p *Pool[T]) CanAllocate(n int) bool {
	return n <= len(p.freeList)
}

// Len returns the number of live slots.
func (p *Pool[T]) Len() int { return p.count }

// Cap returns the fixed capacity.
func (p *Pool[T]) Cap() int { return len(p.slots) }

// Each calls fn for every live slot in slot order.
func (p *Pool[T]) Each(fn func(h Handle, v *T)) {
	for i := range p.slots {
		if p.live[i] {
			fn(newHandle(uint32(i), p.generations[i]), &p.slots[i])
		}
	}
}
