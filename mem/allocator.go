package mem

import "sync"

// FrameNo indexes a Frame within an Allocator's arena. 0 is never a valid
// allocated frame number, mirroring the teacher's convention that a zero
// Pa_t denotes "no page" (mem/mem.go treats p_pg 0 as absent throughout
// vm/as.go's page_insert/page_remove).
type FrameNo uint32

const NoFrame FrameNo = 0

type slot struct {
	frame  Frame
	refcnt int32
	// nexti chains free slots, exactly as Physpg_t.nexti chains the
	// teacher's free list (mem/mem.go).
	nexti uint32
	free  bool
}

// Allocator is a fixed-capacity arena of refcounted frames. It replaces
// the teacher's Physmem_t — which manages real direct-mapped physical
// RAM discovered at boot — with a capacity decided up front, since this
// model has no hardware memory map to probe. The free-list/refcount
// discipline (Refup/Refdown/_phys_new/_phys_put in mem/mem.go) is kept
// intact: a frame returns to the free list only when its refcount drops
// to zero, and the free list is LIFO over a singly-linked chain of slot
// indices.
type Allocator struct {
	mu      sync.Mutex
	slots   []slot
	freei   uint32
	freelen int32

	// Oom is notified via NotifyOom whenever Alloc finds the arena
	// exhausted. Buffered by one so the non-blocking send in NotifyOom
	// always succeeds even with no listener yet subscribed.
	Oom chan OomMsg
}

// NewAllocator builds an arena of the given capacity, all frames free.
func NewAllocator(capacity int) *Allocator {
	a := &Allocator{
		slots: make([]slot, capacity),
		freei: ^uint32(0),
		Oom:   make(chan OomMsg, 1),
	}
	for i := capacity - 1; i >= 0; i-- {
		a.slots[i].free = true
		a.push(uint32(i))
	}
	return a
}

// push adds idx to the head of the free list. Caller holds a.mu.
func (a *Allocator) push(idx uint32) {
	a.slots[idx].nexti = a.freei
	a.freei = idx
	a.freelen++
}

// pop removes and returns the head of the free list. Caller holds a.mu.
func (a *Allocator) pop() (uint32, bool) {
	if a.freelen == 0 {
		return 0, false
	}
	idx := a.freei
	a.freei = a.slots[idx].nexti
	a.freelen--
	return idx, true
}

// Alloc removes a zeroed frame from the free list, matching Refpg_new's
// zero-on-allocate guarantee. It returns (NoFrame, false) when the arena
// is exhausted — in kern/, page_alloc turns this into -ENOMEM and sbrk
// into a fatal fault, per spec.md §4.
func (a *Allocator) Alloc() (FrameNo, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx, ok := a.pop()
	if !ok {
		NotifyOom(a.Oom, 1)
		return NoFrame, false
	}
	s := &a.slots[idx]
	s.frame = Frame{}
	s.refcnt = 1
	s.free = false
	return FrameNo(idx + 1), true
}

// Frame returns a pointer to the live frame backing no, for copying into
// or out of user address spaces. Panics on a free or out-of-range
// FrameNo: callers (vm.AddressSpace) only ever hold FrameNo values that
// came from Alloc or a Refup'd mapping, so this is an invariant violation,
// not a user-triggerable error.
func (a *Allocator) Frame(no FrameNo) *Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.mustSlot(no)
	return &s.frame
}

func (a *Allocator) mustSlot(no FrameNo) *slot {
	if no == NoFrame || int(no-1) >= len(a.slots) {
		panic("mem: invalid frame number")
	}
	s := &a.slots[no-1]
	if s.free {
		panic("mem: use of freed frame")
	}
	return s
}

// Refcnt reports the number of mappings that currently reference no,
// mirroring Physmem_t.Refcnt.
func (a *Allocator) Refcnt(no FrameNo) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.mustSlot(no).refcnt)
}

// Refup increments no's reference count, called whenever a page gets a
// second mapping (page_map, or a COW parent retaining its own copy on
// fork). Mirrors Physmem_t.Refup.
func (a *Allocator) Refup(no FrameNo) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.mustSlot(no)
	s.refcnt++
}

// Refdown decrements no's reference count and frees it back to the arena
// once the count reaches zero, returning whether the frame was freed.
// Mirrors Physmem_t.Refdown / _phys_put.
func (a *Allocator) Refdown(no FrameNo) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.mustSlot(no)
	s.refcnt--
	if s.refcnt < 0 {
		panic("mem: refcount underflow")
	}
	if s.refcnt == 0 {
		s.free = true
		a.push(uint32(no - 1))
		return true
	}
	return false
}

// Free reports the number of frames currently on the free list.
func (a *Allocator) Free() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return int(a.freelen)
}

// Cap reports the arena's total capacity.
func (a *Allocator) Cap() int {
	return len(a.slots)
}
