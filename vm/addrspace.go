package vm

import (
	"sync"

	"exocore/defs"
	"exocore/mem"
)

// AddressSpace is one environment's page directory: a map from
// page-aligned virtual address to PTE, standing in for the teacher's
// Vm_t.Pmap (a real *Pmap_t walked level by level in mem/mem.go's
// pmap_walk). Lock_pmap/Unlock_pmap become a plain sync.Mutex since there
// is no separate lock-ordering concern against a hardware TLB shootdown
// path here.
type AddressSpace struct {
	mu    sync.Mutex
	cfg   defs.Config
	pages map[uintptr]PTE
}

// NewAddressSpace returns an empty address space governed by cfg.
func NewAddressSpace(cfg defs.Config) *AddressSpace {
	return &AddressSpace{cfg: cfg, pages: make(map[uintptr]PTE)}
}

// Lookup returns the PTE mapped at va, if any.
func (as *AddressSpace) Lookup(va uintptr) (PTE, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()
	pte, ok := as.pages[va]
	return pte, ok
}

// Insert maps va to frame with the given permissions, refcounting frame
// up in alloc and refcounting down whatever frame previously occupied va
// (refdown'ing it back to the allocator if its count hits zero) — the
// same present-mapping-replace behavior as _page_insert in vm/as.go,
// "ninval" included: insert over an existing mapping is legal and simply
// drops the old frame's reference, it does not error.
//
// va and frame must already be page-aligned/valid; Insert panics on a
// misaligned va since every caller in kern/ is expected to have checked
// defs.Config.Aligned before calling down into vm.
func (as *AddressSpace) Insert(alloc *mem.Allocator, va uintptr, frame mem.FrameNo, perm defs.Perm) {
	if !as.cfg.Aligned(uint32(va)) {
		panic("vm: unaligned insert")
	}
	as.mu.Lock()
	defer as.mu.Unlock()
	alloc.Refup(frame)
	old, had := as.pages[va]
	as.pages[va] = PTE{Frame: frame, Perm: perm}
	if had && old.Present() {
		alloc.Refdown(old.Frame)
	}
}

// Remove unmaps va, refdowning its frame, and reports whether a mapping
// was actually present (Page_remove's "remmed" return in vm/as.go). A
// remove of an absent va is a no-op, not an error.
func (as *AddressSpace) Remove(alloc *mem.Allocator, va uintptr) bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	pte, ok := as.pages[va]
	if !ok || !pte.Present() {
		return false
	}
	delete(as.pages, va)
	alloc.Refdown(pte.Frame)
	return true
}

// Unmapped reports whether every page in [start, start+length) is free of
// mappings, the way Unusedva_inner checks a candidate break region in
// vm/as.go. No handler in kern/ calls it; sbrk maps its region without
// checking.
func (as *AddressSpace) Unmapped(start, length uintptr) bool {
	as.mu.Lock()
	defer as.mu.Unlock()
	pageSize := uintptr(as.cfg.PageSize)
	for va := start; va < start+length; va += pageSize {
		if pte, ok := as.pages[va]; ok && pte.Present() {
			return false
		}
	}
	return true
}

// Teardown refdowns every mapped frame, the map-based equivalent of
// Uvmfree walking and freeing every live pmap entry. Called once when an
// environment is destroyed.
func (as *AddressSpace) Teardown(alloc *mem.Allocator) {
	as.mu.Lock()
	defer as.mu.Unlock()
	for va, pte := range as.pages {
		if pte.Present() {
			alloc.Refdown(pte.Frame)
		}
		delete(as.pages, va)
	}
}

// Len reports the number of currently-mapped pages, used by tests to
// assert an address space shrank or grew by an expected amount.
func (as *AddressSpace) Len() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return len(as.pages)
}
