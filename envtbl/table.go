package envtbl

import (
	"sync"

	"exocore/defs"
	"exocore/limits"
	"exocore/mem"
	"exocore/vm"
)

// slot holds one table entry plus its current generation counter, so a
// stale EnvId handed back into Resolve after the slot was recycled is
// rejected rather than silently resolving to the wrong environment — the
// same generation-vs-index split the teacher's physical-frame free list
// avoids needing (a frame has no "identity" to spoof) but which an
// envid, being handed to untrusted user code, very much does.
type slot struct {
	env *Env
	gen uint32
}

// Table is the fixed-size environment table spec.md §3/§7 assumes:
// Alloc/Resolve/Destroy plus the generation-tagged free-list reuse
// pattern carried over from the teacher's Physmem_t free list
// (mem/mem.go _phys_new/_phys_insert), applied here to table slots
// instead of physical frames.
type Table struct {
	mu      sync.Mutex
	slots   []slot
	freei   []uint32
	limit   *limits.Syslimit
	cfg     defs.Config
}

// NewTable builds an empty table of cfg.MaxEnvs slots.
func NewTable(cfg defs.Config, limit *limits.Syslimit) *Table {
	t := &Table{
		slots: make([]slot, cfg.MaxEnvs),
		limit: limit,
		cfg:   cfg,
	}
	t.freei = make([]uint32, cfg.MaxEnvs)
	for i := range t.freei {
		t.freei[i] = uint32(cfg.MaxEnvs - 1 - i)
	}
	return t
}

// Alloc allocates a fresh Env with the given parent, returning -ENOFREE
// if the table (or the surrounding Sysprocs budget) is exhausted —
// exofork's failure mode per spec.md §4.3.
func (t *Table) Alloc(parent defs.EnvId) (*Env, defs.Err_t) {
	if t.limit != nil && !t.limit.Sysprocs.Take() {
		return nil, defs.ENOFREE
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.freei) == 0 {
		if t.limit != nil {
			t.limit.Sysprocs.Give()
		}
		return nil, defs.ENOFREE
	}
	idx := t.freei[len(t.freei)-1]
	t.freei = t.freei[:len(t.freei)-1]

	s := &t.slots[idx]
	s.gen++
	id := defs.PackEnvId(s.gen, idx)

	env := &Env{
		Id:       id,
		ParentId: parent,
		Status:   defs.StatusNotRunnable,
		AS:       vm.NewAddressSpace(t.cfg),
	}
	s.env = env
	return env, 0
}

// Resolve looks up id, rejecting a stale generation or an empty slot
// with -EBADENV.
func (t *Table) Resolve(id defs.EnvId) (*Env, defs.Err_t) {
	t.mu.Lock()
	defer t.mu.Unlock()
	gen, idx := defs.UnpackEnvId(id)
	if int(idx) >= len(t.slots) {
		return nil, defs.EBADENV
	}
	s := &t.slots[idx]
	if s.env == nil || s.gen != gen {
		return nil, defs.EBADENV
	}
	return s.env, 0
}

// Live returns every currently-occupied slot, for diagnostics
// (cmd/exoctl's envs subcommand) and tests that need to enumerate the
// table without already holding every envid.
func (t *Table) Live() []*Env {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Env, 0, len(t.slots))
	for i := range t.slots {
		if t.slots[i].env != nil {
			out = append(out, t.slots[i].env)
		}
	}
	return out
}

// CheckPerm implements spec.md §3's checkperm predicate: caller == target
// or caller.Id == target.ParentId.
func CheckPerm(caller, target *Env) bool {
	return caller.Id == target.Id || caller.Id == target.ParentId
}

// ResolveChecked resolves id and applies checkperm against caller,
// returning -EBADENV for either failure — the shared pattern every
// address-space and lifecycle syscall in kern/ opens with (spec.md §4.4).
func (t *Table) ResolveChecked(caller *Env, id defs.EnvId) (*Env, defs.Err_t) {
	target, err := t.Resolve(id)
	if err != 0 {
		return nil, err
	}
	if !CheckPerm(caller, target) {
		return nil, defs.EBADENV
	}
	return target, 0
}

// Destroy tears down env's address space and returns its table slot to
// the free list. The emptied slot makes any outstanding EnvId referring
// to it fail Resolve; the slot's generation is bumped when Alloc next
// reuses it, so the old EnvId stays stale after reuse. alloc is the
// frame allocator used to
// refdown every mapped page (vm.AddressSpace.Teardown).
func (t *Table) Destroy(alloc *mem.Allocator, env *Env) {
	env.AS.Teardown(alloc)
	env.Status = defs.StatusDying

	_, idx := defs.UnpackEnvId(env.Id)
	t.mu.Lock()
	t.slots[idx].env = nil
	t.freei = append(t.freei, idx)
	t.mu.Unlock()

	if t.limit != nil {
		t.limit.Sysprocs.Give()
	}
	env.Status = defs.StatusFree
}
