// Package sched provides the round-robin scheduler the dispatch core
// treats as an external collaborator per spec.md's "Out of scope" list
// (env_alloc/env_destroy/envid2env/sched_yield live there already; the
// runnable-queue policy itself is the one piece SPEC_FULL.md asks this
// repo to actually provide, since "yield" has to hand control to
// somebody). Grounded on the mutex-protected allocate/free pattern in
// the teacher's msi.Msivecs_t (msi/msi.go) — the same shape, a small
// mutex-guarded pool, applied here to runnable environment ids instead
// of MSI vectors.
package sched

import (
	"sync"

	"exocore/defs"
)

// Scheduler hands out the next runnable environment. RoundRobin is the
// only implementation; it is an interface because cmd/exoctl's
// deterministic demo harness and the test suite both want to substitute
// a scripted scheduler without depending on RoundRobin's internals.
type Scheduler interface {
	// Enqueue marks id eligible to run next.
	Enqueue(id defs.EnvId)
	// Next pops the next runnable id, or (0, false) if none are queued.
	Next() (defs.EnvId, bool)
	// Remove drops id from the queue, e.g. because it was just destroyed.
	Remove(id defs.EnvId)
}

// RoundRobin is a FIFO of runnable environment ids guarded by a single
// mutex, mirroring Msivecs_t's lock-protected pool exactly — Enqueue and
// Next are this scheduler's Msi_alloc/Msi_free.
type RoundRobin struct {
	mu    sync.Mutex
	queue []defs.EnvId
}

// NewRoundRobin returns an empty round-robin scheduler.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{}
}

func (r *RoundRobin) Enqueue(id defs.EnvId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.queue {
		if q == id {
			return
		}
	}
	r.queue = append(r.queue, id)
}

func (r *RoundRobin) Next() (defs.EnvId, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return 0, false
	}
	id := r.queue[0]
	r.queue = r.queue[1:]
	return id, true
}

func (r *RoundRobin) Remove(id defs.EnvId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, q := range r.queue {
		if q == id {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return
		}
	}
}

// Len reports the number of environments currently queued.
func (r *RoundRobin) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}
