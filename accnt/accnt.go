// Package accnt tracks per-environment CPU-time accounting, adapted
// near-verbatim from the teacher's accnt.Accnt_t (biscuit's process
// resource accounting) and now embedded directly in envtbl.Env.
package accnt

import (
	"sync"
	"sync/atomic"
	"time"
)

// Accnt accumulates user/system time consumed by one environment.
// Both fields are nanosecond counts; the embedded mutex lets a caller
// take a consistent snapshot across both fields via Add/Snapshot.
type Accnt struct {
	Userns int64
	Sysns  int64
	sync.Mutex
}

// Utadd adds delta nanoseconds to the user-time counter.
func (a *Accnt) Utadd(delta int64) {
	atomic.AddInt64(&a.Userns, delta)
}

// Systadd adds delta nanoseconds to the system-time counter.
func (a *Accnt) Systadd(delta int64) {
	atomic.AddInt64(&a.Sysns, delta)
}

// Now returns the current time in nanoseconds since the Unix epoch.
func (a *Accnt) Now() int64 {
	return time.Now().UnixNano()
}

// Finish adds the time elapsed since inttime to the system-time counter,
// called once per dispatched syscall in kern/dispatch.go.
func (a *Accnt) Finish(inttime int64) {
	a.Systadd(a.Now() - inttime)
}

// Add merges another environment's accounting into this one. env_hyoui
// does not call it: the destroyed target's accumulated time is not
// carried over to the caller.
func (a *Accnt) Add(n *Accnt) {
	n.Lock()
	un, sn := n.Userns, n.Sysns
	n.Unlock()
	a.Lock()
	a.Userns += un
	a.Sysns += sn
	a.Unlock()
}

// Snapshot returns a consistent (Userns, Sysns) pair, the narrowed
// replacement for the teacher's Fetch/To_rusage byte-serialization (no
// rusage syscall exists in this ABI, so the wire-format encoding has
// nothing to serve — stats/stats.go and cmd/exoctl read the struct
// fields directly instead).
func (a *Accnt) Snapshot() (userns, sysns int64) {
	a.Lock()
	defer a.Unlock()
	return a.Userns, a.Sysns
}
