// Package limits bounds the environment table's capacity, adapted from
// the teacher's limits.Syslimit_t/Sysatomic_t (which tracks a dozen
// system-wide resource ceilings — vnodes, futexes, sockets, ...) narrowed
// to the one resource this core actually allocates: environment-table
// slots (spec.md §3's fixed-size environment table).
package limits

import "sync/atomic"

// Sysatomic is a Take/Give counted resource, the same pattern as the
// teacher's Sysatomic_t: Taken decrements by n and rolls back if that
// would go negative, Given increments. Used where multiple goroutines
// may exofork concurrently and need a lock-free admission check.
type Sysatomic struct {
	n int64
}

// Taken tries to consume n units, returning whether there was enough
// budget. On failure the counter is left unchanged.
func (s *Sysatomic) Taken(n int64) bool {
	if atomic.AddInt64(&s.n, -n) >= 0 {
		return true
	}
	atomic.AddInt64(&s.n, n)
	return false
}

// Take consumes a single unit.
func (s *Sysatomic) Take() bool { return s.Taken(1) }

// Given returns n units to the budget.
func (s *Sysatomic) Given(n int64) { atomic.AddInt64(&s.n, n) }

// Give returns a single unit.
func (s *Sysatomic) Give() { s.Given(1) }

// Remaining reports the current budget.
func (s *Sysatomic) Remaining() int64 { return atomic.LoadInt64(&s.n) }

// Syslimit mirrors the teacher's Syslimit_t, trimmed to the single field
// this core governs.
type Syslimit struct {
	Sysprocs Sysatomic
}

// NewSyslimit returns limits seeded to admit up to maxEnvs live
// environments, mirroring MkSysLimit's role of producing the default
// Syslimit_t.
func NewSyslimit(maxEnvs int) *Syslimit {
	s := &Syslimit{}
	s.Sysprocs.Given(int64(maxEnvs))
	return s
}
