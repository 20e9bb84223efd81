// Package stats counts per-syscall invocations, adapted from the
// teacher's stats.Counter_t/Stats2String (biscuit's global perf-counter
// struct, reflection-dumped on demand) narrowed to one counter per
// defs.SyscallNo instead of a hand-written struct field per event.
package stats

import (
	"fmt"
	"sort"
	"sync/atomic"

	"exocore/defs"
)

// Counters tallies invocations of each syscall, the same atomic
// increment-on-the-hot-path discipline as the teacher's Counter_t.Inc,
// keyed by number instead of laid out as named struct fields since the
// set of syscalls here is enumerable via defs.AllSyscalls.
type Counters struct {
	counts [64]int64
}

// NewCounters returns a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// Inc increments the counter for no.
func (c *Counters) Inc(no defs.SyscallNo) {
	if int(no) >= len(c.counts) {
		return
	}
	atomic.AddInt64(&c.counts[no], 1)
}

// Get returns the current count for no.
func (c *Counters) Get(no defs.SyscallNo) int64 {
	if int(no) >= len(c.counts) {
		return 0
	}
	return atomic.LoadInt64(&c.counts[no])
}

// String renders every syscall with a nonzero count, sorted by name, the
// same "#Field: n" format Stats2String produces for the teacher's
// counters — adapted from a reflective struct walk to an explicit loop
// over defs.AllSyscalls since Counters has no exported per-syscall
// fields to reflect over.
func (c *Counters) String() string {
	all := defs.AllSyscalls()
	sort.Slice(all, func(i, j int) bool { return all[i].String() < all[j].String() })
	s := ""
	for _, no := range all {
		if n := c.Get(no); n != 0 {
			s += fmt.Sprintf("\n\t#%s: %d", no, n)
		}
	}
	return s + "\n"
}
