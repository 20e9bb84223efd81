// Package diag carries the fatal-fault classification and deduplicated
// stack-trace logging used when a handler discovers a caller has passed
// it a bad user pointer — the one error class spec.md §7 says must not
// surface as an ordinary negative return code.
package diag

import (
	"fmt"
	"runtime"
	"sync"
)

// Distinct tracks which call chains have already been logged once,
// adapted from the teacher's caller.Distinct_caller_t (caller/caller.go):
// the same poor-man's-hash-of-PCs dedup and function-name whitelist, kept
// so a hot fault path doesn't flood the log with an identical trace on
// every invocation.
type Distinct struct {
	mu      sync.Mutex
	Enabled bool
	seen    map[uintptr]bool
	Whitelist map[string]bool
}

func (d *Distinct) pchash(pcs []uintptr) uintptr {
	var ret uintptr
	for _, pc := range pcs {
		pc = pc*1103515245 + 12345
		ret ^= pc
	}
	return ret
}

// Check reports whether the chain calling Check (three frames up, past
// Check itself and its immediate caller) has been seen before, and if
// not, returns a formatted trace for the log. A whitelisted function
// anywhere in the chain suppresses logging entirely, same as the
// teacher's Whitel map.
func (d *Distinct) Check() (fresh bool, trace string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.Enabled {
		return false, ""
	}
	if d.seen == nil {
		d.seen = make(map[uintptr]bool)
	}
	pcs := make([]uintptr, 30)
	got := runtime.Callers(3, pcs)
	if got == 0 {
		return false, ""
	}
	pcs = pcs[:got]
	h := d.pchash(pcs)
	if d.seen[h] {
		return false, ""
	}
	d.seen[h] = true

	frames := runtime.CallersFrames(pcs)
	var trc string
	for {
		fr, more := frames.Next()
		if d.Whitelist[fr.Function] {
			return false, ""
		}
		if trc == "" {
			trc = fmt.Sprintf("%s (%s:%d)\n", fr.Function, fr.File, fr.Line)
		} else {
			trc += fmt.Sprintf("\t%s (%s:%d)\n", fr.Function, fr.File, fr.Line)
		}
		if !more || fr.Function == "runtime.goexit" {
			break
		}
	}
	return true, trc
}

// Len reports the number of distinct call chains recorded so far.
func (d *Distinct) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
