// Package drivers provides the console, clock, and NIC ring-buffer
// bridges spec.md's "Out of scope" list names as external collaborators
// (console I/O, timer, NIC driver) — kern/sys_console.go and
// kern/sys_driver.go sit on top of these rather than talking to hardware
// directly.
package drivers

import (
	"sync"

	"exocore/defs"
)

// Ring is a fixed-capacity FIFO of frames, adapted from the
// teacher's circbuf.Circbuf_t (circbuf/circbuf.go) with the lazy
// page-backed allocation and Userio_i copy-in/copy-out machinery
// stripped out: NIC tx/rx buffers here are handed whole packets already
// copied out of user space by vm.AddressSpace (kern/sys_driver.go), so
// Ring only needs to queue and dequeue whole frames (of any length), not
// stream arbitrary byte ranges.
type Ring struct {
	mu    sync.Mutex
	frames [][]byte
	cap   int
}

// NewRing returns an empty ring able to hold up to capacity frames.
func NewRing(capacity int) *Ring {
	return &Ring{cap: capacity}
}

// Push enqueues frame, returning false (back-pressure) if the ring is
// full — net_try_transmit's "driver code... back-pressure error
// otherwise" per spec.md §4.7. Where Circbuf_t.Full compares head and
// tail, Ring compares the number of queued frames against its capacity.
func (r *Ring) Push(frame []byte) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) >= r.cap {
		return false
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	r.frames = append(r.frames, cp)
	return true
}

// Pop dequeues the oldest frame, or (nil, false) if the ring is empty —
// net_try_receive's "pop from rx ring".
func (r *Ring) Pop() ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil, false
	}
	f := r.frames[0]
	r.frames = r.frames[1:]
	return f, true
}

// Len reports the number of queued frames.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// DriverCode maps a Ring operation outcome onto the "driver code" spec.md
// §4.7 says net_try_transmit/net_try_receive return: 0 for success, a
// negative code otherwise.
func DriverCode(ok bool) defs.Err_t {
	if ok {
		return 0
	}
	return defs.EINVAL
}
