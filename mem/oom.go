package mem

// OomMsg is sent on an Allocator's Oom channel when Alloc finds the arena
// exhausted, naming how many frames the caller needed and carrying a
// Resume channel the notified party signals on once it has freed
// something. Adapted from oommsg.Oommsg_t/OomCh in the teacher repo,
// narrowed from a package-level global to a field on Allocator so tests
// can run multiple independent arenas without cross-talk.
type OomMsg struct {
	Need   int
	Resume chan bool
}

// NotifyOom sends an OomMsg on ch without blocking if nothing is
// listening, and returns the Resume channel a listener can signal once
// memory is reclaimed. Allocator.Alloc calls this on every exhausted
// free list so a monitoring goroutine can react; nothing in this module
// listens on it outside tests, and nothing in this package assumes a
// listener exists.
func NotifyOom(ch chan<- OomMsg, need int) chan bool {
	resume := make(chan bool, 1)
	select {
	case ch <- OomMsg{Need: need, Resume: resume}:
	default:
	}
	return resume
}
