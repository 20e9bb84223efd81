package drivers

import "time"

// Clock supplies the monotonic millisecond counter time_msec() reads
// (spec.md §4.7). No teacher package is grounded here — biscuit reads a
// hardware TSC/PIT directly, which this model has no equivalent of — so
// this is a deliberate stdlib-only component: time.Now's monotonic
// reading is the correct tool for "milliseconds since an arbitrary
// epoch" and no third-party clock library in the retrieval pack offers
// anything beyond what it already does.
type Clock struct {
	start time.Time
}

// NewClock starts a clock whose epoch is the moment of construction.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Msec returns milliseconds elapsed since the clock was constructed.
func (c *Clock) Msec() int64 {
	return time.Since(c.start).Milliseconds()
}
