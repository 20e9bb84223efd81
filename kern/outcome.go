// Package kern is the syscall dispatch core: the big-kernel-lock
// Kernel type, the number-to-handler dispatch table, and the handler
// functions themselves (sys_*.go). Grounded directly on
// original_source/kern/syscall.c's syscall()/syscall_tf() dispatch and
// its individual sys_* functions — no teacher example repo models an
// exokernel syscall layer, so the control-flow shape here (Outcome
// tagging, Kernel as an explicit context struct instead of globals) is
// this module's own translation of spec.md §9's redesign guidance, while
// the per-handler validation order and error codes follow the original
// C line for line.
package kern

import "exocore/defs"

// OutcomeKind tags how a dispatched syscall hands control back, replacing
// the original's conflation of "return a value" with "pop a trapframe"
// (spec.md §9, REDESIGN FLAGS).
type OutcomeKind int

const (
	// Return means the dispatcher should write Value into the caller's
	// eax and resume the caller normally.
	Return OutcomeKind = iota
	// Resume means the caller's own trapframe must not be touched: a
	// different environment (possibly the caller itself, reconfigured)
	// should be resumed from Trapframe instead. Used only by a
	// successful env_hyoui.
	Resume
	// Reschedule means the calling environment has gone to sleep
	// (ipc_recv), yielded, or been destroyed by a fatal fault, and the
	// scheduler must pick some other runnable environment; there is no
	// trapframe to resume right now.
	Reschedule
)

// Outcome is what every syscall handler returns instead of a bare
// defs.Err_t, so the dispatcher can route control deterministically
// without inspecting which syscall number ran.
type Outcome struct {
	Kind      OutcomeKind
	Value     int32
	Trapframe *defs.Trapframe
}

// Ret builds a Return outcome carrying v as the syscall's result.
func Ret(v int32) Outcome {
	return Outcome{Kind: Return, Value: v}
}

// Err builds a Return outcome carrying an error code.
func Err(e defs.Err_t) Outcome {
	return Outcome{Kind: Return, Value: int32(e)}
}

// Resumed builds a Resume outcome carrying the trapframe to pop.
func Resumed(tf *defs.Trapframe) Outcome {
	return Outcome{Kind: Resume, Trapframe: tf}
}

// Rescheduled builds a Reschedule outcome.
func Rescheduled() Outcome {
	return Outcome{Kind: Reschedule}
}
