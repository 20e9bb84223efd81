package kern

import (
	"exocore/envtbl"
)

// sysYield implements yield(): spec.md §4.1 — writes 0 into the caller's
// saved eax before yielding, so that upon resumption the syscall appears
// to have returned 0, then reschedules. This is the second of the three
// "no return" handlers (§9): the dispatcher must not separately write a
// return value for it.
func sysYield(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	caller.Trapframe.SetReturn(0)
	k.Sched.Enqueue(caller.Id)
	return Rescheduled()
}
