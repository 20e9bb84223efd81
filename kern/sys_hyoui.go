package kern

import (
	"exocore/defs"
	"exocore/envtbl"
)

// sysEnvHyoui implements env_hyoui(envid): spec.md §4.6 — the caller
// atomically takes over another environment's identity. With checkperm
// on envid:
//  1. swap trapframes between caller and target
//  2. swap page directories between caller and target
//  3. destroy the target (which now holds the caller's original
//     tf/pgdir — the caller's old body is the one freed)
//  4. resume execution as the target would have, from the (new) caller
//
// This is the third "no return" handler: on success it yields a Resume
// outcome naming the trapframe to pop, never a Return. spec.md §9 flags
// a race between the pgdir swap and the hardware lcr3 reload in the
// original; this core closes it by running the entire sequence inside
// Dispatch's big-lock critical section, so there is no window where a
// second syscall could observe caller and target mid-swap (see
// DESIGN.md's Open Question decisions).
func sysEnvHyoui(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	if target.Id == caller.Id {
		return Err(defs.EINVAL)
	}

	caller.Trapframe, target.Trapframe = target.Trapframe, caller.Trapframe
	caller.AS, target.AS = target.AS, caller.AS

	k.Sched.Remove(target.Id)
	k.Table.Destroy(k.Alloc, target)

	resumed := caller.Trapframe
	return Resumed(&resumed)
}
