package kern

import (
	"exocore/defs"
	"exocore/envtbl"
	"exocore/ipc"
)

// sysIpcRecv implements ipc_recv(dstva): spec.md §4.5 — validate dstva,
// mark the caller recv-pending and NOT_RUNNABLE, and yield. This is one
// of the three "no return" handlers spec.md §4.1/§9 calls out: the
// dispatcher must not write a return value into the caller's trapframe,
// since the eventual 0 comes from whichever sender wakes it (see
// ipc.TrySend's target.Trapframe.SetReturn(0)).
func sysIpcRecv(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	if err := ipc.Recv(caller, k.Config, uintptr(a[0])); err != 0 {
		return Err(err)
	}
	k.Sched.Remove(caller.Id)
	return Rescheduled()
}

// sysIpcTrySend implements ipc_try_send(envid, value, srcva, perm):
// spec.md §4.5 — resolve the target without checkperm (any environment
// may attempt to send), and run the non-blocking rendezvous protocol.
func sysIpcTrySend(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.Resolve(defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	value := a[1]
	srcva := uintptr(a[2])
	perm := defs.Perm(a[3])

	if err := ipc.TrySend(k.Alloc, k.Config, caller, target, value, srcva, perm); err != 0 {
		return Err(err)
	}
	k.Sched.Enqueue(target.Id)
	return Ret(0)
}
