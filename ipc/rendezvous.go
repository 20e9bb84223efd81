// Package ipc implements the one-slot synchronous rendezvous protocol of
// spec.md §4.5: ipc_recv/ipc_try_send. No teacher package models this
// directly — biscuit's IPC lives inside its filesystem/process kernel
// package, which this exercise drops — so this is grounded straight on
// original_source/kern/syscall.c's sys_ipc_recv/sys_ipc_try_send, carried
// into Go as two plain functions operating on envtbl.Env/Table rather
// than C structs and a big global array.
package ipc

import (
	"exocore/defs"
	"exocore/envtbl"
	"exocore/mem"
)

// Recv prepares env to receive: sets Ipc.Recving/DstVa and marks the
// environment NOT_RUNNABLE. It does not block — spec.md §9 models
// "yield until woken" as the dispatcher returning Outcome{Reschedule}
// rather than this function looping — so Recv only validates dstva and
// flips the bookkeeping fields; kern/sys_ipc.go is responsible for
// returning the no-return Outcome.
func Recv(env *envtbl.Env, cfg defs.Config, dstva uintptr) defs.Err_t {
	if dstva < uintptr(cfg.Utop) && !cfg.Aligned(uint32(dstva)) {
		return defs.EINVAL
	}
	env.Ipc.Recving = true
	env.Ipc.DstVa = dstva
	env.Status = defs.StatusNotRunnable
	return 0
}

// TrySend implements the non-blocking send half. caller is not
// checkperm'd against target — any environment may attempt to send to
// any other, per spec.md §4.5 step 1. alloc is used to transfer the
// physical frame backing srcva into the receiver's address space when
// both sides opt in.
func TrySend(alloc *mem.Allocator, cfg defs.Config, caller, target *envtbl.Env, value uint32, srcva uintptr, perm defs.Perm) defs.Err_t {
	if !target.Ipc.Recving {
		return defs.EIPCNOTRECV
	}

	wantsPage := srcva < uintptr(cfg.Utop)
	if wantsPage {
		if !cfg.Aligned(uint32(srcva)) {
			return defs.EINVAL
		}
		sanitized, ok := perm.Sanitize()
		if !ok {
			return defs.EINVAL
		}
		perm = sanitized
		pte, ok := caller.AS.Lookup(srcva)
		if !ok || !pte.Present() {
			return defs.EINVAL
		}
		if perm.Has(defs.WRITABLE) && !pte.Perm.Has(defs.WRITABLE) {
			return defs.EINVAL
		}

		recvWants := target.Ipc.DstVa < uintptr(cfg.Utop)
		if recvWants {
			target.AS.Insert(alloc, target.Ipc.DstVa, pte.Frame, perm)
			target.Ipc.Perm = perm
		} else {
			target.Ipc.Perm = 0
		}
	} else {
		target.Ipc.Perm = 0
	}

	target.Ipc.Value = value
	target.Ipc.From = caller.Id
	target.Ipc.Recving = false
	target.Trapframe.SetReturn(0)
	target.Status = defs.StatusRunnable
	return 0
}
