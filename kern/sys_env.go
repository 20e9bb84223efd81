package kern

import (
	"unsafe"

	"exocore/defs"
	"exocore/diag"
	"exocore/envtbl"
)

// sysEnvDestroy implements env_destroy(envid): spec.md §4.3 — resolve
// with checkperm, log, destroy.
func sysEnvDestroy(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	entry := k.Log.WithFields(map[string]interface{}{
		"env":       caller.Id,
		"destroyed": target.Id,
	})
	if target.Id == caller.Id {
		entry.Info("env_destroy: exiting gracefully")
	} else {
		entry.Info("env_destroy: destroying environment")
	}
	k.Table.Destroy(k.Alloc, target)
	k.Sched.Remove(target.Id)
	return Ret(0)
}

// sysExofork implements exofork(): spec.md §4.3 — allocate a new env
// with parent = caller.id, copy caller's trapframe verbatim, overwrite
// the child's saved eax with 0 so it returns 0 from the syscall, and
// leave it NOT_RUNNABLE until the parent explicitly schedules it.
func sysExofork(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	child, err := k.Table.Alloc(caller.Id)
	if err != 0 {
		return Err(err)
	}
	child.Trapframe = caller.Trapframe
	child.Trapframe.SetReturn(0)
	child.Status = defs.StatusNotRunnable
	return Ret(int32(child.Id))
}

// sysEnvSetStatus implements env_set_status(envid, status): spec.md
// §4.3 — checkperm, accept only RUNNABLE or NOT_RUNNABLE.
func sysEnvSetStatus(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	status := defs.Status(a[1])
	if status != defs.StatusRunnable && status != defs.StatusNotRunnable {
		return Err(defs.EINVAL)
	}
	target.Status = status
	if status == defs.StatusRunnable {
		k.Sched.Enqueue(target.Id)
	} else {
		k.Sched.Remove(target.Id)
	}
	return Ret(0)
}

// sysEnvSetTrapframe implements env_set_trapframe(envid, tf*): spec.md
// §4.3 — validate tf is readable in the caller, checkperm, copy, then
// unconditionally harden the user-mode selectors and interrupt flag so
// the caller cannot smuggle kernel-mode state into the target.
func sysEnvSetTrapframe(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	var tf defs.Trapframe
	buf := (*[unsafe.Sizeof(tf)]byte)(unsafe.Pointer(&tf))[:]
	if cerr := caller.AS.CopyIn(k.Alloc, uintptr(a[1]), buf); cerr != 0 {
		diag.Raise(uint32(caller.Id), "env_set_trapframe: unreadable trapframe")
	}

	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}

	tf.HardenUserMode()
	target.Trapframe = tf
	return Ret(0)
}

// sysEnvSetPgfaultUpcall implements env_set_pgfault_upcall(envid, func):
// spec.md §4.3 — checkperm, store func verbatim; it is only validated
// when a fault actually occurs (outside this core's scope, per spec.md's
// "Out of scope" list).
func sysEnvSetPgfaultUpcall(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	target.PgfaultUpcall = uintptr(a[1])
	return Ret(0)
}

// sysSbrk implements sbrk(inc): spec.md §4.3 — round inc up to a page
// multiple, back-allocate pages covering [break, break+rounded) in the
// caller's address space, advance break, return the new break. OOM here
// is fatal, not a recoverable error — the spec is explicit that there is
// "no explicit error path" for this one.
func sysSbrk(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	inc := int(int32(a[0]))
	if inc < 0 {
		return Err(defs.EINVAL)
	}
	pageSize := uintptr(k.Config.PageSize)
	rounded := (uintptr(inc) + pageSize - 1) &^ (pageSize - 1)

	base := caller.Break
	for va := base; va < base+rounded; va += pageSize {
		frame, ok := k.Alloc.Alloc()
		if !ok {
			k.Log.WithFields(map[string]interface{}{
				"env": caller.Id,
				"va":  va,
			}).Warn("sbrk: frame arena exhausted")
			diag.Raise(uint32(caller.Id), "sbrk: out of memory")
		}
		caller.AS.Insert(k.Alloc, va, frame, defs.Forced|defs.WRITABLE)
		k.Alloc.Refdown(frame)
	}
	caller.Break = base + rounded
	return Ret(int32(caller.Break))
}

// sysMapKernelPage implements map_kernel_page(...): spec.md §9 flags
// this syscall's safety envelope as an open question and instructs
// "do not reimplement without narrowing callers." This core honors that
// by always rejecting the call (see DESIGN.md's Open Question
// decisions) rather than exposing a raw kernel-to-user mapping.
func sysMapKernelPage(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	return Err(defs.EINVAL)
}
