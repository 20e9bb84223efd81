package kern

import (
	"exocore/defs"
	"exocore/envtbl"
)

// validateUserVA enforces spec.md §4.4's shared precondition: va must be
// below UTOP and page-aligned.
func (k *Kernel) validateUserVA(va uintptr) defs.Err_t {
	if !k.Config.InUserRange(uint32(va)) {
		return defs.EINVAL
	}
	if !k.Config.Aligned(uint32(va)) {
		return defs.EINVAL
	}
	return 0
}

// sysPageAlloc implements page_alloc(envid, va, perm): spec.md §4.4 —
// allocate a zeroed physical frame and insert it into envid's page
// directory at va with perm. On insert failure, free the frame before
// returning -ENOMEM (this model's Insert cannot itself fail once a
// frame exists, so the only failure before insertion is Alloc running
// out of frames).
func sysPageAlloc(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	va := uintptr(a[1])
	if err := k.validateUserVA(va); err != 0 {
		return Err(err)
	}
	perm, ok := defs.Perm(a[2]).Sanitize()
	if !ok {
		return Err(defs.EINVAL)
	}

	frame, ok := k.Alloc.Alloc()
	if !ok {
		k.Log.WithFields(map[string]interface{}{
			"env": caller.Id,
			"va":  va,
		}).Warn("page_alloc: frame arena exhausted")
		return Err(defs.ENOMEM)
	}
	target.AS.Insert(k.Alloc, va, frame, perm)
	// Insert took its own reference; drop the allocation-time one so the
	// mapping is the frame's sole owner, matching Page_insert's
	// "caller can simply Physmem.Refdown()" contract in the teacher.
	k.Alloc.Refdown(frame)
	return Ret(0)
}

// sysPageMap implements page_map(srcenvid, srcva, dstenvid, dstva, perm):
// spec.md §4.4 — resolve both envs with checkperm, validate both
// addresses, require an existing source mapping, reject a write-perm
// request against a read-only source (no privilege escalation), and
// insert the same physical frame into the destination.
func sysPageMap(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	src, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	srcva := uintptr(a[1])
	dst, err := k.Table.ResolveChecked(caller, defs.EnvId(a[2]))
	if err != 0 {
		return Err(err)
	}
	dstva := uintptr(a[3])

	if err := k.validateUserVA(srcva); err != 0 {
		return Err(err)
	}
	if err := k.validateUserVA(dstva); err != 0 {
		return Err(err)
	}
	perm, ok := defs.Perm(a[4]).Sanitize()
	if !ok {
		return Err(defs.EINVAL)
	}

	pte, ok := src.AS.Lookup(srcva)
	if !ok || !pte.Present() {
		return Err(defs.EINVAL)
	}
	if perm.Has(defs.WRITABLE) && !pte.Perm.Has(defs.WRITABLE) {
		return Err(defs.EINVAL)
	}

	dst.AS.Insert(k.Alloc, dstva, pte.Frame, perm)
	return Ret(0)
}

// sysPageUnmap implements page_unmap(envid, va): spec.md §4.4 —
// checkperm, validate address, remove mapping. An absent mapping is not
// an error.
func sysPageUnmap(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	target, err := k.Table.ResolveChecked(caller, defs.EnvId(a[0]))
	if err != 0 {
		return Err(err)
	}
	va := uintptr(a[1])
	if err := k.validateUserVA(va); err != 0 {
		return Err(err)
	}
	target.AS.Remove(k.Alloc, va)
	return Ret(0)
}
