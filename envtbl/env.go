// Package envtbl is the environment table: the fixed-size registry of
// Env control blocks spec.md §3 describes, generation-tagged against
// slot reuse and guarded by checkperm. Grounded on spec.md §3 directly
// (no teacher package models a process table quite this way — biscuit's
// process table lives in a kernel/ package this exercise drops as
// filesystem-adjacent), but every embedded piece — Accnt, the free-list
// allocation discipline, Status semantics — is carried over from the
// teacher's actual code.
package envtbl

import (
	"exocore/accnt"
	"exocore/defs"
	"exocore/diag"
	"exocore/vm"
)

// IpcSlot is the one-slot synchronous rendezvous buffer described in
// spec.md §3/§4.5: ipc_recving/ipc_dstva/ipc_from/ipc_value/ipc_perm.
type IpcSlot struct {
	Recving bool
	DstVa   uintptr
	From    defs.EnvId
	Value   uint32
	Perm    defs.Perm
}

// Env is one environment control block: spec.md §3's table of essential
// attributes, plus the ambient-stack additions SPEC_FULL.md §3 adds
// (Accnt, Fault).
type Env struct {
	Id       defs.EnvId
	ParentId defs.EnvId
	Status   defs.Status

	Trapframe defs.Trapframe
	AS        *vm.AddressSpace
	Break     uintptr

	PgfaultUpcall uintptr

	Ipc IpcSlot

	// Accnt tracks user/sys CPU time, embedded unchanged from the
	// teacher's accnt.Accnt_t (now accnt.Accnt after renaming away from
	// the _t suffix convention this module doesn't otherwise use).
	Accnt accnt.Accnt

	// Fault replaces the teacher's tinfo.Tnote_t; see diag.Note's doc
	// comment for why the runtime.Gptr indirection was dropped.
	Fault diag.Note
}

// Runnable reports whether the environment is eligible for scheduling,
// matching the invariant in spec.md §3: a RUNNABLE env must have a
// complete trapframe and a non-nil address space, which this module
// guarantees by construction (every live Env always has both).
func (e *Env) Runnable() bool {
	return e.Status == defs.StatusRunnable
}
