package kern

import (
	"exocore/defs"
	"exocore/diag"
	"exocore/envtbl"
)

// handlerFunc is the uniform signature every sys_*.go function
// implements: the syscall's five untyped argument words in, one Outcome
// out. Matches spec.md §4.1's "arguments are untyped words; each handler
// casts/validates as appropriate".
type handlerFunc func(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome

var dispatchTable = map[defs.SyscallNo]handlerFunc{
	defs.SysCputs:               sysCputs,
	defs.SysCgetc:               sysCgetc,
	defs.SysGetenvid:            sysGetenvid,
	defs.SysEnvDestroy:          sysEnvDestroy,
	defs.SysMapKernelPage:       sysMapKernelPage,
	defs.SysSbrk:                sysSbrk,
	defs.SysYield:                sysYield,
	defs.SysExofork:             sysExofork,
	defs.SysEnvSetStatus:        sysEnvSetStatus,
	defs.SysPageAlloc:           sysPageAlloc,
	defs.SysPageMap:             sysPageMap,
	defs.SysPageUnmap:           sysPageUnmap,
	defs.SysEnvSetPgfaultUpcall: sysEnvSetPgfaultUpcall,
	defs.SysIpcTrySend:          sysIpcTrySend,
	defs.SysIpcRecv:             sysIpcRecv,
	defs.SysEnvSetTrapframe:     sysEnvSetTrapframe,
	defs.SysEnvHyoui:            sysEnvHyoui,
	defs.SysTimeMsec:            sysTimeMsec,
	defs.SysNetTryTransmit:      sysNetTryTransmit,
	defs.SysNetTryReceive:       sysNetTryReceive,
	defs.SysNetMac:              sysNetMac,
}

// Dispatch is the syscall() entry point of spec.md §4.1: it matches
// number against the registered set, runs the handler under the big
// kernel lock, and recovers a fatal diag.Fault into a Reschedule outcome
// (the caller no longer exists to return to). A thin wrapper — the
// "copies the hardware trapframe... acquires the big kernel lock"
// language of spec.md §4.1 — is cmd/exoctl's demo harness in this
// userspace rendition; Dispatch itself begins already holding caller's
// trapframe and releases the lock implicitly on return.
func (k *Kernel) Dispatch(caller *envtbl.Env, number defs.SyscallNo, a1, a2, a3, a4, a5 uint32) (outcome Outcome) {
	k.mu.Lock()
	defer k.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(*diag.Fault)
			if !ok {
				panic(r)
			}
			k.handleFault(caller, fault)
			outcome = Rescheduled()
		}
	}()

	entry := accountEntry(&caller.Accnt)
	defer caller.Accnt.Finish(entry)

	k.Stats.Inc(number)

	handler, ok := dispatchTable[number]
	if !ok {
		k.Log.WithFields(map[string]interface{}{
			"env":     caller.Id,
			"syscall": uint32(number),
		}).Warn("unknown syscall number")
		return Err(defs.EINVAL)
	}

	k.Log.WithFields(map[string]interface{}{
		"env":     caller.Id,
		"syscall": number.String(),
	}).Debug("dispatch")

	return handler(k, caller, [5]uint32{a1, a2, a3, a4, a5})
}

// handleFault destroys the faulting environment and logs a deduplicated
// stack trace via k.Faults, the Go-typed equivalent of
// original_source/kern/syscall.c's scattered "env_destroy(e)" calls on a
// bad user pointer (spec.md §7's fatal/caller-malicious class).
func (k *Kernel) handleFault(caller *envtbl.Env, fault *diag.Fault) {
	caller.Fault.Killed = true
	if fresh, trace := k.Faults.Check(); fresh {
		k.Log.WithFields(map[string]interface{}{
			"env":    caller.Id,
			"reason": fault.Reason,
		}).Errorf("fatal fault, destroying environment:\n%s", trace)
	} else {
		k.Log.WithField("env", caller.Id).Warn("fatal fault, destroying environment")
	}
	k.Table.Destroy(k.Alloc, caller)
	k.Sched.Remove(caller.Id)
}
