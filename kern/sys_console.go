package kern

import (
	"exocore/diag"
	"exocore/drivers"
	"exocore/envtbl"
)

// sysCputs implements cputs(s, len): spec.md §4.2 — validate [s, s+len)
// is user-readable, write verbatim to the console, destroying the caller
// fatally on bad memory (original_source/kern/syscall.c's sys_cputs calls
// user_mem_assert, which kills the environment on failure; this model
// expresses that as a diag.Fault panic the dispatcher recovers).
func sysCputs(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	va, length := uintptr(a[0]), int(a[1])
	buf := make([]byte, length)
	if err := caller.AS.CopyIn(k.Alloc, va, buf); err != 0 {
		diag.Raise(uint32(caller.Id), "cputs: unreadable user buffer")
	}
	k.Console.Write(buf)
	k.Log.WithFields(map[string]interface{}{
		"env":    caller.Id,
		"device": drivers.DeviceConsole,
	}).Debug("cputs")
	return Ret(0)
}

// sysCgetc implements cgetc(): non-blocking, returns the next queued
// character or 0.
func sysCgetc(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	c := k.Console.Getc()
	k.Log.WithFields(map[string]interface{}{
		"env":    caller.Id,
		"device": drivers.DeviceConsole,
	}).Debug("cgetc")
	return Ret(int32(c))
}

// sysGetenvid implements getenvid(): returns the caller's own id.
func sysGetenvid(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	return Ret(int32(caller.Id))
}

// sysTimeMsec implements time_msec(): the monotonic millisecond counter.
func sysTimeMsec(k *Kernel, caller *envtbl.Env, a [5]uint32) Outcome {
	return Ret(int32(k.Clock.Msec()))
}
