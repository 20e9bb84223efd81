package kern

import (
	"sync"

	"github.com/sirupsen/logrus"

	"exocore/accnt"
	"exocore/defs"
	"exocore/diag"
	"exocore/drivers"
	"exocore/envtbl"
	"exocore/limits"
	"exocore/mem"
	"exocore/registry"
	"exocore/sched"
	"exocore/stats"
)

// Kernel is the explicit context structure spec.md §9's REDESIGN FLAGS
// asks for in place of the original's free-floating globals (the
// environment table, current-env pointer, and big kernel lock were
// process-wide singletons in original_source/kern/syscall.c). Every
// handler in sys_*.go receives *Kernel plus the calling *envtbl.Env
// explicitly; nothing here is package-level mutable state.
type Kernel struct {
	// mu is the big kernel lock: spec.md §5 says all syscall execution
	// is serialized by a single lock, held for the full duration of
	// Dispatch including env_hyoui's swap-then-destroy sequence (closing
	// the race spec.md §9 flags as an open question).
	mu sync.Mutex

	Config  defs.Config
	Table   *envtbl.Table
	Alloc   *mem.Allocator
	Sched   sched.Scheduler
	Console *drivers.Console
	NIC     *drivers.NIC
	Clock   *drivers.Clock
	Limits  *limits.Syslimit
	Stats   *stats.Counters
	Faults  diag.Distinct
	// Names lets cmd/exoctl's interactive demos refer to environments by
	// a friendly name instead of an opaque envid; the dispatch core never
	// consults it itself.
	Names *registry.Registry

	Log *logrus.Logger
}

// NewKernel wires up a kernel from cfg, sized to allow up to
// cfg.MaxEnvs live environments and arenaFrames physical frames.
func NewKernel(cfg defs.Config, arenaFrames int, nicMAC [6]byte, log *logrus.Logger) *Kernel {
	if log == nil {
		log = logrus.New()
	}
	lim := limits.NewSyslimit(cfg.MaxEnvs)
	k := &Kernel{
		Config:  cfg,
		Table:   envtbl.NewTable(cfg, lim),
		Alloc:   mem.NewAllocator(arenaFrames),
		Sched:   sched.NewRoundRobin(),
		Console: drivers.NewConsole(),
		NIC:     drivers.NewNIC(nicMAC, 64),
		Clock:   drivers.NewClock(),
		Limits:  lim,
		Stats:   stats.NewCounters(),
		Names:   registry.New(16),
		Log:     log,
	}
	k.Faults.Enabled = true
	return k
}

// BootEnv allocates the first environment, parented to itself (there is
// no creator), the way the original boot path hands control to the
// first user image. Tests and cmd/exoctl use this as their entry point
// into a fresh kernel.
func (k *Kernel) BootEnv() *envtbl.Env {
	env, err := k.Table.Alloc(defs.NoEnv)
	if err != 0 {
		panic("kern: failed to allocate boot environment")
	}
	env.ParentId = env.Id
	env.Status = defs.StatusRunnable
	return env
}

// accountEntry starts per-syscall accounting, returning the nanosecond
// timestamp Dispatch passes to accnt.Accnt.Finish on the way out.
func accountEntry(a *accnt.Accnt) int64 {
	return a.Now()
}

// FrameAt resolves va in env's address space to the live frame backing
// it, the moral equivalent of a user-mode load/store instruction: unlike
// cputs/net_try_transmit, ordinary memory access in a real exokernel
// system never goes through a syscall at all, only establishing or
// tearing down the mapping does. cmd/exoctl's demo harness uses this to
// plant and read back sentinel values the way a user program's mov
// instructions would.
func (k *Kernel) FrameAt(env *envtbl.Env, va uintptr) (*mem.Frame, uintptr, bool) {
	base, off := env.AS.SplitVA(va)
	pte, ok := env.AS.Lookup(base)
	if !ok || !pte.Present() {
		return nil, 0, false
	}
	return k.Alloc.Frame(pte.Frame), off, true
}
