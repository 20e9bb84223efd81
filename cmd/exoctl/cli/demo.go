package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"exocore/defs"
	"exocore/envtbl"
	"exocore/kern"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "run a scripted syscall scenario against a fresh kernel",
}

func init() {
	demoCmd.AddCommand(demoForkCmd, demoCowRefusedCmd, demoIPCCmd, demoIPCRaceCmd)
	rootCmd.AddCommand(demoCmd)
}

const sentinelVA = 0x00400000

// demoForkCmd walks through spec.md §8's fork-style page-sharing
// scenario end to end: exofork, page_alloc + write a sentinel, page_map
// read-only into the child, and verify the child observes the parent's
// value.
var demoForkCmd = &cobra.Command{
	Use:   "fork",
	Short: "fork-style page sharing via exofork + page_map",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFork(newDemoKernel())
	},
}

// runFork runs the fork-and-share scenario against k, letting stats.go
// share a single kernel's counters across a scripted run instead of each
// subcommand standing up its own.
func runFork(k *kern.Kernel) error {
	parent := k.BootEnv()
	k.Names.Set("parent", parent.Id)

	out := k.Dispatch(parent, defs.SysExofork, 0, 0, 0, 0, 0)
	if out.Value < 0 {
		return fmt.Errorf("exofork failed: %d", out.Value)
	}
	child, err := k.Table.Resolve(defs.EnvId(out.Value))
	if err != 0 {
		return fmt.Errorf("resolve child: %v", err)
	}
	k.Names.Set("child", child.Id)

	perm := uint32(defs.WRITABLE)
	out = k.Dispatch(parent, defs.SysPageAlloc, uint32(parent.Id), sentinelVA, perm, 0, 0)
	if out.Value < 0 {
		return fmt.Errorf("page_alloc failed: %d", out.Value)
	}

	frame, off, ok := k.FrameAt(parent, sentinelVA)
	if !ok {
		return fmt.Errorf("sentinel page not mapped after page_alloc")
	}
	frame[off] = 0x42

	out = k.Dispatch(parent, defs.SysPageMap, uint32(parent.Id), sentinelVA, uint32(child.Id), sentinelVA, uint32(defs.USER))
	if out.Value < 0 {
		return fmt.Errorf("page_map failed: %d", out.Value)
	}

	out = k.Dispatch(parent, defs.SysEnvSetStatus, uint32(child.Id), uint32(defs.StatusRunnable), 0, 0, 0)
	if out.Value < 0 {
		return fmt.Errorf("env_set_status failed: %d", out.Value)
	}

	childFrame, childOff, ok := k.FrameAt(child, sentinelVA)
	if !ok {
		return fmt.Errorf("child does not observe the shared page")
	}
	fmt.Printf("parent wrote 0x42, child observes 0x%02x\n", childFrame[childOff])
	return nil
}

// demoCowRefusedCmd demonstrates the no-privilege-escalation guard in
// page_map: requesting WRITABLE against a read-only source mapping must
// fail with -EINVAL (spec.md §4.4).
var demoCowRefusedCmd = &cobra.Command{
	Use:   "cow-refused",
	Short: "page_map refuses to escalate a read-only mapping to writable",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := newDemoKernel()
		parent := k.BootEnv()
		out := k.Dispatch(parent, defs.SysExofork, 0, 0, 0, 0, 0)
		child, _ := k.Table.Resolve(defs.EnvId(out.Value))

		out = k.Dispatch(parent, defs.SysPageAlloc, uint32(parent.Id), sentinelVA, 0, 0, 0)
		if out.Value < 0 {
			return fmt.Errorf("page_alloc failed: %d", out.Value)
		}

		out = k.Dispatch(parent, defs.SysPageMap, uint32(parent.Id), sentinelVA, uint32(child.Id), sentinelVA, uint32(defs.WRITABLE))
		if out.Value != int32(defs.EINVAL) {
			return fmt.Errorf("expected -EINVAL, got %d", out.Value)
		}
		fmt.Println("page_map correctly refused the write-escalation request")
		return nil
	},
}

// demoIPCCmd walks through a basic send/receive rendezvous: the receiver
// calls ipc_recv (reschedules), a sender calls ipc_try_send with a srcva
// at UTOP (value only, no page), and the receiver observes the delivered
// value.
var demoIPCCmd = &cobra.Command{
	Use:   "ipc",
	Short: "basic ipc_recv / ipc_try_send rendezvous",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := newDemoKernel()
		receiver := k.BootEnv()
		out := k.Dispatch(receiver, defs.SysExofork, 0, 0, 0, 0, 0)
		sender, _ := k.Table.Resolve(defs.EnvId(out.Value))
		sender.Status = defs.StatusRunnable

		recvOut := k.Dispatch(receiver, defs.SysIpcRecv, 0, 0, 0, 0, 0)
		if recvOut.Kind != kern.Reschedule {
			return fmt.Errorf("expected ipc_recv to reschedule")
		}

		sendOut := k.Dispatch(sender, defs.SysIpcTrySend, uint32(receiver.Id), 99, k.Config.Utop, 0, 0)
		if sendOut.Value != 0 {
			return fmt.Errorf("ipc_try_send failed: %d", sendOut.Value)
		}

		fmt.Printf("receiver got value=%d from=%#x, status=%s\n",
			receiver.Ipc.Value, receiver.Ipc.From, receiver.Status)
		return nil
	},
}

// demoIPCRaceCmd exercises spec.md §4.5's atomicity guarantee under
// real concurrency: two senders race to deliver to the same receiver;
// exactly one must succeed and the other must observe -EIPCNOTRECV.
// Uses golang.org/x/sync/errgroup to run both sends concurrently and
// collect whichever error (if any) a goroutine returns.
var demoIPCRaceCmd = &cobra.Command{
	Use:   "ipc-race",
	Short: "two concurrent senders race for one receive slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := newDemoKernel()
		receiver := k.BootEnv()

		senders := make([]*envtbl.Env, 2)
		for i := range senders {
			out := k.Dispatch(receiver, defs.SysExofork, 0, 0, 0, 0, 0)
			senders[i], _ = k.Table.Resolve(defs.EnvId(out.Value))
			senders[i].Status = defs.StatusRunnable
		}

		k.Dispatch(receiver, defs.SysIpcRecv, 0, 0, 0, 0, 0)

		var g errgroup.Group
		results := make([]int32, len(senders))
		for i, s := range senders {
			i, s := i, s
			g.Go(func() error {
				out := k.Dispatch(s, defs.SysIpcTrySend, uint32(receiver.Id), uint32(100+i), k.Config.Utop, 0, 0)
				results[i] = out.Value
				return nil
			})
		}
		_ = g.Wait()

		wins, losses := 0, 0
		for _, r := range results {
			if r == 0 {
				wins++
			} else if r == int32(defs.EIPCNOTRECV) {
				losses++
			}
		}
		fmt.Printf("wins=%d losses=%d (expect 1 and %d)\n", wins, losses, len(senders)-1)
		if wins != 1 || losses != len(senders)-1 {
			return fmt.Errorf("rendezvous atomicity violated")
		}
		return nil
	},
}
