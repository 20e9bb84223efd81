package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"exocore/defs"
	"exocore/envtbl"
	"exocore/kern"
)

// replCmd is the interactive counterpart to the scripted demo
// subcommands: a line-oriented shell over kern.Dispatch that names
// environments through k.Names (exocore/registry) instead of requiring
// the operator to track raw envids by hand, the way kornnellio-runc-Go's
// namespace helpers let its CLI refer to containers by name rather than
// PID. Signal handling follows the same package's use of
// golang.org/x/sys/unix: SIGINT/SIGTERM print final stats and exit
// cleanly instead of leaving an interrupted prompt.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "interactive shell over the dispatch core, naming environments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(in io.Reader, out io.Writer) error {
	k := newDemoKernel()
	boot := k.BootEnv()
	k.Names.Set("init", boot.Id)
	fmt.Fprintln(out, "booted environment 'init'; type 'help' for commands")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, unix.SIGINT, unix.SIGTERM)
	go func() {
		<-sig
		fmt.Fprintln(out, "\n"+k.Stats.String())
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "exoctl> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			printReplHelp(out)
		case "fork":
			replFork(k, out, fields)
		case "alloc":
			replAlloc(k, out, fields)
		case "status":
			replStatus(k, out, fields)
		case "destroy":
			replDestroy(k, out, fields)
		case "list":
			replList(k, out)
		case "stats":
			fmt.Fprint(out, k.Stats.String())
		default:
			fmt.Fprintf(out, "unknown command %q; type 'help'\n", fields[0])
		}
	}
	return nil
}

func printReplHelp(out io.Writer) {
	fmt.Fprintln(out, "commands:")
	fmt.Fprintln(out, "  fork <parent-name> <child-name>     exofork, bind child-name to the result")
	fmt.Fprintln(out, "  alloc <name> <hex-va> <perm>         page_alloc in name's address space")
	fmt.Fprintln(out, "  status <name> <runnable|not_runnable> env_set_status")
	fmt.Fprintln(out, "  destroy <name>                        env_destroy")
	fmt.Fprintln(out, "  list                                  list bound names and envids")
	fmt.Fprintln(out, "  stats                                 per-syscall invocation counts")
	fmt.Fprintln(out, "  quit                                   exit the shell")
}

func replEnv(k *kern.Kernel, out io.Writer, name string) *envtbl.Env {
	id, ok := k.Names.Get(name)
	if !ok {
		fmt.Fprintf(out, "no environment bound to %q\n", name)
		return nil
	}
	env, err := k.Table.Resolve(id)
	if err != 0 {
		fmt.Fprintf(out, "%s: %v\n", name, err)
		return nil
	}
	return env
}

func replFork(k *kern.Kernel, out io.Writer, fields []string) {
	if len(fields) != 3 {
		fmt.Fprintln(out, "usage: fork <parent-name> <child-name>")
		return
	}
	parent := replEnv(k, out, fields[1])
	if parent == nil {
		return
	}
	res := k.Dispatch(parent, defs.SysExofork, 0, 0, 0, 0, 0)
	if res.Value < 0 {
		fmt.Fprintf(out, "exofork failed: %d\n", res.Value)
		return
	}
	k.Names.Set(fields[2], defs.EnvId(res.Value))
	fmt.Fprintf(out, "%s -> envid %#x\n", fields[2], res.Value)
}

func replAlloc(k *kern.Kernel, out io.Writer, fields []string) {
	if len(fields) != 4 {
		fmt.Fprintln(out, "usage: alloc <name> <hex-va> <perm>")
		return
	}
	env := replEnv(k, out, fields[1])
	if env == nil {
		return
	}
	va, err := strconv.ParseUint(strings.TrimPrefix(fields[2], "0x"), 16, 32)
	if err != nil {
		fmt.Fprintf(out, "bad va: %v\n", err)
		return
	}
	perm, err := strconv.ParseUint(fields[3], 0, 32)
	if err != nil {
		fmt.Fprintf(out, "bad perm: %v\n", err)
		return
	}
	res := k.Dispatch(env, defs.SysPageAlloc, uint32(env.Id), uint32(va), uint32(perm), 0, 0)
	fmt.Fprintf(out, "page_alloc -> %d\n", res.Value)
}

func replStatus(k *kern.Kernel, out io.Writer, fields []string) {
	if len(fields) != 3 {
		fmt.Fprintln(out, "usage: status <name> <runnable|not_runnable>")
		return
	}
	env := replEnv(k, out, fields[1])
	if env == nil {
		return
	}
	var status defs.Status
	switch fields[2] {
	case "runnable":
		status = defs.StatusRunnable
	case "not_runnable":
		status = defs.StatusNotRunnable
	default:
		fmt.Fprintln(out, "status must be 'runnable' or 'not_runnable'")
		return
	}
	res := k.Dispatch(env, defs.SysEnvSetStatus, uint32(env.Id), uint32(status), 0, 0, 0)
	fmt.Fprintf(out, "env_set_status -> %d\n", res.Value)
}

func replDestroy(k *kern.Kernel, out io.Writer, fields []string) {
	if len(fields) != 2 {
		fmt.Fprintln(out, "usage: destroy <name>")
		return
	}
	env := replEnv(k, out, fields[1])
	if env == nil {
		return
	}
	res := k.Dispatch(env, defs.SysEnvDestroy, uint32(env.Id), 0, 0, 0, 0)
	fmt.Fprintf(out, "env_destroy -> %d\n", res.Value)
}

func replList(k *kern.Kernel, out io.Writer) {
	for _, p := range k.Names.Elems() {
		fmt.Fprintf(out, "%s -> %#x\n", p.Name, p.Id)
	}
}
