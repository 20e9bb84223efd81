// Command exoctl drives the exokernel dispatch core for demonstration
// and manual testing: it builds a Kernel, boots one or more environments,
// and runs scripted syscall sequences through kern.Dispatch — standing in
// for the hardware trap path and bootloader this core assumes but does
// not itself provide (spec.md's "Out of scope" list).
package main

import (
	"os"

	"exocore/cmd/exoctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
