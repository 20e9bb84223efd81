package cli

import (
	"exocore/defs"
	"exocore/kern"
)

// newDemoKernel builds a small kernel suitable for the demo subcommands:
// a default Config, a modest frame arena, and a fixed demo MAC.
func newDemoKernel() *kern.Kernel {
	cfg := defs.DefaultConfig()
	return kern.NewKernel(cfg, 4096, [6]byte{0x52, 0x54, 0x00, 0x12, 0x34, 0x56}, Log)
}
