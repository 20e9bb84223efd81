// Package vm models a single environment's address space as a software
// page table, adapted from the teacher's Vm_t (vm/as.go) and Pmap_t
// (mem/mem.go) — a map keyed by virtual address standing in for the
// teacher's real x86 page-table walk, since this model has no CR3 or
// hardware TLB to program.
package vm

import (
	"exocore/defs"
	"exocore/mem"
)

// PTE is one page-table entry: the frame it maps plus the permission bits
// a user syscall is allowed to set (defs.Perm), named after the teacher's
// PTE_P/PTE_W/PTE_U constants in mem/mem.go but carried as a defs.Perm
// rather than packed into the frame address's low bits, since Go map keys
// need no such packing trick.
type PTE struct {
	Frame mem.FrameNo
	Perm  defs.Perm
}

// Present reports whether the entry maps a frame at all.
func (p PTE) Present() bool {
	return p.Frame != mem.NoFrame
}
