package vm

import (
	"exocore/defs"
	"exocore/mem"
)

// uaccess.go is the map-based address space's analogue of
// Userdmap8_inner/Userreadn/Userwriten/Userstr/K2user/User2k in the
// teacher's vm/as.go: every kernel handler that touches user memory goes
// through one of these instead of dereferencing a raw Go pointer, so a
// bad address always turns into a defs.Err_t (defs.EFAULT for an unmapped
// or insufficiently permitted page) rather than a real segfault. The kern
// handlers turn that code into the fatal diag.Fault the dispatcher
// recovers (see kern/dispatch.go).

// pageOf splits a virtual address into its page-aligned base and
// in-page offset, the same split Userdmap8_inner does with PGOFFSET.
func (as *AddressSpace) pageOf(va uintptr) (base uintptr, off uintptr) {
	mask := uintptr(as.cfg.PageMask())
	return va &^ mask, va & mask
}

// SplitVA is the exported form of pageOf, used outside the package by
// callers (cmd/exoctl's demo harness) that need to resolve a raw memory
// access rather than go through CopyIn/CopyOut.
func (as *AddressSpace) SplitVA(va uintptr) (base uintptr, off uintptr) {
	return as.pageOf(va)
}

// translate resolves va to a writable byte slice within its backing
// frame, honoring want (defs.WRITABLE to request a writable mapping).
// It is the direct equivalent of Userdmap8_inner, minus the on-demand
// page-fault path: this model's pages are inserted eagerly by
// sys_page_alloc/sys_page_map, so an unmapped page here is always a
// genuine EFAULT rather than something a fault handler could fix up.
func (as *AddressSpace) translate(alloc *mem.Allocator, va uintptr, want defs.Perm) ([]byte, defs.Err_t) {
	base, off := as.pageOf(va)
	pte, ok := as.Lookup(base)
	if !ok || !pte.Present() {
		return nil, defs.EFAULT
	}
	if want != 0 && !pte.Perm.Has(want) {
		return nil, defs.EFAULT
	}
	frame := alloc.Frame(pte.Frame)
	return frame[off:], 0
}

// CopyIn copies len(dst) bytes from the user address va into dst,
// crossing page boundaries as needed (Userreadn's multi-page loop,
// generalized from its 8-byte cap to an arbitrary length for Cputs-style
// buffers).
func (as *AddressSpace) CopyIn(alloc *mem.Allocator, va uintptr, dst []byte) defs.Err_t {
	for len(dst) > 0 {
		src, err := as.translate(alloc, va, 0)
		if err != 0 {
			return err
		}
		n := copy(dst, src)
		dst = dst[n:]
		va += uintptr(n)
	}
	return 0
}

// CopyOut writes src into the user address va, requiring the destination
// page be mapped writable — K2user's behavior, minus the COW-fault
// upgrade path for the same reason translate omits it.
func (as *AddressSpace) CopyOut(alloc *mem.Allocator, va uintptr, src []byte) defs.Err_t {
	for len(src) > 0 {
		dst, err := as.translate(alloc, va, defs.WRITABLE)
		if err != 0 {
			return err
		}
		n := copy(dst, src)
		src = src[n:]
		va += uintptr(n)
	}
	return 0
}

// ReadCString copies a NUL-terminated string starting at va, up to
// lenmax bytes, mirroring Userstr's accumulate-until-NUL loop and its
// ENAMETOOLONG boundary.
func (as *AddressSpace) ReadCString(alloc *mem.Allocator, va uintptr, lenmax int) (string, defs.Err_t) {
	if lenmax < 0 {
		return "", 0
	}
	out := make([]byte, 0, 64)
	for {
		chunk, err := as.translate(alloc, va, 0)
		if err != 0 {
			return "", err
		}
		for i, c := range chunk {
			if len(out)+i >= lenmax {
				return "", defs.ENAMETOOLONG
			}
			if c == 0 {
				out = append(out, chunk[:i]...)
				return string(out), 0
			}
		}
		out = append(out, chunk...)
		va += uintptr(len(chunk))
		if len(out) >= lenmax {
			return "", defs.ENAMETOOLONG
		}
	}
}
