// Package mem models physical memory as a refcounted arena of fixed-size
// frames, the same refcount discipline the teacher's Physmem_t enforces
// over real direct-mapped physical pages (mem/mem.go in the teacher repo),
// adapted here to plain Go-allocated arrays since this model has no
// hardware direct map to address frames through.
package mem

import "exocore/defs"

// Frame is a single physical page, addressable as a byte slice the way
// Pg_t/Bytepg_t are in the teacher: real contents, not a mock, so a page
// transferred between address spaces can be read back and compared in
// tests exactly as spec.md §8 expects.
type Frame [defs.PGSize]byte
