package defs

// EnvId is an opaque handle to an environment. The low GenShift bits are
// the index of the environment's slot in the environment table; the
// remaining high bits are a generation counter bumped every time the slot
// is reused, so a stale handle into a recycled slot is distinguishable
// from a live one. Slot reuse with a generation bump mirrors the free-list
// index reuse in the teacher's mem.Physmem_t (mem/mem.go _phys_new /
// _phys_insert), carried here from physical pages to env-table slots.
type EnvId uint32

// GenShift is the number of low bits reserved for the table index. 1<<10
// environments is comfortably above any test fixture's needs while
// leaving 22 generation bits, i.e. about four million reuses of a given slot
// before the generation counter itself wraps.
const GenShift = 10

// MaxEnvs is the largest index representable in GenShift bits.
const MaxEnvs = 1 << GenShift

// PackEnvId combines a generation counter and a table index into an EnvId.
func PackEnvId(generation, index uint32) EnvId {
	return EnvId(generation<<GenShift | (index & (MaxEnvs - 1)))
}

// UnpackEnvId splits an EnvId back into its generation and index.
func UnpackEnvId(id EnvId) (generation, index uint32) {
	v := uint32(id)
	return v >> GenShift, v & (MaxEnvs - 1)
}

// NoEnv is the zero value, never a valid live environment id.
const NoEnv EnvId = 0
