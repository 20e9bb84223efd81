package envtbl

import "testing"

import "github.com/stretchr/testify/assert"

import (
	"exocore/defs"
	"exocore/limits"
	"exocore/mem"
)

func newTestTable(maxEnvs int) *Table {
	cfg := defs.DefaultConfig()
	cfg.MaxEnvs = maxEnvs
	return NewTable(cfg, limits.NewSyslimit(maxEnvs))
}

func TestAllocAssignsParent(t *testing.T) {
	tbl := newTestTable(4)
	root, err := tbl.Alloc(defs.NoEnv)
	assert.Equal(t, defs.Err_t(0), err)

	child, err := tbl.Alloc(root.Id)
	assert.Equal(t, defs.Err_t(0), err)
	assert.Equal(t, root.Id, child.ParentId)
}

func TestAllocExhaustion(t *testing.T) {
	tbl := newTestTable(1)
	_, err := tbl.Alloc(defs.NoEnv)
	assert.Equal(t, defs.Err_t(0), err)

	_, err = tbl.Alloc(defs.NoEnv)
	assert.Equal(t, defs.ENOFREE, err)
}

func TestResolveRejectsStaleGeneration(t *testing.T) {
	tbl := newTestTable(2)
	env, _ := tbl.Alloc(defs.NoEnv)
	staleId := env.Id
	tbl.Destroy(mem.NewAllocator(4), env)

	_, err := tbl.Resolve(staleId)
	assert.Equal(t, defs.EBADENV, err, "a destroyed slot's old envid must not resolve")
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	tbl := newTestTable(1)
	alloc := mem.NewAllocator(4)

	first, _ := tbl.Alloc(defs.NoEnv)
	firstId := first.Id
	tbl.Destroy(alloc, first)

	second, _ := tbl.Alloc(defs.NoEnv)
	assert.NotEqual(t, firstId, second.Id, "a recycled slot must carry a new generation")

	_, idx1 := defs.UnpackEnvId(firstId)
	_, idx2 := defs.UnpackEnvId(second.Id)
	assert.Equal(t, idx1, idx2, "same table has only one slot, so the index itself recurs")
}

func TestCheckPerm(t *testing.T) {
	tbl := newTestTable(4)
	parent, _ := tbl.Alloc(defs.NoEnv)
	child, _ := tbl.Alloc(parent.Id)
	stranger, _ := tbl.Alloc(defs.NoEnv)

	assert.True(t, CheckPerm(parent, child))
	assert.True(t, CheckPerm(child, child))
	assert.False(t, CheckPerm(stranger, child))
}

func TestResolveCheckedRejectsNonParent(t *testing.T) {
	tbl := newTestTable(4)
	parent, _ := tbl.Alloc(defs.NoEnv)
	child, _ := tbl.Alloc(parent.Id)
	stranger, _ := tbl.Alloc(defs.NoEnv)

	_, err := tbl.ResolveChecked(stranger, child.Id)
	assert.Equal(t, defs.EBADENV, err)

	_, err = tbl.ResolveChecked(parent, child.Id)
	assert.Equal(t, defs.Err_t(0), err)
}

func TestLiveListsOccupiedSlotsOnly(t *testing.T) {
	tbl := newTestTable(4)
	alloc := mem.NewAllocator(8)
	a, _ := tbl.Alloc(defs.NoEnv)
	b, _ := tbl.Alloc(defs.NoEnv)
	tbl.Destroy(alloc, b)

	live := tbl.Live()
	assert.Len(t, live, 1)
	assert.Equal(t, a.Id, live[0].Id)
}
