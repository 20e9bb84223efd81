package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"exocore/defs"
)

func TestSetGetRoundTrip(t *testing.T) {
	r := New(4)
	r.Set("child", defs.EnvId(1))

	id, ok := r.Get("child")
	assert.True(t, ok)
	assert.Equal(t, defs.EnvId(1), id)
}

func TestGetMissingNameReturnsFalse(t *testing.T) {
	r := New(4)
	_, ok := r.Get("nope")
	assert.False(t, ok)
}

func TestSetOverwritesExistingBinding(t *testing.T) {
	r := New(1)
	r.Set("shell", defs.EnvId(1))
	r.Set("shell", defs.EnvId(2))

	id, ok := r.Get("shell")
	assert.True(t, ok)
	assert.Equal(t, defs.EnvId(2), id)
}

func TestDelRemovesBinding(t *testing.T) {
	r := New(4)
	r.Set("shell", defs.EnvId(1))
	r.Del("shell")

	_, ok := r.Get("shell")
	assert.False(t, ok)
}

func TestDelOfAbsentNameIsNoop(t *testing.T) {
	r := New(4)
	assert.NotPanics(t, func() { r.Del("nothing") })
}

func TestElemsListsEveryBindingAcrossBuckets(t *testing.T) {
	r := New(2)
	r.Set("a", defs.EnvId(1))
	r.Set("b", defs.EnvId(2))
	r.Set("c", defs.EnvId(3))

	elems := r.Elems()
	assert.Len(t, elems, 3)

	seen := map[string]defs.EnvId{}
	for _, p := range elems {
		seen[p.Name] = p.Id
	}
	assert.Equal(t, defs.EnvId(1), seen["a"])
	assert.Equal(t, defs.EnvId(2), seen["b"])
	assert.Equal(t, defs.EnvId(3), seen["c"])
}

func TestNewClampsNonPositiveBucketCount(t *testing.T) {
	r := New(0)
	assert.Len(t, r.buckets, 1)
}
