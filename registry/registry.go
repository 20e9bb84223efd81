// Package registry provides a concurrent name-to-environment lookup table,
// adapted from the teacher's hashtable.Hashtable_t (hashtable/hashtable.go):
// the same bucket-per-hash, lock-per-bucket shape, narrowed from an
// interface{}-keyed generic table to string keys mapping to defs.EnvId —
// the one lookup cmd/exoctl's interactive demos actually need (giving a
// freshly exoforked environment a friendly name instead of an opaque envid).
// The teacher's lock-free Get via atomic.LoadPointer/StorePointer over
// unsafe.Pointer is dropped: the teacher's own comment on that path admits
// "without an explicit memory model, it is hard to know if this code is
// correct," and a CLI-scale registry has no hot path that needs it — a
// plain per-bucket RWMutex gives the same externally observable behavior
// without the doubt.
package registry

import (
	"hash/fnv"
	"sync"

	"exocore/defs"
)

type entry struct {
	name string
	id   defs.EnvId
}

type bucket struct {
	mu      sync.RWMutex
	entries []entry
}

// Registry maps friendly names to environment ids, bucketed by an FNV hash
// of the name the way Hashtable_t buckets by khash(key).
type Registry struct {
	buckets []*bucket
}

// New returns a registry with the given number of buckets.
func New(buckets int) *Registry {
	if buckets < 1 {
		buckets = 1
	}
	r := &Registry{buckets: make([]*bucket, buckets)}
	for i := range r.buckets {
		r.buckets[i] = &bucket{}
	}
	return r
}

func (r *Registry) bucketFor(name string) *bucket {
	h := fnv.New32a()
	h.Write([]byte(name))
	return r.buckets[h.Sum32()%uint32(len(r.buckets))]
}

// Set records id under name, overwriting any previous binding — mirrors
// Hashtable_t.Set except a rebind replaces rather than reports false, since
// re-tagging a running environment under a name it already held is a valid
// operation here, not a collision to refuse.
func (r *Registry) Set(name string, id defs.EnvId) {
	b := r.bucketFor(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].name == name {
			b.entries[i].id = id
			return
		}
	}
	b.entries = append(b.entries, entry{name: name, id: id})
}

// Get looks up the environment id bound to name.
func (r *Registry) Get(name string) (defs.EnvId, bool) {
	b := r.bucketFor(name)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range b.entries {
		if e.name == name {
			return e.id, true
		}
	}
	return 0, false
}

// Del removes name's binding, if any. Unlike Hashtable_t.Del, deleting an
// absent name is a no-op rather than a panic, so callers need not track
// whether they already removed it. env_destroy does not touch the
// registry; a destroyed environment's name stays bound until Del.
func (r *Registry) Del(name string) {
	b := r.bucketFor(name)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		if b.entries[i].name == name {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Pair is a name/id binding returned by Elems.
type Pair struct {
	Name string
	Id   defs.EnvId
}

// Elems returns every binding currently stored, in no particular order.
func (r *Registry) Elems() []Pair {
	var out []Pair
	for _, b := range r.buckets {
		b.mu.RLock()
		for _, e := range b.entries {
			out = append(out, Pair{Name: e.name, Id: e.id})
		}
		b.mu.RUnlock()
	}
	return out
}
