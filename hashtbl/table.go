// Package hashtbl provides a mutable hashtable whose buckets are small
// ordered trees.
//
// A Table is keyed by an order.Hasher capability. Entries that collide
// into one bucket are kept in a tree ordered by the hasher's fallback
// order, so a degenerate hash function degrades lookups to logarithmic
// bucket scans rather than linear ones.
//
// Tables are unsynchronized: concurrent mutation, or reads concurrent
// with a mutation, require external locking.
package hashtbl

import (
	"iter"

	"tangled.dev/go/collection/btree"
	"tangled.dev/go/collection/order"
)

const (
	minBuckets    = 8
	maxLoadFactor = 4
)

type entry[K, V any] struct {
	key   K
	value V
}

type Table[K, V any] struct {
	hasher  *order.Hasher[K]
	cmp     *order.Comparator[entry[K, V]]
	buckets []*btree.Tree[entry[K, V]]
	count   int
}

// New returns an empty table sized for about sizeHint entries. The
// bucket count stays a power of two.
func New[K, V any](hasher *order.Hasher[K], sizeHint int) *Table[K, V] {
	n := minBuckets
	for n*maxLoadFactor < sizeHint {
		n <<= 1
	}
	return &Table[K, V]{
		hasher: hasher,
		cmp: order.Derive(hasher.Comparator(),
			func(e entry[K, V]) K { return e.key }),
		buckets: make([]*btree.Tree[entry[K, V]], n),
	}
}

func (t *Table[K, V]) index(key K) int {
	return int(t.hasher.Hash(key) & uint64(len(t.buckets)-1))
}

// neverEqual makes bucket Add always replace an entry whose key is
// already present.
func neverEqual[K, V any](a, b entry[K, V]) bool {
	return false
}

func (t *Table[K, V]) emptyBucket() *btree.Tree[entry[K, V]] {
	return btree.Empty(t.cmp, neverEqual[K, V])
}

func (t *Table[K, V]) Find(key K) (V, bool) {
	var zero V
	b := t.buckets[t.index(key)]
	if b == nil {
		return zero, false
	}
	e, ok := b.Find(entry[K, V]{key: key})
	if !ok || !t.hasher.Equal(e.key, key) {
		return zero, false
	}
	return e.value, true
}

func (t *Table[K, V]) At(key K) V {
	v, _ := t.Find(key)
	return v
}

func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Set stores value for key, replacing any previous value in place.
func (t *Table[K, V]) Set(key K, value V) {
	idx := t.index(key)
	b := t.buckets[idx]
	if b == nil {
		b = t.emptyBucket()
	}
	nb := b.Add(entry[K, V]{key: key, value: value})
	grew := nb.Length() > b.Length()
	t.buckets[idx] = nb
	if grew {
		t.count++
		if t.count > len(t.buckets)*maxLoadFactor {
			t.grow()
		}
	}
}

// Remove deletes the entry for key, reporting whether one was present.
func (t *Table[K, V]) Remove(key K) bool {
	idx := t.index(key)
	b := t.buckets[idx]
	if b == nil {
		return false
	}
	nb := b.Delete(entry[K, V]{key: key})
	if nb == b {
		return false
	}
	t.buckets[idx] = nb
	t.count--
	return true
}

// Change applies fn to the current value for key, or to the zero value
// with ok false when the key is absent. The result is stored when keep
// is true; otherwise any entry for key is removed.
func (t *Table[K, V]) Change(key K, fn func(value V, ok bool) (next V, keep bool)) {
	cur, ok := t.Find(key)
	next, keep := fn(cur, ok)
	switch {
	case keep:
		t.Set(key, next)
	case ok:
		t.Remove(key)
	}
}

func (t *Table[K, V]) grow() {
	old := t.buckets
	t.buckets = make([]*btree.Tree[entry[K, V]], len(old)*2)
	for _, b := range old {
		if b == nil {
			continue
		}
		i := b.Iterator()
		for i.HasNext() {
			e := i.Next()
			idx := t.index(e.key)
			nb := t.buckets[idx]
			if nb == nil {
				nb = t.emptyBucket()
			}
			t.buckets[idx] = nb.Add(e)
		}
	}
}

// Copy returns a table that observes no mutation of t and vice versa.
// Bucket trees are persistent, so the copy shares them until either
// table swaps a bucket for a new version; the copy itself is O(bucket
// count).
func (t *Table[K, V]) Copy() *Table[K, V] {
	buckets := make([]*btree.Tree[entry[K, V]], len(t.buckets))
	copy(buckets, t.buckets)
	return &Table[K, V]{
		hasher:  t.hasher,
		cmp:     t.cmp,
		buckets: buckets,
		count:   t.count,
	}
}

func (t *Table[K, V]) Len() int {
	return t.count
}

// Hasher returns the capability the table was built with.
func (t *Table[K, V]) Hasher() *order.Hasher[K] {
	return t.hasher
}

// All yields every entry. Buckets are visited in index order and
// entries within one bucket in fallback order; no order across the
// whole table is promised.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, b := range t.buckets {
			if b == nil {
				continue
			}
			i := b.Iterator()
			for i.HasNext() {
				e := i.Next()
				if !yield(e.key, e.value) {
					return
				}
			}
		}
	}
}
