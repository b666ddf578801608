// Package treemap provides a persistent ordered map.
//
// A Map is keyed by an order.Comparator capability. Every update
// returns a new map sharing structure with the old one; old versions
// stay valid and safe for concurrent readers.
package treemap

import (
	"fmt"
	"iter"

	"tangled.dev/go/collection/btree"
	"tangled.dev/go/collection/order"
)

// ErrDuplicateKey is wrapped in the error returned by FromPairs when
// the DuplicateError policy meets a repeated key.
const ErrDuplicateKey = order.Error("duplicate key")

type entry[K, V any] struct {
	key   K
	value V
}

type Map[K, V any] struct {
	cmp  *order.Comparator[K]
	impl *btree.Tree[entry[K, V]]
}

// Empty returns a map keyed by cmp. eq is the value equality used to
// detect that an Assoc stores what is already present, in which case
// the original map is returned.
func Empty[K, V any](cmp *order.Comparator[K], eq func(a, b V) bool) *Map[K, V] {
	ecmp := order.Derive(cmp, func(e entry[K, V]) K { return e.key })
	return &Map[K, V]{
		cmp: cmp,
		impl: btree.Empty(ecmp, func(a, b entry[K, V]) bool {
			return cmp.Compare(a.key, b.key) == 0 &&
				eq(a.value, b.value)
		}),
	}
}

type Pair[K, V any] struct {
	Key   K
	Value V
}

// DuplicatePolicy selects what FromPairs does when a key repeats.
type DuplicatePolicy uint8

const (
	DuplicateError DuplicatePolicy = iota
	DuplicateKeepFirst
	DuplicateKeepLast
)

// FromPairs builds a map from pairs in one pass. Under DuplicateError
// a repeated key aborts construction with an error wrapping
// ErrDuplicateKey; the other policies resolve the repeat and never
// fail.
func FromPairs[K, V any](
	cmp *order.Comparator[K],
	eq func(a, b V) bool,
	pairs []Pair[K, V],
	onDup DuplicatePolicy,
) (*Map[K, V], error) {
	t := Empty[K, V](cmp, eq).AsTransient()
	for _, p := range pairs {
		if onDup != DuplicateKeepLast && t.Contains(p.Key) {
			if onDup == DuplicateError {
				return nil, fmt.Errorf("key %v: %w", p.Key, ErrDuplicateKey)
			}
			continue
		}
		t.Assoc(p.Key, p.Value)
	}
	return t.AsPersistent(), nil
}

func (m *Map[K, V]) Contains(key K) bool {
	return m.impl.Contains(entry[K, V]{key: key})
}

func (m *Map[K, V]) At(key K) V {
	e := m.impl.At(entry[K, V]{key: key})
	return e.value
}

func (m *Map[K, V]) Find(key K) (V, bool) {
	e, ok := m.impl.Find(entry[K, V]{key: key})
	return e.value, ok
}

func (m *Map[K, V]) Assoc(key K, value V) *Map[K, V] {
	nimpl := m.impl.Add(entry[K, V]{key: key, value: value})
	if nimpl == m.impl {
		return m
	}
	return &Map[K, V]{
		cmp:  m.cmp,
		impl: nimpl,
	}
}

func (m *Map[K, V]) Delete(key K) *Map[K, V] {
	nimpl := m.impl.Delete(entry[K, V]{key: key})
	if nimpl == m.impl {
		return m
	}
	return &Map[K, V]{
		cmp:  m.cmp,
		impl: nimpl,
	}
}

func (m *Map[K, V]) Len() int {
	return m.impl.Length()
}

// Comparator returns the key capability the map was built with.
func (m *Map[K, V]) Comparator() *order.Comparator[K] {
	return m.cmp
}

// All yields the map's pairs in ascending key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	i := m.Iterator()
	return i.Seq2
}

// From yields the pairs at or after key, in ascending key order.
func (m *Map[K, V]) From(key K) iter.Seq2[K, V] {
	i := m.IteratorFrom(key)
	return i.Seq2
}

func (m *Map[K, V]) Iterator() Iterator[K, V] {
	return Iterator[K, V]{
		impl: m.impl.Iterator(),
	}
}

func (m *Map[K, V]) IteratorFrom(key K) Iterator[K, V] {
	return Iterator[K, V]{
		impl: m.impl.IteratorFrom(entry[K, V]{key: key}),
	}
}

func (m *Map[K, V]) AsTransient() *TMap[K, V] {
	return &TMap[K, V]{
		orig: m,
		impl: m.impl.AsTransient(),
	}
}

type DeltaKind uint8

const (
	// DeltaLeft marks a key present only in the receiver.
	DeltaLeft DeltaKind = iota
	// DeltaRight marks a key present only in the argument.
	DeltaRight
	// DeltaChanged marks a key present in both maps with values the
	// diff's equality rejected.
	DeltaChanged
)

var deltaKindStrings = [...]string{
	DeltaLeft:    "left",
	DeltaRight:   "right",
	DeltaChanged: "changed",
}

func (k DeltaKind) String() string {
	return deltaKindStrings[k]
}

type Delta[K, V any] struct {
	Kind  DeltaKind
	Key   K
	Left  V
	Right V
}

// SymmetricDiff yields the differences between m and o in ascending
// key order. Keys held by both maps are reported only when valueEqual
// rejects their values. Both maps must derive from the same comparator
// identity; SymmetricDiff panics with order.ErrIncompatible otherwise,
// before yielding anything. Structure shared between the maps is
// skipped, so maps related by a short edit history diff in far less
// than a full walk.
func (m *Map[K, V]) SymmetricDiff(
	o *Map[K, V],
	valueEqual func(a, b V) bool,
) iter.Seq[Delta[K, V]] {
	diff := m.impl.Diff(o.impl, func(a, b entry[K, V]) bool {
		return valueEqual(a.value, b.value)
	})
	return func(yield func(Delta[K, V]) bool) {
		for d := range diff {
			var delta Delta[K, V]
			switch d.Kind {
			case btree.DiffLeft:
				delta = Delta[K, V]{
					Kind: DeltaLeft,
					Key:  d.Left.key,
					Left: d.Left.value,
				}
			case btree.DiffRight:
				delta = Delta[K, V]{
					Kind:  DeltaRight,
					Key:   d.Right.key,
					Right: d.Right.value,
				}
			default:
				delta = Delta[K, V]{
					Kind:  DeltaChanged,
					Key:   d.Left.key,
					Left:  d.Left.value,
					Right: d.Right.value,
				}
			}
			if !yield(delta) {
				return
			}
		}
	}
}

// TMap is a transiently mutable map; see btree.TTree for the editing
// contract.
type TMap[K, V any] struct {
	orig *Map[K, V]
	impl *btree.TTree[entry[K, V]]
}

func (m *TMap[K, V]) Contains(key K) bool {
	return m.impl.Contains(entry[K, V]{key: key})
}

func (m *TMap[K, V]) At(key K) V {
	e := m.impl.At(entry[K, V]{key: key})
	return e.value
}

func (m *TMap[K, V]) Find(key K) (V, bool) {
	e, ok := m.impl.Find(entry[K, V]{key: key})
	return e.value, ok
}

func (m *TMap[K, V]) Assoc(key K, value V) *TMap[K, V] {
	m.impl.Add(entry[K, V]{key: key, value: value})
	return m
}

func (m *TMap[K, V]) Delete(key K) *TMap[K, V] {
	m.impl.Delete(entry[K, V]{key: key})
	return m
}

func (m *TMap[K, V]) Len() int {
	return m.impl.Length()
}

func (m *TMap[K, V]) All() iter.Seq2[K, V] {
	i := m.Iterator()
	return i.Seq2
}

func (m *TMap[K, V]) Iterator() Iterator[K, V] {
	return Iterator[K, V]{
		impl: m.impl.Iterator(),
	}
}

func (m *TMap[K, V]) AsPersistent() *Map[K, V] {
	nimpl := m.impl.AsPersistent()
	if nimpl == m.orig.impl {
		return m.orig
	}
	return &Map[K, V]{
		cmp:  m.orig.cmp,
		impl: nimpl,
	}
}

type Iterator[K, V any] struct {
	impl btree.Iterator[entry[K, V]]
}

func (i *Iterator[K, V]) Seq2(yield func(key K, value V) bool) {
	for i.HasNext() {
		k, v := i.Next()
		if !yield(k, v) {
			break
		}
	}
}

func (i *Iterator[K, V]) Next() (K, V) {
	e := i.impl.Next()
	return e.key, e.value
}

func (i *Iterator[K, V]) HasNext() bool {
	return i.impl.HasNext()
}
