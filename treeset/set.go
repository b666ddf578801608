// Package treeset provides a persistent ordered set with set algebra.
//
// Set equality is defined on contents: two sets holding the same
// elements are equal no matter the order the elements arrived in, even
// though their internal tree shapes may differ.
package treeset

import (
	"iter"

	"tangled.dev/go/collection/btree"
	"tangled.dev/go/collection/order"
)

type Set[T any] struct {
	impl *btree.Tree[T]
}

func Empty[T any](cmp *order.Comparator[T]) *Set[T] {
	return &Set[T]{
		impl: btree.Empty(cmp,
			func(a, b T) bool {
				return cmp.Compare(a, b) == 0
			},
		),
	}
}

func (s *Set[T]) Contains(elem T) bool {
	return s.impl.Contains(elem)
}

func (s *Set[T]) Add(elem T) *Set[T] {
	nimpl := s.impl.Add(elem)
	if nimpl == s.impl {
		return s
	}
	return &Set[T]{
		impl: nimpl,
	}
}

func (s *Set[T]) Remove(elem T) *Set[T] {
	nimpl := s.impl.Delete(elem)
	if nimpl == s.impl {
		return s
	}
	return &Set[T]{
		impl: nimpl,
	}
}

func (s *Set[T]) Len() int {
	return s.impl.Length()
}

// All yields the elements in ascending comparator order.
func (s *Set[T]) All() iter.Seq[T] {
	i := s.Iterator()
	return i.Seq
}

func (s *Set[T]) From(elem T) iter.Seq[T] {
	i := s.IteratorFrom(elem)
	return i.Seq
}

func (s *Set[T]) Iterator() Iterator[T] {
	return Iterator[T]{
		impl: s.impl.Iterator(),
	}
}

func (s *Set[T]) IteratorFrom(elem T) Iterator[T] {
	return Iterator[T]{
		impl: s.impl.IteratorFrom(elem),
	}
}

// Union returns the set holding every element of s and o. Both sets
// must carry the same comparator identity; Union panics with
// order.ErrIncompatible otherwise.
func (s *Set[T]) Union(o *Set[T]) *Set[T] {
	s.ensureCompatible(o)
	t := s.impl.AsTransient()
	i := o.impl.Iterator()
	for i.HasNext() {
		t.Add(i.Next())
	}
	nimpl := t.AsPersistent()
	if nimpl == s.impl {
		return s
	}
	return &Set[T]{
		impl: nimpl,
	}
}

// Intersection returns the set holding the elements present in both s
// and o. Panics with order.ErrIncompatible on comparator identity
// mismatch.
func (s *Set[T]) Intersection(o *Set[T]) *Set[T] {
	s.ensureCompatible(o)
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	t := Empty[T](s.impl.Comparator()).impl.AsTransient()
	i := small.impl.Iterator()
	for i.HasNext() {
		elem := i.Next()
		if large.Contains(elem) {
			t.Add(elem)
		}
	}
	return &Set[T]{
		impl: t.AsPersistent(),
	}
}

// Difference returns the set holding the elements of s not in o.
// Panics with order.ErrIncompatible on comparator identity mismatch.
func (s *Set[T]) Difference(o *Set[T]) *Set[T] {
	s.ensureCompatible(o)
	t := s.impl.AsTransient()
	i := o.impl.Iterator()
	for i.HasNext() {
		t.Delete(i.Next())
	}
	nimpl := t.AsPersistent()
	if nimpl == s.impl {
		return s
	}
	return &Set[T]{
		impl: nimpl,
	}
}

// Equal reports whether s and o hold the same elements. Sets sharing a
// comparator identity are zipped in order; otherwise Equal falls back
// to containment checks, since content equality does not need a shared
// order.
func (s *Set[T]) Equal(o *Set[T]) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s.impl.Comparator().Same(o.impl.Comparator()) {
		cmp := s.impl.Comparator()
		si := s.impl.Iterator()
		oi := o.impl.Iterator()
		for si.HasNext() {
			if cmp.Compare(si.Next(), oi.Next()) != 0 {
				return false
			}
		}
		return true
	}
	i := s.impl.Iterator()
	for i.HasNext() {
		if !o.Contains(i.Next()) {
			return false
		}
	}
	return true
}

func (s *Set[T]) ensureCompatible(o *Set[T]) {
	if !s.impl.Comparator().Same(o.impl.Comparator()) {
		panic(order.ErrIncompatible)
	}
}

func (s *Set[T]) AsTransient() *TSet[T] {
	return &TSet[T]{
		orig: s,
		impl: s.impl.AsTransient(),
	}
}

// TSet is a transiently mutable set; see btree.TTree for the editing
// contract.
type TSet[T any] struct {
	orig *Set[T]
	impl *btree.TTree[T]
}

func (s *TSet[T]) Contains(elem T) bool {
	return s.impl.Contains(elem)
}

func (s *TSet[T]) Add(elem T) *TSet[T] {
	s.impl.Add(elem)
	return s
}

func (s *TSet[T]) Remove(elem T) *TSet[T] {
	s.impl.Delete(elem)
	return s
}

func (s *TSet[T]) Len() int {
	return s.impl.Length()
}

func (s *TSet[T]) All() iter.Seq[T] {
	i := s.Iterator()
	return i.Seq
}

func (s *TSet[T]) Iterator() Iterator[T] {
	return Iterator[T]{
		impl: s.impl.Iterator(),
	}
}

func (s *TSet[T]) AsPersistent() *Set[T] {
	nimpl := s.impl.AsPersistent()
	if nimpl == s.orig.impl {
		return s.orig
	}
	return &Set[T]{
		impl: nimpl,
	}
}

type Iterator[T any] struct {
	impl btree.Iterator[T]
}

func (i *Iterator[T]) Seq(yield func(elem T) bool) {
	for i.HasNext() {
		if !yield(i.Next()) {
			break
		}
	}
}

func (i *Iterator[T]) Next() T {
	return i.impl.Next()
}

func (i *Iterator[T]) HasNext() bool {
	return i.impl.HasNext()
}
