// Package hashset provides a mutable set built on the hashtbl package.
package hashset

import (
	"iter"

	"tangled.dev/go/collection/hashtbl"
	"tangled.dev/go/collection/order"
)

type Set[T any] struct {
	impl *hashtbl.Table[T, struct{}]
}

// New returns an empty set sized for about sizeHint elements.
func New[T any](hasher *order.Hasher[T], sizeHint int) *Set[T] {
	return &Set[T]{
		impl: hashtbl.New[T, struct{}](hasher, sizeHint),
	}
}

func (s *Set[T]) Add(elem T) {
	s.impl.Set(elem, struct{}{})
}

func (s *Set[T]) Remove(elem T) bool {
	return s.impl.Remove(elem)
}

func (s *Set[T]) Contains(elem T) bool {
	return s.impl.Contains(elem)
}

func (s *Set[T]) Len() int {
	return s.impl.Len()
}

// Copy returns a set that observes no mutation of s and vice versa.
func (s *Set[T]) Copy() *Set[T] {
	return &Set[T]{
		impl: s.impl.Copy(),
	}
}

// All yields every element; no order is promised.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for elem := range s.impl.All() {
			if !yield(elem) {
				return
			}
		}
	}
}

// Union returns a new set holding every element of s and o. Both sets
// must carry the same hasher identity; Union panics with
// order.ErrIncompatible otherwise.
func (s *Set[T]) Union(o *Set[T]) *Set[T] {
	s.ensureCompatible(o)
	out := s.Copy()
	for elem := range o.All() {
		out.Add(elem)
	}
	return out
}

// Intersection returns a new set holding the elements present in both
// s and o. Panics with order.ErrIncompatible on hasher identity
// mismatch.
func (s *Set[T]) Intersection(o *Set[T]) *Set[T] {
	s.ensureCompatible(o)
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	out := New(s.impl.Hasher(), small.Len())
	for elem := range small.All() {
		if large.Contains(elem) {
			out.Add(elem)
		}
	}
	return out
}

// Difference returns a new set holding the elements of s not in o.
// Panics with order.ErrIncompatible on hasher identity mismatch.
func (s *Set[T]) Difference(o *Set[T]) *Set[T] {
	s.ensureCompatible(o)
	out := s.Copy()
	for elem := range o.All() {
		out.Remove(elem)
	}
	return out
}

// Equal reports whether s and o hold the same elements. Contents only;
// the sets may use different hashers and bucket layouts.
func (s *Set[T]) Equal(o *Set[T]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for elem := range s.All() {
		if !o.Contains(elem) {
			return false
		}
	}
	return true
}

func (s *Set[T]) ensureCompatible(o *Set[T]) {
	if !s.impl.Hasher().Same(o.impl.Hasher()) {
		panic(order.ErrIncompatible)
	}
}
