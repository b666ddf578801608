package btree

import (
	"iter"

	"tangled.dev/go/collection/order"
)

type DiffKind uint8

const (
	// DiffLeft marks an element present only in the receiver.
	DiffLeft DiffKind = iota
	// DiffRight marks an element present only in the argument.
	DiffRight
	// DiffChanged marks a pair of elements at the same comparator
	// position that the diff's equality rejected.
	DiffChanged
)

var diffKindStrings = [...]string{
	DiffLeft:    "left",
	DiffRight:   "right",
	DiffChanged: "changed",
}

func (k DiffKind) String() string {
	return diffKindStrings[k]
}

type DiffEntry[T any] struct {
	Kind        DiffKind
	Left, Right T
}

// Diff yields the positions where t and o differ, in ascending
// comparator order. Elements present in both trees count as a
// difference only when eq rejects the pair. Subtrees shared between
// the two trees are dropped without being walked, so diffing trees
// related by a short edit history touches only the edited paths. Both
// trees must carry the same comparator identity; Diff panics with
// order.ErrIncompatible otherwise, before yielding anything.
func (t *Tree[T]) Diff(o *Tree[T], eq func(a, b T) bool) iter.Seq[DiffEntry[T]] {
	if !t.cmp.Same(o.cmp) {
		panic(order.ErrIncompatible)
	}
	cmp := t.compare
	return func(yield func(DiffEntry[T]) bool) {
		a := makeIterator(t.root)
		b := makeIterator(o.root)
		for a.HasNext() && b.HasNext() {
			// Identical nodes on top of both stacks stand for
			// identical pending subtrees; drop them whole.
			if a.peek() == b.peek() {
				a.skip()
				b.skip()
				continue
			}
			x, y := a.peek().elem, b.peek().elem
			c := cmp(x, y)
			switch {
			case c < 0:
				if !yield(DiffEntry[T]{Kind: DiffLeft, Left: x}) {
					return
				}
				a.Next()
			case c > 0:
				if !yield(DiffEntry[T]{Kind: DiffRight, Right: y}) {
					return
				}
				b.Next()
			default:
				if !eq(x, y) {
					if !yield(DiffEntry[T]{Kind: DiffChanged, Left: x, Right: y}) {
						return
					}
				}
				a.Next()
				b.Next()
			}
		}
		for a.HasNext() {
			if !yield(DiffEntry[T]{Kind: DiffLeft, Left: a.Next()}) {
				return
			}
		}
		for b.HasNext() {
			if !yield(DiffEntry[T]{Kind: DiffRight, Right: b.Next()}) {
				return
			}
		}
	}
}
