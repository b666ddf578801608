// Package btree implements a persistent weight-balanced ordered tree.
// It is the core the treemap and treeset packages are built on; the
// hashtbl package reuses it for bucket trees.
//
// A Tree is never modified after construction, so any number of
// goroutines may read any number of versions concurrently without
// locking. Updates allocate only the nodes on the path from the root
// to the changed position and share everything else with the previous
// version.
package btree

import (
	"fmt"
	"strings"
	"sync/atomic"

	"tangled.dev/go/collection/order"
)

const ErrTafterP = order.Error("transient used after persistent call")

type compareFunc[T any] func(k1, k2 T) int
type eqFunc[T any] func(k1, k2 T) bool

type Tree[T any] struct {
	root  *node[T]
	count int
	edit  *atomic.Bool

	cmp     *order.Comparator[T]
	compare compareFunc[T]
	eq      eqFunc[T]
}

func newBool(val bool) *atomic.Bool {
	var b atomic.Bool
	b.Store(val)
	return &b
}

var emptyEdit = newBool(false)

// Empty returns a tree ordered by cmp. eq decides whether an element
// offered to Add is the same as the one already stored at its
// position; when it is, Add returns the tree unchanged.
func Empty[T any](cmp *order.Comparator[T], eq func(a, b T) bool) *Tree[T] {
	return &Tree[T]{
		edit:    emptyEdit,
		cmp:     cmp,
		compare: cmp.Compare,
		eq:      eq,
	}
}

func (t *Tree[T]) Contains(elem T) bool {
	_, found := t.root.find(elem, t.compare)
	return found
}

func (t *Tree[T]) At(elem T) T {
	out, _ := t.root.find(elem, t.compare)
	return out
}

func (t *Tree[T]) Find(elem T) (T, bool) {
	return t.root.find(elem, t.compare)
}

// Add returns a tree that also holds elem. An element at the same
// comparator position is replaced; if eq reports it equal to elem the
// original tree is returned.
func (t *Tree[T]) Add(elem T) *Tree[T] {
	newRoot, status := t.root.add(elem, t.compare, t.eq, t.edit)
	switch status {
	case addUnchanged:
		return t
	case addReplaced:
		return t.withRoot(newRoot, t.count)
	default:
		return t.withRoot(newRoot, t.count+1)
	}
}

func (t *Tree[T]) Delete(elem T) *Tree[T] {
	newRoot, removed := t.root.remove(elem, t.compare, t.edit)
	if !removed {
		return t
	}
	return t.withRoot(newRoot, t.count-1)
}

func (t *Tree[T]) withRoot(root *node[T], count int) *Tree[T] {
	return &Tree[T]{
		root:    root,
		count:   count,
		edit:    t.edit,
		cmp:     t.cmp,
		compare: t.compare,
		eq:      t.eq,
	}
}

func (t *Tree[T]) Length() int {
	return t.count
}

// Comparator returns the capability the tree was built with.
func (t *Tree[T]) Comparator() *order.Comparator[T] {
	return t.cmp
}

func (t *Tree[T]) String() string {
	i := t.Iterator()
	return treeString(&i)
}

func (t *Tree[T]) Iterator() Iterator[T] {
	return makeIterator(t.root)
}

func (t *Tree[T]) IteratorFrom(from T) Iterator[T] {
	return makeIteratorFrom(t.root, from, t.compare)
}

// Iterator walks a tree in ascending comparator order. Obtain one from
// Iterator or IteratorFrom.
type Iterator[T any] struct {
	stack []*node[T]
}

func makeIterator[T any](root *node[T]) Iterator[T] {
	var i Iterator[T]
	i.descendLeft(root)
	return i
}

func makeIteratorFrom[T any](root *node[T], from T, cmp compareFunc[T]) Iterator[T] {
	var i Iterator[T]
	n := root
	for n != nil {
		if cmp(n.elem, from) < 0 {
			n = n.right
		} else {
			i.stack = append(i.stack, n)
			n = n.left
		}
	}
	return i
}

func (i *Iterator[T]) descendLeft(n *node[T]) {
	for n != nil {
		i.stack = append(i.stack, n)
		n = n.left
	}
}

func (i *Iterator[T]) HasNext() bool {
	return len(i.stack) > 0
}

func (i *Iterator[T]) Next() T {
	n := i.stack[len(i.stack)-1]
	i.stack = i.stack[:len(i.stack)-1]
	i.descendLeft(n.right)
	return n.elem
}

// peek returns the node holding the element Next would return.
func (i *Iterator[T]) peek() *node[T] {
	return i.stack[len(i.stack)-1]
}

// skip pops the next node without descending into its right subtree,
// dropping the node's element and every element after it within that
// subtree.
func (i *Iterator[T]) skip() {
	i.stack = i.stack[:len(i.stack)-1]
}

func treeString[T any](i *Iterator[T]) string {
	var b strings.Builder
	b.WriteRune('{')
	for i.HasNext() {
		if b.Len() > 1 {
			b.WriteRune(' ')
		}
		fmt.Fprintf(&b, "%v", i.Next())
	}
	b.WriteRune('}')
	return b.String()
}

// TTree is a transiently mutable tree. It batches edits that would
// otherwise each allocate a root-to-leaf path, and is sealed again by
// AsPersistent; any use after that panics with ErrTafterP.
type TTree[T any] struct {
	root  *node[T]
	count int
	edit  *atomic.Bool

	cmp     *order.Comparator[T]
	compare compareFunc[T]
	eq      eqFunc[T]

	orig *Tree[T]
}

func (t *Tree[T]) AsTransient() *TTree[T] {
	return &TTree[T]{
		root:    t.root,
		count:   t.count,
		edit:    newBool(true),
		cmp:     t.cmp,
		compare: t.compare,
		eq:      t.eq,

		orig: t,
	}
}

func (t *TTree[T]) Contains(elem T) bool {
	t.ensureEditable()
	_, found := t.root.find(elem, t.compare)
	return found
}

func (t *TTree[T]) At(elem T) T {
	t.ensureEditable()
	out, _ := t.root.find(elem, t.compare)
	return out
}

func (t *TTree[T]) Find(elem T) (T, bool) {
	t.ensureEditable()
	return t.root.find(elem, t.compare)
}

func (t *TTree[T]) Add(elem T) *TTree[T] {
	t.ensureEditable()
	newRoot, status := t.root.add(elem, t.compare, t.eq, t.edit)
	switch status {
	case addUnchanged:
		return t
	case addReplaced:
		t.root = newRoot
		return t
	default:
		t.root = newRoot
		t.count++
		return t
	}
}

func (t *TTree[T]) Delete(elem T) *TTree[T] {
	t.ensureEditable()
	newRoot, removed := t.root.remove(elem, t.compare, t.edit)
	if !removed {
		return t
	}
	t.root = newRoot
	t.count--
	return t
}

func (t *TTree[T]) Length() int {
	t.ensureEditable()
	return t.count
}

func (t *TTree[T]) Iterator() Iterator[T] {
	t.ensureEditable()
	return makeIterator(t.root)
}

func (t *TTree[T]) String() string {
	t.ensureEditable()
	i := makeIterator(t.root)
	return treeString(&i)
}

func (t *TTree[T]) AsPersistent() *Tree[T] {
	t.ensureEditable()
	t.edit.Store(false)
	if t.root == t.orig.root {
		return t.orig
	}
	return &Tree[T]{
		root:    t.root,
		count:   t.count,
		edit:    t.edit,
		cmp:     t.cmp,
		compare: t.compare,
		eq:      t.eq,
	}
}

func (t *TTree[T]) ensureEditable() {
	if !t.edit.Load() {
		panic(ErrTafterP)
	}
}
