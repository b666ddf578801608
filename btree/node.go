package btree

import "sync/atomic"

// Weight-balance parameters from Adams' balanced trees. A node is in
// balance while neither subtree holds more than weightDelta times the
// elements of the other; rotations pick single or double form by
// comparing the inner and outer grandchild weights against weightRatio.
const (
	weightDelta = 3
	weightRatio = 2
)

type node[T any] struct {
	elem  T
	size  int
	left  *node[T]
	right *node[T]
	edit  *atomic.Bool
}

func sizeOf[T any](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *node[T]) isEditable() bool {
	return n.edit.Load()
}

// mut returns n when it may be modified in place, a copy bound to edit
// otherwise.
func (n *node[T]) mut(edit *atomic.Bool) *node[T] {
	if n.isEditable() {
		return n
	}
	return &node[T]{
		elem:  n.elem,
		size:  n.size,
		left:  n.left,
		right: n.right,
		edit:  edit,
	}
}

// with rebuilds n around new children, reusing n's storage when the
// node is editable.
func (n *node[T]) with(l, r *node[T], edit *atomic.Bool) *node[T] {
	m := n.mut(edit)
	m.left = l
	m.right = r
	m.size = sizeOf(l) + sizeOf(r) + 1
	return m
}

type addStatus uint8

const (
	addUnchanged addStatus = iota
	addReplaced
	addNew
)

var addStatusStrings = [...]string{
	addUnchanged: "unchanged",
	addReplaced:  "replaced",
	addNew:       "new",
}

func (s addStatus) String() string {
	return addStatusStrings[s]
}

func (n *node[T]) add(
	elem T,
	cmp compareFunc[T],
	eq eqFunc[T],
	edit *atomic.Bool,
) (*node[T], addStatus) {
	if n == nil {
		return &node[T]{elem: elem, size: 1, edit: edit}, addNew
	}
	c := cmp(elem, n.elem)
	switch {
	case c == 0:
		if eq(elem, n.elem) {
			return n, addUnchanged
		}
		m := n.mut(edit)
		m.elem = elem
		return m, addReplaced
	case c < 0:
		nl, status := n.left.add(elem, cmp, eq, edit)
		switch status {
		case addUnchanged:
			return n, status
		case addReplaced:
			return n.with(nl, n.right, edit), status
		default:
			return balance(n, nl, n.right, edit), status
		}
	default:
		nr, status := n.right.add(elem, cmp, eq, edit)
		switch status {
		case addUnchanged:
			return n, status
		case addReplaced:
			return n.with(n.left, nr, edit), status
		default:
			return balance(n, n.left, nr, edit), status
		}
	}
}

func (n *node[T]) remove(
	elem T,
	cmp compareFunc[T],
	edit *atomic.Bool,
) (*node[T], bool) {
	if n == nil {
		return nil, false
	}
	c := cmp(elem, n.elem)
	switch {
	case c < 0:
		nl, removed := n.left.remove(elem, cmp, edit)
		if !removed {
			return n, false
		}
		return balance(n, nl, n.right, edit), true
	case c > 0:
		nr, removed := n.right.remove(elem, cmp, edit)
		if !removed {
			return n, false
		}
		return balance(n, n.left, nr, edit), true
	default:
		return glue(n.left, n.right, edit), true
	}
}

func (n *node[T]) find(elem T, cmp compareFunc[T]) (T, bool) {
	for n != nil {
		c := cmp(elem, n.elem)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.elem, true
		}
	}
	var zero T
	return zero, false
}

// glue joins the subtrees that sat on either side of a removed node by
// promoting the nearest element from the heavier side.
func glue[T any](l, r *node[T], edit *atomic.Bool) *node[T] {
	switch {
	case l == nil:
		return r
	case r == nil:
		return l
	case l.size > r.size:
		elem, nl := l.popMax(edit)
		return balance(&node[T]{elem: elem, edit: edit}, nl, r, edit)
	default:
		elem, nr := r.popMin(edit)
		return balance(&node[T]{elem: elem, edit: edit}, l, nr, edit)
	}
}

func (n *node[T]) popMax(edit *atomic.Bool) (T, *node[T]) {
	if n.right == nil {
		return n.elem, n.left
	}
	elem, nr := n.right.popMax(edit)
	return elem, balance(n, n.left, nr, edit)
}

func (n *node[T]) popMin(edit *atomic.Bool) (T, *node[T]) {
	if n.left == nil {
		return n.elem, n.right
	}
	elem, nl := n.left.popMin(edit)
	return elem, balance(n, nl, n.right, edit)
}

// balance rebuilds n around children whose weights differ from n's own
// by at most one insertion or removal, rotating when the weight
// invariant broke.
func balance[T any](n *node[T], l, r *node[T], edit *atomic.Bool) *node[T] {
	ls, rs := sizeOf(l), sizeOf(r)
	switch {
	case ls+rs <= 1:
		return n.with(l, r, edit)
	case rs > weightDelta*ls:
		return rotateLeft(n, l, r, edit)
	case ls > weightDelta*rs:
		return rotateRight(n, l, r, edit)
	default:
		return n.with(l, r, edit)
	}
}

func rotateLeft[T any](n *node[T], l, r *node[T], edit *atomic.Bool) *node[T] {
	if sizeOf(r.left) < weightRatio*sizeOf(r.right) {
		nl := n.with(l, r.left, edit)
		return r.with(nl, r.right, edit)
	}
	rl := r.left
	nl := n.with(l, rl.left, edit)
	nr := r.with(rl.right, r.right, edit)
	return rl.with(nl, nr, edit)
}

func rotateRight[T any](n *node[T], l, r *node[T], edit *atomic.Bool) *node[T] {
	if sizeOf(l.right) < weightRatio*sizeOf(l.left) {
		nr := n.with(l.right, r, edit)
		return l.with(l.left, nr, edit)
	}
	lr := l.right
	nr := n.with(lr.right, r, edit)
	nl := l.with(l.left, lr.left, edit)
	return lr.with(nl, nr, edit)
}
