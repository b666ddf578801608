// Package order defines the comparison and hashing capabilities that the
// keyed collections in this module are built from.
//
// A Comparator bundles a three-way ordering function with an identity
// tag; a Hasher bundles a seeded hash function, an equality function and
// a fallback total order with an identity tag. Every collection keeps a
// reference to the capability it was built with and uses it for all
// structural operations. Operations that combine two collections (diff,
// union, intersection, difference) require both to carry the same
// identity and panic with ErrIncompatible otherwise; two capabilities
// are the same only if they share one identity tag, never because their
// functions happen to agree.
package order

import (
	"cmp"
	"hash/maphash"
)

type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrIncompatible is the panic value for operations that combine
// collections built from different capability identities.
const ErrIncompatible = Error("collections built with different order identities")

// ID is an opaque identity tag. Two capabilities are interchangeable
// only if they hold the same *ID.
type ID struct {
	name string
}

func (id *ID) String() string {
	return id.name
}

// Comparator is a total order over K together with an identity tag.
type Comparator[K any] struct {
	id      *ID
	compare func(a, b K) int
}

// New returns a comparator with a fresh identity. The name is
// diagnostic only; identity is the returned object, not the name.
// compare must be a total order: negative when a sorts before b, zero
// when neither sorts first, positive otherwise.
func New[K any](name string, compare func(a, b K) int) *Comparator[K] {
	return &Comparator[K]{
		id:      &ID{name: name},
		compare: compare,
	}
}

// Natural returns a comparator with a fresh identity using the natural
// order of K.
func Natural[K cmp.Ordered](name string) *Comparator[K] {
	return New(name, cmp.Compare[K])
}

// Derive returns a comparator over T that orders by a key projected
// from each element, sharing the identity of c. Collections over
// distinct wrapper types remain combinable as long as their element
// comparators derive from one capability.
func Derive[T, K any](c *Comparator[K], key func(T) K) *Comparator[T] {
	return &Comparator[T]{
		id: c.id,
		compare: func(a, b T) int {
			return c.compare(key(a), key(b))
		},
	}
}

func (c *Comparator[K]) Compare(a, b K) int {
	return c.compare(a, b)
}

func (c *Comparator[K]) Identity() *ID {
	return c.id
}

// Same reports whether c and o carry the same identity tag.
func (c *Comparator[K]) Same(o *Comparator[K]) bool {
	return c.id == o.id
}

// Hasher is a hash function, an equality relation and a fallback total
// order over K, together with an identity tag. The fallback order is
// used only to arrange entries inside a hash bucket.
//
// Caller contracts, not checked at runtime: equal(a, b) implies
// hash(a) == hash(b), and order(a, b) == 0 exactly when equal(a, b).
// Violating either loses or duplicates entries with no runtime symptom.
type Hasher[K any] struct {
	id    *ID
	seed  maphash.Seed
	hash  func(maphash.Seed, K) uint64
	equal func(a, b K) bool
	order func(a, b K) int
}

// NewHasher returns a hasher with a fresh identity and a fresh seed.
// The seed is fixed at construction so every structure built from the
// hasher hashes keys identically for its whole lifetime.
func NewHasher[K any](
	name string,
	hash func(maphash.Seed, K) uint64,
	equal func(a, b K) bool,
	order func(a, b K) int,
) *Hasher[K] {
	return &Hasher[K]{
		id:    &ID{name: name},
		seed:  maphash.MakeSeed(),
		hash:  hash,
		equal: equal,
		order: order,
	}
}

// NewComparableHasher returns a hasher for a comparable key type using
// maphash and ==, with a caller-supplied fallback order.
func NewComparableHasher[K comparable](name string, order func(a, b K) int) *Hasher[K] {
	return NewHasher(name, maphash.Comparable[K],
		func(a, b K) bool { return a == b },
		order)
}

// NaturalHasher returns a hasher for a naturally ordered key type.
func NaturalHasher[K cmp.Ordered](name string) *Hasher[K] {
	return NewComparableHasher(name, cmp.Compare[K])
}

func (h *Hasher[K]) Hash(k K) uint64 {
	return h.hash(h.seed, k)
}

func (h *Hasher[K]) Equal(a, b K) bool {
	return h.equal(a, b)
}

func (h *Hasher[K]) Order(a, b K) int {
	return h.order(a, b)
}

func (h *Hasher[K]) Identity() *ID {
	return h.id
}

// Same reports whether h and o carry the same identity tag.
func (h *Hasher[K]) Same(o *Hasher[K]) bool {
	return h.id == o.id
}

// Comparator returns the fallback order as a comparator sharing the
// hasher's identity.
func (h *Hasher[K]) Comparator() *Comparator[K] {
	return &Comparator[K]{id: h.id, compare: h.order}
}
