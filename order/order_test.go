package order_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"tangled.dev/go/collection/order"
)

func TestComparatorIdentity(t *testing.T) {
	a := order.Natural[int]("ints")
	b := order.Natural[int]("ints")
	if !a.Same(a) {
		t.Error("comparator not Same as itself")
	}
	if a.Same(b) {
		t.Error("independently built comparators compare Same")
	}
	if a.Identity() == b.Identity() {
		t.Error("independently built comparators share an identity tag")
	}
}

func TestDeriveSharesIdentity(t *testing.T) {
	type wrapped struct {
		key int
	}
	base := order.Natural[int]("ints")
	derived := order.Derive(base, func(w wrapped) int { return w.key })
	if derived.Identity() != base.Identity() {
		t.Error("derived comparator does not share the base identity")
	}
	if derived.Compare(wrapped{key: 1}, wrapped{key: 2}) >= 0 {
		t.Error("derived comparator ignores the projected key")
	}
}

func TestHasherComparatorSharesIdentity(t *testing.T) {
	h := order.NaturalHasher[string]("strings")
	if h.Comparator().Identity() != h.Identity() {
		t.Error("fallback comparator does not share the hasher identity")
	}
}

func TestNaturalOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	cmp := order.Natural[int]("ints")

	properties.Property("Compare agrees with <", prop.ForAll(
		func(a, b int) bool {
			switch {
			case a < b:
				return cmp.Compare(a, b) < 0
			case a > b:
				return cmp.Compare(a, b) > 0
			default:
				return cmp.Compare(a, b) == 0
			}
		},
		gen.Int(),
		gen.Int(),
	))
	properties.Property("Compare is antisymmetric", prop.ForAll(
		func(a, b int) bool {
			return cmp.Compare(a, b) == -cmp.Compare(b, a)
		},
		gen.Int(),
		gen.Int(),
	))
	properties.TestingRun(t)
}

func TestNaturalHasher(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	h := order.NaturalHasher[string]("strings")

	properties.Property("Hash is deterministic", prop.ForAll(
		func(s string) bool {
			return h.Hash(s) == h.Hash(s)
		},
		gen.AnyString(),
	))
	properties.Property("Equal implies equal hashes", prop.ForAll(
		func(s string) bool {
			same := strings.Clone(s)
			return h.Equal(s, same) && h.Hash(s) == h.Hash(same)
		},
		gen.AnyString(),
	))
	properties.Property("Order is consistent with Equal", prop.ForAll(
		func(a, b string) bool {
			return (h.Order(a, b) == 0) == h.Equal(a, b)
		},
		gen.AnyString(),
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestHasherIdentity(t *testing.T) {
	a := order.NaturalHasher[int]("ints")
	b := order.NaturalHasher[int]("ints")
	if !a.Same(a) {
		t.Error("hasher not Same as itself")
	}
	if a.Same(b) {
		t.Error("independently built hashers compare Same")
	}
}
