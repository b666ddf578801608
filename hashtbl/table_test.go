package hashtbl_test

import (
	"hash/maphash"
	"sort"
	"strconv"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"tangled.dev/go/collection/hashtbl"
	"tangled.dev/go/collection/order"
)

var hashInt = order.NaturalHasher[int]("int keys")

func newTable() *hashtbl.Table[int, string] {
	return hashtbl.New[int, string](hashInt, 0)
}

func TestSetFind(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("Set then Find returns the value", prop.ForAll(
		func(k int, v string) bool {
			tbl := newTable()
			tbl.Set(k, v)
			got, ok := tbl.Find(k)
			return ok && got == v
		},
		gen.Int(),
		gen.AnyString(),
	))
	properties.Property("Set replaces in place", prop.ForAll(
		func(k int, v1, v2 string) bool {
			tbl := newTable()
			tbl.Set(k, v1)
			tbl.Set(k, v2)
			return tbl.At(k) == v2 && tbl.Len() == 1
		},
		gen.Int(),
		gen.AnyString(),
		gen.AnyString(),
	))
	properties.Property("Remove deletes the entry", prop.ForAll(
		func(k int, v string) bool {
			tbl := newTable()
			tbl.Set(k, v)
			return tbl.Remove(k) && !tbl.Contains(k) && !tbl.Remove(k)
		},
		gen.Int(),
		gen.AnyString(),
	))
	properties.Property("table agrees with a model map", prop.ForAll(
		func(keys []int) bool {
			tbl := newTable()
			model := make(map[int]string)
			for _, k := range keys {
				v := strconv.Itoa(k)
				tbl.Set(k, v)
				model[k] = v
			}
			if tbl.Len() != len(model) {
				return false
			}
			for k, v := range model {
				got, ok := tbl.Find(k)
				if !ok || got != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int()),
	))
	properties.TestingRun(t)
}

func TestChange(t *testing.T) {
	tbl := newTable()

	tbl.Change(1, func(v string, ok bool) (string, bool) {
		if ok {
			t.Error("Change on absent key reported present")
		}
		return "one", true
	})
	if tbl.At(1) != "one" {
		t.Errorf("Change failed to insert, got %q", tbl.At(1))
	}

	tbl.Change(1, func(v string, ok bool) (string, bool) {
		if !ok || v != "one" {
			t.Errorf("Change saw (%q, %v)", v, ok)
		}
		return v + "!", true
	})
	if tbl.At(1) != "one!" {
		t.Errorf("Change failed to update, got %q", tbl.At(1))
	}

	tbl.Change(1, func(v string, ok bool) (string, bool) {
		return "", false
	})
	if tbl.Contains(1) {
		t.Error("Change failed to remove")
	}

	tbl.Change(2, func(v string, ok bool) (string, bool) {
		return "", false
	})
	if tbl.Len() != 0 {
		t.Error("Change of an absent key with keep=false stored something")
	}
}

func TestCopyIndependence(t *testing.T) {
	orig := newTable()
	for i := 0; i < 100; i++ {
		orig.Set(i, strconv.Itoa(i))
	}

	cp := orig.Copy()
	cp.Set(7, "changed")
	cp.Remove(8)
	cp.Set(1000, "fresh")
	if orig.At(7) != "7" || !orig.Contains(8) || orig.Contains(1000) {
		t.Error("mutating the copy changed the original")
	}

	orig.Set(9, "changed")
	orig.Remove(10)
	if cp.At(9) != "9" || !cp.Contains(10) {
		t.Error("mutating the original changed the copy")
	}
}

func TestResize(t *testing.T) {
	tbl := newTable()
	const n = 10_000
	for i := 0; i < n; i++ {
		tbl.Set(i, strconv.Itoa(i))
	}
	if tbl.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, tbl.Len())
	}
	for i := 0; i < n; i++ {
		got, ok := tbl.Find(i)
		if !ok || got != strconv.Itoa(i) {
			t.Fatalf("lost key %d after growth: (%q, %v)", i, got, ok)
		}
	}
}

// A hasher that sends every key to one bucket; bucket trees keep
// operations logarithmic in the face of it.
var collidingHash = order.NewHasher("colliding int keys",
	func(seed maphash.Seed, k int) uint64 { return 42 },
	func(a, b int) bool { return a == b },
	func(a, b int) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	},
)

func TestCollidingHasher(t *testing.T) {
	tbl := hashtbl.New[int, string](collidingHash, 0)
	const n = 1000
	for i := n - 1; i >= 0; i-- {
		tbl.Set(i, strconv.Itoa(i))
	}
	if tbl.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, tbl.Len())
	}

	// Everything shares one bucket, so All sees fallback order.
	var keys []int
	for k := range tbl.All() {
		keys = append(keys, k)
	}
	if !sort.IntsAreSorted(keys) {
		t.Error("colliding entries not in fallback order")
	}

	for i := 0; i < n; i += 7 {
		if !tbl.Remove(i) {
			t.Fatalf("failed to remove colliding key %d", i)
		}
	}
	for i := 0; i < n; i++ {
		want := i%7 != 0
		if tbl.Contains(i) != want {
			t.Fatalf("key %d: contains=%v, want %v", i, !want, want)
		}
	}
}

func TestAll(t *testing.T) {
	tbl := newTable()
	want := map[int]string{}
	for i := 0; i < 50; i++ {
		tbl.Set(i, strconv.Itoa(i))
		want[i] = strconv.Itoa(i)
	}
	got := map[int]string{}
	for k, v := range tbl.All() {
		got[k] = v
	}
	if diff := gocmp.Diff(want, got); diff != "" {
		t.Errorf("All mismatch (-want +got):\n%s", diff)
	}
}
