package compare_test

import (
	"testing"

	"followdeck/internal/compare"
	"followdeck/internal/model"
)

func accounts(handles ...string) []model.Account {
	out := make([]model.Account, len(handles))
	for i, h := range handles {
		out[i] = model.Account{ID: h, Handle: h, DisplayName: h}
	}
	return out
}

func handlesOf(accounts []model.Account) []string {
	out := make([]string, len(accounts))
	for i, a := range accounts {
		out[i] = a.Handle
	}
	return out
}

func TestApply_IntersectionAndDifference(t *testing.T) {
	// List X has {a,b,c}, list Y has {b,c,d}
	x := accounts("a", "b", "c")
	union := compare.Union([][]model.Account{accounts("b", "c", "d")})

	got := handlesOf(compare.Apply(x, union, compare.ModeIntersection, nil))
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("intersection = %v, want [b c]", got)
	}

	got = handlesOf(compare.Apply(x, union, compare.ModeDifference, nil))
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("difference = %v, want [a]", got)
	}
}

func TestApply_PartitionProperty(t *testing.T) {
	// intersection ∪ difference must reproduce the active list exactly
	x := accounts("a", "b", "c", "d", "e")
	union := compare.Union([][]model.Account{accounts("b", "d", "z")})

	inter := compare.Apply(x, union, compare.ModeIntersection, nil)
	diff := compare.Apply(x, union, compare.ModeDifference, nil)

	if len(inter)+len(diff) != len(x) {
		t.Fatalf("partition sizes: %d + %d != %d", len(inter), len(diff), len(x))
	}
	seen := map[string]int{}
	for _, a := range inter {
		seen[a.Handle]++
	}
	for _, a := range diff {
		seen[a.Handle]++
	}
	for _, a := range x {
		if seen[a.Handle] != 1 {
			t.Errorf("handle %q appears %d times across the partition", a.Handle, seen[a.Handle])
		}
	}
}

func TestApply_EmptyUnionPassesThrough(t *testing.T) {
	x := accounts("a", "b")

	for _, mode := range []compare.Mode{compare.ModeNone, compare.ModeIntersection, compare.ModeDifference} {
		got := compare.Apply(x, compare.HandleSet{}, mode, nil)
		if len(got) != len(x) {
			t.Errorf("mode %v: empty union should pass all through, got %d", mode, len(got))
		}
	}

	// difference(A, {}) = A
	got := compare.Apply(x, compare.Union(nil), compare.ModeDifference, nil)
	if len(got) != 2 {
		t.Errorf("difference against nothing should keep everything, got %d", len(got))
	}
}

func TestApply_ExcludeRefinement(t *testing.T) {
	x := accounts("a", "b", "c")
	union := compare.Union([][]model.Account{accounts("a", "b", "c")})
	exclude := compare.Handles(accounts("b"))

	got := handlesOf(compare.Apply(x, union, compare.ModeIntersection, exclude))
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("refined intersection = %v, want [a c]", got)
	}

	// The refinement never applies in difference mode
	diffUnion := compare.Union([][]model.Account{accounts("z")})
	got = handlesOf(compare.Apply(x, diffUnion, compare.ModeDifference, exclude))
	if len(got) != 3 {
		t.Errorf("difference must ignore the exclusion set, got %v", got)
	}
}

func TestUnion_FirstOccurrenceWins(t *testing.T) {
	union := compare.Union([][]model.Account{
		accounts("a", "b"),
		accounts("b", "c"),
	})
	if len(union) != 3 {
		t.Errorf("union size = %d, want 3", len(union))
	}
	for _, h := range []string{"a", "b", "c"} {
		if _, ok := union[h]; !ok {
			t.Errorf("union missing %q", h)
		}
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	x := accounts("e", "a", "d", "b")
	union := compare.Union([][]model.Account{accounts("a", "b", "e")})

	got := handlesOf(compare.Apply(x, union, compare.ModeIntersection, nil))
	want := []string{"e", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order not preserved: got %v, want %v", got, want)
		}
	}
}
