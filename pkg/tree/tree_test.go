package tree

import (
	"slices"
	"testing"
)

func TestObtainID_Monotonic(t *testing.T) {
	tr := New()
	if got := tr.LastID(); got != -1 {
		t.Errorf("LastID() on empty tree = %d, want -1", got)
	}
	for want := 0; want < 5; want++ {
		if got := tr.ObtainID(); got != want {
			t.Errorf("ObtainID() = %d, want %d", got, want)
		}
	}
	// Deleting a node never frees its id.
	tr2, _ := Decode("a;")
	edits := DeleteNode(tr2, 0)
	if err := tr2.Apply(edits...); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := tr2.ObtainID(); got != 1 {
		t.Errorf("ObtainID() after delete = %d, want 1", got)
	}
}

func TestTree_Queries(t *testing.T) {
	tr, err := Decode("a(b,c);b,c(d);d;")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := tr.LayerCount(); got != 3 {
		t.Errorf("LayerCount() = %d, want 3", got)
	}
	if got := tr.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if got := tr.Layer(1); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Layer(1) = %v, want [1 2]", got)
	}
	if got := tr.ChildIDs(0); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("ChildIDs(0) = %v, want [1 2]", got)
	}
	if got := tr.ParentID(3); got != 2 {
		t.Errorf("ParentID(3) = %d, want 2", got)
	}
	if got := tr.ParentID(0); got >= 0 {
		t.Errorf("ParentID(0) = %d, want negative", got)
	}
	y, x := tr.Position(2)
	if y != 1 || x != 1 {
		t.Errorf("Position(2) = (%d, %d), want (1, 1)", y, x)
	}
	if !tr.Contains(3) || tr.Contains(42) {
		t.Errorf("Contains() misreports membership")
	}
}

func TestTree_UnknownIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Card(42) on empty tree did not panic")
		}
	}()
	New().Card(42)
}

func TestCard_Equal(t *testing.T) {
	a := Card{Name: "a", BirthYear: Year(1900), Biography: "x"}
	b := Card{Name: "a", BirthYear: Year(1900), Biography: "x"}
	if !a.Equal(b) {
		t.Errorf("equal cards with distinct year pointers reported unequal")
	}
	b.DeathYear = Year(1960)
	if a.Equal(b) {
		t.Errorf("cards with different death years reported equal")
	}
}

func TestComputeGI_Scenario(t *testing.T) {
	tr, err := Decode("a(b,c,d);b(e,f),c(),d(g);e(),f(h),g();h()")
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	tr.GI.Defs = append(tr.GI.Defs, GenerationIndexDefinition{Name: "archaic", Offset: -10})

	b, h := 1, 7
	if got := tr.ComputeGI(b); !slices.Equal(got, []int{2, -8}) {
		t.Errorf("ComputeGI(b) = %v, want [2 -8]", got)
	}

	// Pinning h's standard index to 17 re-solves the shared base.
	edits, err := SetGenerationIndex(tr, h, 0, 17)
	if err != nil {
		t.Fatalf("SetGenerationIndex() error: %v", err)
	}
	if err := tr.Apply(edits...); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := tr.ComputeGI(h)[0]; got != 17 {
		t.Errorf("ComputeGI(h)[0] = %d, want 17", got)
	}
	if got := tr.ComputeGI(b); !slices.Equal(got, []int{15, 5}) {
		t.Errorf("ComputeGI(b) = %v, want [15 5]", got)
	}

	// Pinning under the offset definition shifts everything again.
	edits, err = SetGenerationIndex(tr, h, 1, 6)
	if err != nil {
		t.Fatalf("SetGenerationIndex() error: %v", err)
	}
	if err := tr.Apply(edits...); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := tr.ComputeGI(b); !slices.Equal(got, []int{14, 4}) {
		t.Errorf("ComputeGI(b) = %v, want [14 4]", got)
	}

	// Same-layer nodes always agree on every definition.
	for _, id := range tr.Layer(1) {
		if got := tr.ComputeGI(id); !slices.Equal(got, tr.ComputeGI(1)) {
			t.Errorf("ComputeGI(%d) = %v, want %v", id, got, tr.ComputeGI(1))
		}
	}
}

func TestSetGenerationIndex_UnknownDef(t *testing.T) {
	tr, _ := Decode("a;")
	if _, err := SetGenerationIndex(tr, 0, 3, 5); err == nil {
		t.Errorf("SetGenerationIndex() with bad definition index did not fail")
	}
}
