package tree

import (
	"errors"
	"testing"
)

// buildSixNodeEdits constructs the canonical six-node edit sequence
// yielding "c(a,d);a(b),d;b(e,f);e,f;".
func buildSixNodeEdits(t *Tree) []Edit {
	edits := []Edit{
		NewLayer{Y: 0},
		NewLayer{Y: 1},
		NewRightmostNode{Y: 0, ID: t.ObtainID(), Card: NewCard("c")},
		NewRightmostNode{Y: 1, ID: t.ObtainID(), Card: NewCard("b")},
		NewLayer{Y: 1},
		NewRightmostNode{Y: 1, ID: t.ObtainID(), Card: NewCard("a")},
		NewLayer{Y: 3},
		NewRightmostNode{Y: 3, ID: t.ObtainID(), Card: NewCard("f")},
		NewRightmostNode{Y: 3, ID: t.ObtainID(), Card: NewCard("e")},
		MoveNode{ID: t.LastID(), OldX: 1, NewX: 0},
		NewRightmostNode{Y: 1, ID: t.ObtainID(), Card: NewCard("d")},
	}
	c, b, a, f, e, d := 0, 1, 2, 3, 4, 5
	return append(edits,
		SetAsChild{ParentID: c, ChildID: a},
		SetAsChild{ParentID: c, ChildID: d},
		SetAsChild{ParentID: a, ChildID: b},
		SetAsChild{ParentID: b, ChildID: e},
		SetAsChild{ParentID: b, ChildID: f},
	)
}

func TestApply_SixNodeSequence(t *testing.T) {
	tr := New()
	edits := buildSixNodeEdits(tr)
	if err := tr.Apply(edits...); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got, want := tr.Encode(), "c(a,d);a(b),d;b(e,f);e,f;"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}

	// Reverse everything after the first four edits; only the bare
	// c-over-b skeleton should remain.
	if err := tr.Apply(ReverseEdits(edits[4:])...); err != nil {
		t.Fatalf("Apply(reverse) error: %v", err)
	}
	if got, want := tr.Encode(), "c;b;"; got != want {
		t.Errorf("Encode() after partial reverse = %q, want %q", got, want)
	}
}

func TestApply_FullInversionRestoresState(t *testing.T) {
	const fixture = "a(b,c),g(h);b(d),c(e,f),h(i);d,e,f,i;"
	before, err := Decode(fixture)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	working, _ := Decode(fixture)

	// A mixed run touching every edit kind. Builders read the current
	// state, so each sequence is built and applied before the next.
	var applied []Edit
	apply := func(seq []Edit) {
		t.Helper()
		if err := working.Apply(seq...); err != nil {
			t.Fatalf("Apply() error: %v", err)
		}
		applied = append(applied, seq...)
	}
	apply(InsertChild(working, NewCard("x"), 2))                        // new child of b
	apply(SetCard(working, 5, Card{Name: "renamed", Biography: "bio"})) // rewrite d's card
	seq, err := SetGenerationIndex(working, 0, 0, 10)
	if err != nil {
		t.Fatalf("SetGenerationIndex() error: %v", err)
	}
	apply(seq)
	apply(DeleteNode(working, 4)) // delete h: parent link to g and child link to i

	if err := working.Apply(ReverseEdits(applied)...); err != nil {
		t.Fatalf("Apply(reverse) error: %v", err)
	}
	if !working.Equal(before) {
		t.Errorf("reversed tree differs from original:\n got %q\nwant %q", working.Encode(), before.Encode())
	}
}

func TestApply_StaleRightmostDelete(t *testing.T) {
	tr, _ := Decode("a;b,c;")
	_, x := tr.Position(2)
	if x != 1 {
		t.Fatalf("Position(2) x = %d, want 1", x)
	}
	// Wrong id: rightmost of layer 1 is c (id 2), not b (id 1).
	err := tr.Apply(DeleteRightmostNode{Y: 1, ID: 1, Card: NewCard("b")})
	if !errors.Is(err, ErrStaleRightmost) {
		t.Errorf("Apply() error = %v, want ErrStaleRightmost", err)
	}
	// Wrong card for the right id.
	err = tr.Apply(DeleteRightmostNode{Y: 1, ID: 2, Card: NewCard("other")})
	if !errors.Is(err, ErrStaleRightmost) {
		t.Errorf("Apply() error = %v, want ErrStaleRightmost", err)
	}
}

func TestApply_RelationErrors(t *testing.T) {
	tr, _ := Decode("a(b);b,c;d;")
	a, b, c, d := 0, 1, 2, 3

	if err := tr.Apply(SetAsChild{ParentID: a, ChildID: b}); !errors.Is(err, ErrDuplicateRelation) {
		t.Errorf("duplicate SetAsChild error = %v, want ErrDuplicateRelation", err)
	}
	if err := tr.Apply(SetAsChild{ParentID: a, ChildID: d}); !errors.Is(err, ErrLayerAdjacency) {
		t.Errorf("non-adjacent SetAsChild error = %v, want ErrLayerAdjacency", err)
	}
	if err := tr.Apply(UnsetAsChild{ParentID: a, ChildID: c}); !errors.Is(err, ErrMissingRelation) {
		t.Errorf("missing UnsetAsChild error = %v, want ErrMissingRelation", err)
	}
}

func TestApply_MoveNodeErrors(t *testing.T) {
	tr, _ := Decode("a,b,c;")
	if err := tr.Apply(MoveNode{ID: 0, OldX: 2, NewX: 0}); !errors.Is(err, ErrPositionMismatch) {
		t.Errorf("move with wrong old x error = %v, want ErrPositionMismatch", err)
	}
	if err := tr.Apply(MoveNode{ID: 0, OldX: 0, NewX: 5}); !errors.Is(err, ErrPositionMismatch) {
		t.Errorf("move out of range error = %v, want ErrPositionMismatch", err)
	}
	// No-op moves are always valid.
	if err := tr.Apply(MoveNode{ID: 0, OldX: 0, NewX: 0}); err != nil {
		t.Errorf("no-op move error = %v, want nil", err)
	}
}

func TestApply_MoveNodeShiftsNeighbors(t *testing.T) {
	tr, _ := Decode("a,b,c,d;")
	if err := tr.Apply(MoveNode{ID: 3, OldX: 3, NewX: 1}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got, want := tr.Encode(), "a,d,b,c;"; got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
	for i, id := range tr.Layer(0) {
		if _, x := tr.Position(id); x != i {
			t.Errorf("Position(%d) x = %d, want %d", id, x, i)
		}
	}
}

func TestApply_LayerErrors(t *testing.T) {
	tr, _ := Decode("a;b;")
	if err := tr.Apply(NewRightmostNode{Y: 2, ID: tr.ObtainID(), Card: NewCard("x")}); !errors.Is(err, ErrLayerBounds) {
		t.Errorf("append to missing layer error = %v, want ErrLayerBounds", err)
	}
	if err := tr.Apply(DeleteLayer{Y: 0}); !errors.Is(err, ErrLayerNotEmpty) {
		t.Errorf("delete populated layer error = %v, want ErrLayerNotEmpty", err)
	}
	if err := tr.Apply(NewLayer{Y: 5}); !errors.Is(err, ErrLayerBounds) {
		t.Errorf("insert layer out of range error = %v, want ErrLayerBounds", err)
	}
}

func TestApply_ModifyCardStale(t *testing.T) {
	tr, _ := Decode("a;")
	err := tr.Apply(ModifyCard{ID: 0, OldCard: NewCard("not-a"), NewCard: NewCard("b")})
	if !errors.Is(err, ErrStaleCard) {
		t.Errorf("stale ModifyCard error = %v, want ErrStaleCard", err)
	}
	if err := tr.Apply(ModifyCard{ID: 0, OldCard: NewCard("a"), NewCard: NewCard("b")}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if got := tr.Card(0).Name; got != "b" {
		t.Errorf("Card(0).Name = %q, want %q", got, "b")
	}
}

func TestEditError_Attribution(t *testing.T) {
	tr, _ := Decode("a;b;")
	err := tr.Apply(SetAsChild{ParentID: 0, ChildID: 1}, SetAsChild{ParentID: 0, ChildID: 1})
	var editErr *EditError
	if !errors.As(err, &editErr) {
		t.Fatalf("Apply() error = %T, want *EditError", err)
	}
	if _, ok := editErr.Edit.(SetAsChild); !ok {
		t.Errorf("EditError.Edit = %T, want SetAsChild", editErr.Edit)
	}
	if !errors.Is(err, ErrDuplicateRelation) {
		t.Errorf("errors.Is(ErrDuplicateRelation) = false, want true")
	}
	// The first edit of the pair stays applied.
	if got := tr.ParentID(1); got != 0 {
		t.Errorf("ParentID(1) = %d, want 0", got)
	}
}
