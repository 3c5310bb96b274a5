package session

import (
	"errors"
	"testing"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

func decode(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := tree.Decode(s)
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", s, err)
	}
	return tr
}

func TestSession_DoUndoRedo(t *testing.T) {
	sess := New(nil)

	aID, err := sess.InsertNodeAt(tree.NewCard("a"), 0)
	if err != nil {
		t.Fatalf("InsertNodeAt() error: %v", err)
	}
	if aID != 0 {
		t.Fatalf("InsertNodeAt() id = %d, want 0", aID)
	}
	if _, err := sess.InsertChild(tree.NewCard("b"), aID); err != nil {
		t.Fatalf("InsertChild() error: %v", err)
	}
	if got := sess.Tree().Encode(); got != "a(b);b;" {
		t.Fatalf("after inserts = %q, want %q", got, "a(b);b;")
	}

	if err := sess.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if got := sess.Tree().Encode(); got != "a;" {
		t.Errorf("after undo = %q, want %q", got, "a;")
	}
	if err := sess.Redo(); err != nil {
		t.Fatalf("Redo() error: %v", err)
	}
	if got := sess.Tree().Encode(); got != "a(b);b;" {
		t.Errorf("after redo = %q, want %q", got, "a(b);b;")
	}

	// Unwind everything and check the boundary errors.
	for sess.CanUndo() {
		if err := sess.Undo(); err != nil {
			t.Fatalf("Undo() error: %v", err)
		}
	}
	if got := sess.Tree().Len(); got != 0 {
		t.Errorf("fully undone tree has %d nodes, want 0", got)
	}
	if err := sess.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() on empty stack = %v, want ErrNothingToUndo", err)
	}
	for sess.CanRedo() {
		if err := sess.Redo(); err != nil {
			t.Fatalf("Redo() error: %v", err)
		}
	}
	if got := sess.Tree().Encode(); got != "a(b);b;" {
		t.Errorf("fully redone = %q, want %q", got, "a(b);b;")
	}
	if err := sess.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() on empty stack = %v, want ErrNothingToRedo", err)
	}
}

func TestSession_NewOperationClearsRedo(t *testing.T) {
	sess := New(decode(t, "a;"))
	if _, err := sess.InsertChild(tree.NewCard("b"), 0); err != nil {
		t.Fatalf("InsertChild() error: %v", err)
	}
	if err := sess.Undo(); err != nil {
		t.Fatalf("Undo() error: %v", err)
	}
	if !sess.CanRedo() {
		t.Fatal("CanRedo() = false after undo, want true")
	}
	if _, err := sess.InsertChild(tree.NewCard("c"), 0); err != nil {
		t.Fatalf("InsertChild() error: %v", err)
	}
	if sess.CanRedo() {
		t.Error("CanRedo() = true after new operation, want false")
	}
	if err := sess.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() = %v, want ErrNothingToRedo", err)
	}
}

func TestSession_DoRollsBackFailedOperation(t *testing.T) {
	tr := decode(t, "a;")
	sess := New(tr)

	// The second edit links two nodes of the same layer, which must
	// fail and unwind the first edit.
	id := tr.ObtainID()
	err := sess.Do(
		tree.NewRightmostNode{Y: 0, ID: id, Card: tree.NewCard("x")},
		tree.SetAsChild{ParentID: 0, ChildID: id},
	)
	if !errors.Is(err, tree.ErrLayerAdjacency) {
		t.Fatalf("Do() error = %v, want ErrLayerAdjacency", err)
	}
	if got := tr.Encode(); got != "a;" {
		t.Errorf("tree after failed operation = %q, want %q", got, "a;")
	}
	if sess.CanUndo() {
		t.Error("CanUndo() = true after failed operation, want false")
	}
}

func TestSession_EmptyOperationRecordsNothing(t *testing.T) {
	sess := New(decode(t, "a;"))
	if err := sess.Do(); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if sess.CanUndo() {
		t.Error("CanUndo() = true after empty operation, want false")
	}
}

func TestSession_Replace(t *testing.T) {
	sess := New(nil)
	if _, err := sess.InsertNodeAt(tree.NewCard("a"), 0); err != nil {
		t.Fatalf("InsertNodeAt() error: %v", err)
	}
	sess.Replace(decode(t, "x(y);y;"))
	if got := sess.Tree().Encode(); got != "x(y);y;" {
		t.Errorf("tree after replace = %q, want %q", got, "x(y);y;")
	}
	if undo, redo := sess.History(); undo != 0 || redo != 0 {
		t.Errorf("History() = (%d, %d) after replace, want (0, 0)", undo, redo)
	}
}

func TestSession_CompositesUndoCleanly(t *testing.T) {
	start := "a(b,c);b,c;"
	sess := New(decode(t, start))

	// ids: a=0, b=1, c=2
	if _, err := sess.InsertParent(tree.NewCard("p"), 0); err != nil {
		t.Fatalf("InsertParent() error: %v", err)
	}
	if err := sess.SetCard(1, tree.NewCard("renamed")); err != nil {
		t.Fatalf("SetCard() error: %v", err)
	}
	if err := sess.SetGenerationIndex(2, 0, 10); err != nil {
		t.Fatalf("SetGenerationIndex() error: %v", err)
	}
	if err := sess.DeleteNode(2); err != nil {
		t.Fatalf("DeleteNode() error: %v", err)
	}

	want := decode(t, start)
	for sess.CanUndo() {
		if err := sess.Undo(); err != nil {
			t.Fatalf("Undo() error: %v", err)
		}
	}
	if !sess.Tree().Equal(want) {
		t.Errorf("fully undone tree = %q, want %q", sess.Tree().Encode(), start)
	}
}

func TestSession_SetGenerationIndexBadDefinition(t *testing.T) {
	sess := New(decode(t, "a;"))
	if err := sess.SetGenerationIndex(0, 5, 1); !errors.Is(err, tree.ErrUnknownGIDef) {
		t.Errorf("SetGenerationIndex() = %v, want ErrUnknownGIDef", err)
	}
	if sess.CanUndo() {
		t.Error("CanUndo() = true after failed operation, want false")
	}
}
