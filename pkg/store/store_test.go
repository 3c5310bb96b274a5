package store

import (
	"context"
	"errors"
	"testing"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

func newDoc(t *testing.T, name, repr string) *Document {
	t.Helper()
	tr, err := tree.Decode(repr)
	if err != nil {
		t.Fatalf("Decode(%q) error: %v", repr, err)
	}
	d, err := NewDocument(name, tr)
	if err != nil {
		t.Fatalf("NewDocument() error: %v", err)
	}
	return d
}

func TestDocument_TreeRoundTrip(t *testing.T) {
	d := newDoc(t, "ancestors", "a(b,c);b,c;")
	tr, err := d.Tree()
	if err != nil {
		t.Fatalf("Tree() error: %v", err)
	}
	if got := tr.Encode(); got != "a(b,c);b,c;" {
		t.Errorf("decoded tree = %q, want %q", got, "a(b,c);b,c;")
	}
	if d.ID == "" {
		t.Error("NewDocument() assigned empty id")
	}
}

func TestFileStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close(ctx)

	d := newDoc(t, "ancestors", "a;")
	if err := s.Put(ctx, d); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Name != "ancestors" || got.ID != d.ID {
		t.Errorf("Get() = %+v, want id %s name %s", got, d.ID, "ancestors")
	}

	// Replace the tree and write back.
	tr, err := got.Tree()
	if err != nil {
		t.Fatalf("Tree() error: %v", err)
	}
	if err := tr.Apply(tree.NewRightmostNode{Y: 0, ID: tr.ObtainID(), Card: tree.NewCard("b")}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if err := got.SetTree(tr); err != nil {
		t.Fatalf("SetTree() error: %v", err)
	}
	if err := s.Put(ctx, got); err != nil {
		t.Fatalf("Put() update error: %v", err)
	}
	again, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() after update error: %v", err)
	}
	tr2, err := again.Tree()
	if err != nil {
		t.Fatalf("Tree() after update error: %v", err)
	}
	if got := tr2.Encode(); got != "a,b;" {
		t.Errorf("updated tree = %q, want %q", got, "a,b;")
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, d.ID); err != nil {
		t.Errorf("Delete() of absent id = %v, want nil", err)
	}
}

func TestFileStore_ListSortedByName(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close(ctx)

	for _, name := range []string{"zhang", "anders", "mori"} {
		if err := s.Put(ctx, newDoc(t, name, "a;")); err != nil {
			t.Fatalf("Put(%s) error: %v", name, err)
		}
	}
	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"anders", "mori", "zhang"}
	if len(docs) != len(want) {
		t.Fatalf("List() returned %d documents, want %d", len(docs), len(want))
	}
	for i, name := range want {
		if docs[i].Name != name {
			t.Errorf("List()[%d].Name = %q, want %q", i, docs[i].Name, name)
		}
	}
}
