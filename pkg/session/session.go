// Package session groups atomic tree edits into undoable operations.
//
// A [Session] owns a [tree.Tree] and records every applied operation as
// the list of atomic edits that produced it. Undo reverses the latest
// operation's edits in reverse order; redo replays an undone operation.
// Applying a new operation discards the redo history, so the two stacks
// always describe a single linear timeline.
//
// # Atomicity
//
// [Session.Do] applies edits one at a time. If any edit fails, the
// already-applied prefix is rolled back before the error is returned,
// so a failed operation never leaves the tree half-modified.
//
// # Usage
//
// Build a tree through composite operations:
//
//	sess := session.New(tree.New())
//	id, err := sess.InsertNodeAt(tree.NewCard("ancestor"), 0)
//	if err != nil {
//	    return err
//	}
//	if _, err := sess.InsertChild(tree.NewCard("heir"), id); err != nil {
//	    return err
//	}
//	sess.Undo() // removes heir
//	sess.Redo() // restores heir
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// Sentinel errors for history navigation.
var (
	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Session is a tree together with its linear operation history. It is
// not safe for concurrent use; callers serving multiple goroutines must
// serialize access themselves.
type Session struct {
	tree *tree.Tree
	undo [][]tree.Edit
	redo [][]tree.Edit
}

// New creates a session owning t. A nil t starts an empty tree. The
// session assumes sole ownership: mutating t behind the session's back
// invalidates the recorded history.
func New(t *tree.Tree) *Session {
	if t == nil {
		t = tree.New()
	}
	return &Session{tree: t}
}

// Tree returns the session's tree for reading. Callers must apply
// mutations through the session, never directly.
func (s *Session) Tree() *tree.Tree { return s.tree }

// Do applies edits as a single undoable operation. On failure the
// already-applied prefix is rolled back and the tree is unchanged; the
// returned error is the failing edit's *[tree.EditError]. An empty edit
// list is a no-op and records nothing.
func (s *Session) Do(edits ...tree.Edit) error {
	for i, e := range edits {
		if err := s.tree.Apply(e); err != nil {
			if rerr := s.tree.Apply(tree.ReverseEdits(edits[:i])...); rerr != nil {
				panic(fmt.Sprintf("session: rollback failed: %v", rerr))
			}
			return err
		}
	}
	if len(edits) == 0 {
		return nil
	}
	s.undo = append(s.undo, slices.Clone(edits))
	s.redo = nil
	return nil
}

// Undo reverses the most recent operation and moves it to the redo
// stack. Returns [ErrNothingToUndo] when no operation remains.
func (s *Session) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	op := s.undo[len(s.undo)-1]
	// A recorded operation reversed against the state it produced must
	// apply cleanly; failure means the tree was mutated out of band.
	if err := s.tree.Apply(tree.ReverseEdits(op)...); err != nil {
		panic(fmt.Sprintf("session: undo failed: %v", err))
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, op)
	return nil
}

// Redo replays the most recently undone operation. Returns
// [ErrNothingToRedo] when no undone operation remains.
func (s *Session) Redo() error {
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	op := s.redo[len(s.redo)-1]
	if err := s.tree.Apply(op...); err != nil {
		panic(fmt.Sprintf("session: redo failed: %v", err))
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, op)
	return nil
}

// CanUndo reports whether an operation is available to undo.
func (s *Session) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether an undone operation is available to redo.
func (s *Session) CanRedo() bool { return len(s.redo) > 0 }

// History returns the current undo and redo stack depths.
func (s *Session) History() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

// Replace swaps in a different tree and clears all history. It is used
// when loading a document over an open session.
func (s *Session) Replace(t *tree.Tree) {
	if t == nil {
		t = tree.New()
	}
	s.tree = t
	s.undo = nil
	s.redo = nil
}

// InsertNodeAt adds a parentless node in layer y as one operation and
// returns its id. Layer -1 prepends a new shallowest layer; layer
// LayerCount appends a new deepest one.
func (s *Session) InsertNodeAt(card tree.Card, y int) (int, error) {
	edits, err := tree.InsertNodeAt(s.tree, card, y)
	if err != nil {
		return 0, err
	}
	if err := s.Do(edits...); err != nil {
		return 0, err
	}
	return s.tree.LastID(), nil
}

// InsertChild adds a child of parentID as one operation and returns the
// new node's id.
func (s *Session) InsertChild(card tree.Card, parentID int) (int, error) {
	if err := s.Do(tree.InsertChild(s.tree, card, parentID)...); err != nil {
		return 0, err
	}
	return s.tree.LastID(), nil
}

// InsertParent adds a parent of childID as one operation and returns
// the new node's id.
func (s *Session) InsertParent(card tree.Card, childID int) (int, error) {
	if err := s.Do(tree.InsertParent(s.tree, card, childID)...); err != nil {
		return 0, err
	}
	return s.tree.LastID(), nil
}

// DeleteNode removes the node as one operation, orphaning its children.
func (s *Session) DeleteNode(id int) error {
	return s.Do(tree.DeleteNode(s.tree, id)...)
}

// SetCard replaces the node's card as one operation.
func (s *Session) SetCard(id int, card tree.Card) error {
	return s.Do(tree.SetCard(s.tree, id, card)...)
}

// SetGenerationIndex adjusts the shared base so that the node's
// generation index under definition giIndex equals gi, as one
// operation. Every node's index under that definition shifts together.
func (s *Session) SetGenerationIndex(id, giIndex, gi int) error {
	edits, err := tree.SetGenerationIndex(s.tree, id, giIndex, gi)
	if err != nil {
		return err
	}
	return s.Do(edits...)
}
