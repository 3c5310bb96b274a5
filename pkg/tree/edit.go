package tree

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrLayerBounds is returned when an edit names a layer or position
	// that does not exist (or, for NewLayer, is outside [0, LayerCount]).
	ErrLayerBounds = errors.New("layer index out of range")

	// ErrLayerNotEmpty is returned by DeleteLayer when the layer still
	// holds nodes. Only empty layers may be removed.
	ErrLayerNotEmpty = errors.New("layer is not empty")

	// ErrStaleRightmost is returned by DeleteRightmostNode when the
	// current rightmost node of the layer does not match the edit's id
	// and card. This defends against applying a stale inverse.
	ErrStaleRightmost = errors.New("rightmost node does not match edit")

	// ErrStaleCard is returned by ModifyCard when the node's current
	// card differs from the edit's recorded old card.
	ErrStaleCard = errors.New("current card does not match edit")

	// ErrDuplicateRelation is returned by SetAsChild when the relation
	// already exists or the child already has a parent.
	ErrDuplicateRelation = errors.New("parent-child relation already set")

	// ErrMissingRelation is returned by UnsetAsChild when no such
	// parent-child relation exists.
	ErrMissingRelation = errors.New("no existing parent-child relation")

	// ErrLayerAdjacency is returned when a relation would not connect a
	// parent to a child exactly one layer below it.
	ErrLayerAdjacency = errors.New("child layer is not parent layer plus one")

	// ErrPositionMismatch is returned by MoveNode when the recorded old
	// x does not match the node's actual position, or the new x is
	// outside the layer.
	ErrPositionMismatch = errors.New("recorded x does not match actual position")

	// ErrUnknownGIDef is returned by ModifyGenerationIndex when the
	// definition index is out of range.
	ErrUnknownGIDef = errors.New("unknown generation-index definition")
)

// Edit is one atomic, independently reversible tree edit. The set of
// implementations is closed: edits are the only legal way to mutate a
// Tree, and each one validates its own invariants before applying.
type Edit interface {
	// Reverse returns the edit that undoes this one.
	Reverse() Edit

	fmt.Stringer

	apply(t *Tree) error
}

// EditError reports a structural edit violation, naming the offending
// edit and wrapping the violated-invariant sentinel.
type EditError struct {
	Edit Edit
	Err  error
}

func (e *EditError) Error() string { return fmt.Sprintf("%s: %v", e.Edit, e.Err) }

// Unwrap returns the sentinel invariant error.
func (e *EditError) Unwrap() error { return e.Err }

// Apply applies edits in order, validating each one. The first failing
// edit is reported as an [*EditError]; edits before it remain applied,
// so callers needing rollback must reverse the partial prefix
// themselves (see [ReverseEdits]).
func (t *Tree) Apply(edits ...Edit) error {
	for _, e := range edits {
		if err := e.apply(t); err != nil {
			return &EditError{Edit: e, Err: err}
		}
	}
	return nil
}

// ReverseEdits returns the inverse of an edit sequence: each edit
// reversed, in reverse list order. Applying it after the original
// sequence restores the tree to its prior state.
func ReverseEdits(edits []Edit) []Edit {
	rev := make([]Edit, len(edits))
	for i, e := range edits {
		rev[len(edits)-1-i] = e.Reverse()
	}
	return rev
}

// NewRightmostNode appends a new node at the right end of layer Y.
// The layer must already exist.
type NewRightmostNode struct {
	Y    int
	ID   int
	Card Card
}

// Reverse returns the matching DeleteRightmostNode.
func (e NewRightmostNode) Reverse() Edit { return DeleteRightmostNode(e) }

func (e NewRightmostNode) String() string {
	return fmt.Sprintf("NewRightmostNode(y=%d, id=%d, name=%q)", e.Y, e.ID, e.Card.Name)
}

func (e NewRightmostNode) apply(t *Tree) error {
	if e.Y < 0 || e.Y >= len(t.layers) {
		return ErrLayerBounds
	}
	t.nodes[e.ID] = &node{id: e.ID, card: e.Card, parentID: -1}
	t.index[e.ID] = position{y: e.Y, x: len(t.layers[e.Y])}
	t.layers[e.Y] = append(t.layers[e.Y], e.ID)
	return nil
}

// DeleteRightmostNode removes the rightmost node of layer Y. The
// current rightmost node must match ID and Card exactly, which guards
// against stale inverses built from an outdated tree state.
type DeleteRightmostNode struct {
	Y    int
	ID   int
	Card Card
}

// Reverse returns the matching NewRightmostNode.
func (e DeleteRightmostNode) Reverse() Edit { return NewRightmostNode(e) }

func (e DeleteRightmostNode) String() string {
	return fmt.Sprintf("DeleteRightmostNode(y=%d, id=%d, name=%q)", e.Y, e.ID, e.Card.Name)
}

func (e DeleteRightmostNode) apply(t *Tree) error {
	if e.Y < 0 || e.Y >= len(t.layers) || len(t.layers[e.Y]) == 0 {
		return ErrLayerBounds
	}
	layer := t.layers[e.Y]
	last := layer[len(layer)-1]
	if last != e.ID || !t.nodes[last].card.Equal(e.Card) {
		return ErrStaleRightmost
	}
	t.layers[e.Y] = layer[:len(layer)-1]
	delete(t.nodes, e.ID)
	delete(t.index, e.ID)
	return nil
}

// NewLayer inserts an empty layer at index Y, shifting every node in
// layers at or below Y down by one.
type NewLayer struct {
	Y int
}

// Reverse returns the matching DeleteLayer.
func (e NewLayer) Reverse() Edit { return DeleteLayer(e) }

func (e NewLayer) String() string { return fmt.Sprintf("NewLayer(y=%d)", e.Y) }

func (e NewLayer) apply(t *Tree) error {
	if e.Y < 0 || e.Y > len(t.layers) {
		return ErrLayerBounds
	}
	for _, layer := range t.layers[e.Y:] {
		for _, id := range layer {
			pos := t.index[id]
			pos.y++
			t.index[id] = pos
		}
	}
	t.layers = slices.Insert(t.layers, e.Y, []int{})
	return nil
}

// DeleteLayer removes the empty layer at index Y, shifting every node
// in layers below Y up by one.
type DeleteLayer struct {
	Y int
}

// Reverse returns the matching NewLayer.
func (e DeleteLayer) Reverse() Edit { return NewLayer(e) }

func (e DeleteLayer) String() string { return fmt.Sprintf("DeleteLayer(y=%d)", e.Y) }

func (e DeleteLayer) apply(t *Tree) error {
	if e.Y < 0 || e.Y >= len(t.layers) {
		return ErrLayerBounds
	}
	if len(t.layers[e.Y]) != 0 {
		return ErrLayerNotEmpty
	}
	for _, layer := range t.layers[e.Y+1:] {
		for _, id := range layer {
			pos := t.index[id]
			pos.y--
			t.index[id] = pos
		}
	}
	t.layers = slices.Delete(t.layers, e.Y, e.Y+1)
	return nil
}

// SetAsChild establishes a parent-child relation. The child must be
// parentless and exactly one layer below the parent.
type SetAsChild struct {
	ParentID int
	ChildID  int
}

// Reverse returns the matching UnsetAsChild.
func (e SetAsChild) Reverse() Edit { return UnsetAsChild(e) }

func (e SetAsChild) String() string {
	return fmt.Sprintf("SetAsChild(parent=%d, child=%d)", e.ParentID, e.ChildID)
}

func (e SetAsChild) apply(t *Tree) error {
	parent := t.mustNode(e.ParentID)
	child := t.mustNode(e.ChildID)
	if child.parentID >= 0 || slices.Contains(parent.childIDs, e.ChildID) {
		return ErrDuplicateRelation
	}
	if t.index[e.ChildID].y != t.index[e.ParentID].y+1 {
		return ErrLayerAdjacency
	}
	parent.childIDs = append(parent.childIDs, e.ChildID)
	child.parentID = e.ParentID
	return nil
}

// UnsetAsChild clears a parent-child relation. The relation must exist
// on both ends.
type UnsetAsChild struct {
	ParentID int
	ChildID  int
}

// Reverse returns the matching SetAsChild.
func (e UnsetAsChild) Reverse() Edit { return SetAsChild(e) }

func (e UnsetAsChild) String() string {
	return fmt.Sprintf("UnsetAsChild(parent=%d, child=%d)", e.ParentID, e.ChildID)
}

func (e UnsetAsChild) apply(t *Tree) error {
	parent := t.mustNode(e.ParentID)
	child := t.mustNode(e.ChildID)
	if child.parentID != e.ParentID || !slices.Contains(parent.childIDs, e.ChildID) {
		return ErrMissingRelation
	}
	if t.index[e.ChildID].y != t.index[e.ParentID].y+1 {
		return ErrLayerAdjacency
	}
	parent.childIDs = slices.DeleteFunc(parent.childIDs, func(id int) bool { return id == e.ChildID })
	child.parentID = -1
	return nil
}

// MoveNode relocates a node within its own layer from OldX to NewX,
// shifting the nodes between the two positions by one. It is its own
// inverse with the arguments swapped, and a no-op when OldX == NewX.
type MoveNode struct {
	ID   int
	OldX int
	NewX int
}

// Reverse returns the move with swapped positions.
func (e MoveNode) Reverse() Edit { return MoveNode{ID: e.ID, OldX: e.NewX, NewX: e.OldX} }

func (e MoveNode) String() string {
	return fmt.Sprintf("MoveNode(id=%d, %d->%d)", e.ID, e.OldX, e.NewX)
}

func (e MoveNode) apply(t *Tree) error {
	if e.OldX == e.NewX {
		return nil
	}
	pos := t.index[t.mustNode(e.ID).id]
	layer := t.layers[pos.y]
	if pos.x != e.OldX {
		return ErrPositionMismatch
	}
	if e.NewX < 0 || e.NewX >= len(layer) {
		return ErrPositionMismatch
	}
	layer = slices.Delete(layer, e.OldX, e.OldX+1)
	layer = slices.Insert(layer, e.NewX, e.ID)
	t.layers[pos.y] = layer
	lo, hi := min(e.OldX, e.NewX), max(e.OldX, e.NewX)
	for x := lo; x <= hi; x++ {
		id := layer[x]
		p := t.index[id]
		p.x = x
		t.index[id] = p
	}
	return nil
}

// ModifyCard replaces a node's card wholesale. It is its own inverse
// with the cards swapped; the node's current card must match OldCard.
type ModifyCard struct {
	ID      int
	OldCard Card
	NewCard Card
}

// Reverse returns the modification with swapped cards.
func (e ModifyCard) Reverse() Edit {
	return ModifyCard{ID: e.ID, OldCard: e.NewCard, NewCard: e.OldCard}
}

func (e ModifyCard) String() string {
	return fmt.Sprintf("ModifyCard(id=%d, %q->%q)", e.ID, e.OldCard.Name, e.NewCard.Name)
}

func (e ModifyCard) apply(t *Tree) error {
	n := t.mustNode(e.ID)
	if !n.card.Equal(e.OldCard) {
		return ErrStaleCard
	}
	n.card = e.NewCard
	return nil
}

// ModifyGenerationIndex re-solves the tree's shared generation-index
// base so that the node's index under definition GIIndex becomes NewGI.
// This affects the computed index of every node, not just the named
// one. The recorded OldGI makes the edit invertible by solving for the
// previous base the same way.
type ModifyGenerationIndex struct {
	ID      int
	GIIndex int
	OldGI   int
	NewGI   int
}

// Reverse returns the modification with swapped generation indices.
func (e ModifyGenerationIndex) Reverse() Edit {
	return ModifyGenerationIndex{ID: e.ID, GIIndex: e.GIIndex, OldGI: e.NewGI, NewGI: e.OldGI}
}

func (e ModifyGenerationIndex) String() string {
	return fmt.Sprintf("ModifyGenerationIndex(id=%d, def=%d, %d->%d)", e.ID, e.GIIndex, e.OldGI, e.NewGI)
}

func (e ModifyGenerationIndex) apply(t *Tree) error {
	if e.GIIndex < 0 || e.GIIndex >= len(t.GI.Defs) {
		return ErrUnknownGIDef
	}
	y := t.index[t.mustNode(e.ID).id].y
	t.GI.Base = e.NewGI - t.GI.Defs[e.GIIndex].Offset - y
	return nil
}
