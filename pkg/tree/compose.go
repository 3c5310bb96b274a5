package tree

import "fmt"

// Composite builders translate one user-intent operation into the
// atomic edit sequence that performs it. Builders read the current tree
// (and consume fresh ids from it) but never apply anything; the caller
// applies the sequence and may keep it for undo.
//
// The left-scanning placement in InsertChild and InsertParent is the
// default visual ordering policy: a new child goes just right of the
// rightmost child of the nearest left sibling that already has
// children, and a new parent goes just right of the parent of the
// nearest left sibling that already has one.

// InsertNodeAt builds the edits that create a node with the given card
// in layer y. A y of -1 or [Tree.LayerCount] requests a brand-new layer
// above or below the current range. On an empty tree only y == 0 is
// valid.
func InsertNodeAt(t *Tree, card Card, y int) ([]Edit, error) {
	n := t.LayerCount()
	switch {
	case n == 0:
		if y != 0 {
			return nil, fmt.Errorf("first node must be at layer 0, got %d: %w", y, ErrLayerBounds)
		}
		return []Edit{NewLayer{Y: 0}, NewRightmostNode{Y: 0, ID: t.ObtainID(), Card: card}}, nil
	case y == -1:
		return []Edit{NewLayer{Y: 0}, NewRightmostNode{Y: 0, ID: t.ObtainID(), Card: card}}, nil
	case y == n:
		return []Edit{NewLayer{Y: n}, NewRightmostNode{Y: n, ID: t.ObtainID(), Card: card}}, nil
	case y >= 0 && y < n:
		return []Edit{NewRightmostNode{Y: y, ID: t.ObtainID(), Card: card}}, nil
	default:
		return nil, fmt.Errorf("invalid layer %d, valid range [-1, %d]: %w", y, n, ErrLayerBounds)
	}
}

// InsertChild builds the edits that create a node with the given card
// as a new child of parentID: layer creation if the parent is in the
// last layer, an appended node, a move to the computed slot, and the
// relation. Panics if parentID is not in the tree.
func InsertChild(t *Tree, card Card, parentID int) []Edit {
	py, _ := t.Position(parentID)
	cy := py + 1
	id := t.ObtainID()

	var edits []Edit
	appendX := 0
	if py == t.LayerCount()-1 {
		edits = append(edits, NewLayer{Y: cy})
	} else {
		appendX = len(t.layers[cy])
	}
	edits = append(edits, NewRightmostNode{Y: cy, ID: id, Card: card})
	if target := t.childInsertX(parentID); target != appendX {
		edits = append(edits, MoveNode{ID: id, OldX: appendX, NewX: target})
	}
	return append(edits, SetAsChild{ParentID: parentID, ChildID: id})
}

// InsertParent builds the edits that create a node with the given card
// as the new parent of childID: layer creation if the child is in the
// first layer, an appended node, a move to the computed slot, and the
// relation. Panics if childID is not in the tree.
func InsertParent(t *Tree, card Card, childID int) []Edit {
	cy, _ := t.Position(childID)
	id := t.ObtainID()

	var edits []Edit
	py := cy - 1
	appendX := 0
	if cy == 0 {
		py = 0
		edits = append(edits, NewLayer{Y: 0})
	} else {
		appendX = len(t.layers[py])
	}
	edits = append(edits, NewRightmostNode{Y: py, ID: id, Card: card})
	if target := t.parentInsertX(childID); target != appendX {
		edits = append(edits, MoveNode{ID: id, OldX: appendX, NewX: target})
	}
	return append(edits, SetAsChild{ParentID: id, ChildID: childID})
}

// DeleteNode builds the edits that remove the node: its parent link and
// every child link are cleared, the node is moved to the right end of
// its layer, and the rightmost node is deleted. Orphaned children stay
// parentless and an emptied layer is not collapsed; layer cleanup is
// caller policy. Panics if id is not in the tree.
func DeleteNode(t *Tree, id int) []Edit {
	y, x := t.Position(id)
	var edits []Edit
	if parent := t.ParentID(id); parent >= 0 {
		edits = append(edits, UnsetAsChild{ParentID: parent, ChildID: id})
	}
	for _, child := range t.ChildIDs(id) {
		edits = append(edits, UnsetAsChild{ParentID: id, ChildID: child})
	}
	if last := len(t.layers[y]) - 1; x != last {
		edits = append(edits, MoveNode{ID: id, OldX: x, NewX: last})
	}
	return append(edits, DeleteRightmostNode{Y: y, ID: id, Card: t.Card(id)})
}

// SetCard builds the single edit that replaces the node's card,
// recording the current card so the edit is self-contained and
// reversible. Panics if id is not in the tree.
func SetCard(t *Tree, id int, card Card) []Edit {
	return []Edit{ModifyCard{ID: id, OldCard: t.Card(id), NewCard: card}}
}

// SetGenerationIndex builds the single edit that re-solves the shared
// base so the node's index under definition giIndex becomes gi. Panics
// if id is not in the tree.
func SetGenerationIndex(t *Tree, id, giIndex, gi int) ([]Edit, error) {
	if giIndex < 0 || giIndex >= len(t.GI.Defs) {
		return nil, fmt.Errorf("definition index %d of %d: %w", giIndex, len(t.GI.Defs), ErrUnknownGIDef)
	}
	old := t.ComputeGI(id)[giIndex]
	return []Edit{ModifyGenerationIndex{ID: id, GIIndex: giIndex, OldGI: old, NewGI: gi}}, nil
}

// childInsertX computes the slot for a new child of id: scan left from
// the parent for the nearest sibling that already has children, and
// place the new child just right of that sibling's rightmost child, or
// at 0 if no such sibling exists.
func (t *Tree) childInsertX(id int) int {
	pos := t.index[id]
	layer := t.layers[pos.y]
	for x := pos.x; x >= 0; x-- {
		children := t.nodes[layer[x]].childIDs
		if len(children) == 0 {
			continue
		}
		rightmost := 0
		for _, c := range children {
			if cx := t.index[c].x; cx > rightmost {
				rightmost = cx
			}
		}
		return rightmost + 1
	}
	return 0
}

// parentInsertX computes the slot for a new parent of id: scan left
// from the child for the nearest sibling that already has a parent, and
// place the new parent just right of that parent, or at 0 if no such
// sibling exists.
func (t *Tree) parentInsertX(id int) int {
	pos := t.index[id]
	layer := t.layers[pos.y]
	for x := pos.x; x >= 0; x-- {
		if parent := t.nodes[layer[x]].parentID; parent >= 0 {
			return t.index[parent].x + 1
		}
	}
	return 0
}
