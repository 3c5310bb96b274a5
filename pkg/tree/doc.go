// Package tree provides the layered, id-addressed family tree that is
// the data model of the genealogy manager.
//
// # Overview
//
// A family tree is a forest: several parentless ancestors may coexist,
// each heading their own subtree. Nodes are organized into horizontal
// layers (generations), and a parent-child relation may only connect
// nodes in consecutive layers (child.Y == parent.Y + 1). Every node is
// addressed by a non-negative integer id that is assigned monotonically
// and never reused, so relations are plain ids resolved through the
// tree rather than pointers.
//
// # Atomic Edits
//
// All mutation goes through a closed set of atomic edits implementing
// [Edit]. Each edit carries exactly the data needed to apply it and to
// construct its own inverse via [Edit.Reverse], which makes arbitrary
// edit sequences undoable by reversing each edit and the list order:
//
//	t := tree.New()
//	edits := []tree.Edit{
//	    tree.NewLayer{Y: 0},
//	    tree.NewRightmostNode{Y: 0, ID: t.ObtainID(), Card: tree.Card{Name: "ancestor"}},
//	}
//	if err := t.Apply(edits...); err != nil {
//	    // a violated invariant; the tree is left at the failing step
//	}
//	_ = t.Apply(tree.ReverseEdits(edits)...) // back to empty
//
// Nodes enter a layer only at its right end (NewRightmostNode) and
// leave it only from the right end (DeleteRightmostNode); MoveNode
// relocates them within the layer. The append-then-move split keeps
// every edit a simple, invertible array operation.
//
// # Composite Operations
//
// User-level operations (insert a child, delete a node, ...) are built
// by the composite builders ([InsertChild], [DeleteNode], ...), which
// read the current tree and emit an edit sequence without applying it.
// The caller applies the sequence and may retain it for undo; the
// session package does exactly that.
//
// # Text Codec
//
// [Tree.Encode] and [Decode] translate between a tree and a compact
// one-line-per-layer string used for fixtures and shape assertions:
//
//	t, _ := tree.Decode("a(b,c);b,c;")
//	fmt.Println(t.Encode()) // a(b,c);b,c;
//
// # Contract
//
// Lookups of an id that is not in the tree are programming errors and
// panic; they are never reported as recoverable conditions. Structural
// edit violations, in contrast, are returned as [*EditError] values
// wrapping one of the sentinel invariant errors.
//
// Tree instances are not safe for concurrent use.
package tree
