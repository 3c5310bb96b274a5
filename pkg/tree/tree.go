package tree

import (
	"fmt"
	"slices"
)

// UnknownName is the placeholder for a person whose name is not recorded.
const UnknownName = "unknown"

// Card holds the value data for one family member. A card has no
// identity of its own: it is owned by exactly one node and is copied or
// replaced wholesale on edit.
type Card struct {
	Name      string
	BirthYear *int // nil if unknown
	DeathYear *int // nil if unknown
	Biography string
}

// NewCard returns a card with the given name, or [UnknownName] if the
// name is empty.
func NewCard(name string) Card {
	if name == "" {
		name = UnknownName
	}
	return Card{Name: name}
}

// Equal reports whether two cards hold the same values, comparing the
// optional year fields by value rather than by pointer.
func (c Card) Equal(o Card) bool {
	return c.Name == o.Name &&
		c.Biography == o.Biography &&
		eqYear(c.BirthYear, o.BirthYear) &&
		eqYear(c.DeathYear, o.DeathYear)
}

func eqYear(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Year returns a pointer to y, for filling the optional year fields.
func Year(y int) *int { return &y }

// GenerationIndexDefinition names one way of counting generations,
// offset relative to the standard count.
type GenerationIndexDefinition struct {
	Name   string
	Offset int
}

// GenerationIndexSettings holds the shared generation-index state of a
// tree: a base (the index of layer 0 under the zeroth definition) and
// the ordered definition list. The base is a single parameter of the
// whole tree, not per-node state.
type GenerationIndexSettings struct {
	Base int
	Defs []GenerationIndexDefinition
}

// DefaultGISettings returns the settings a fresh tree starts with: base
// 1 and a single zero-offset definition.
func DefaultGISettings() GenerationIndexSettings {
	return GenerationIndexSettings{
		Base: 1,
		Defs: []GenerationIndexDefinition{{Name: "generation", Offset: 0}},
	}
}

// node is one tree node. Relations are stored as ids on both ends:
// child ∈ parent.childIDs if and only if child.parentID == parent.id.
type node struct {
	id       int
	card     Card
	parentID int   // negative = no parent
	childIDs []int // left-to-right visual order
}

// position is the (layer, within-layer) cell of a node.
type position struct {
	y, x int
}

// Tree is a layered, id-addressed family forest. The zero value is not
// usable; use [New]. Tree is not safe for concurrent use.
type Tree struct {
	lastID int
	nodes  map[int]*node
	layers [][]int          // layer y -> node ids in x order
	index  map[int]position // id -> (y, x)

	// GI is the shared generation-index configuration. It is scoped to
	// this tree's lifetime and mutated only by ModifyGenerationIndex.
	GI GenerationIndexSettings
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{
		lastID: -1,
		nodes:  make(map[int]*node),
		index:  make(map[int]position),
		GI:     DefaultGISettings(),
	}
}

// ObtainID returns a fresh node id. Ids are assigned monotonically and
// never reused, even after the node they were minted for is deleted.
func (t *Tree) ObtainID() int {
	t.lastID++
	return t.lastID
}

// LastID returns the most recently obtained id, or -1 if none.
func (t *Tree) LastID() int { return t.lastID }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// LayerCount returns the number of layers.
func (t *Tree) LayerCount() int { return len(t.layers) }

// Layer returns the ids of layer y in left-to-right order.
// Panics if y is out of range.
func (t *Tree) Layer(y int) []int {
	if y < 0 || y >= len(t.layers) {
		panic(fmt.Sprintf("tree: layer %d out of range [0, %d)", y, len(t.layers)))
	}
	return slices.Clone(t.layers[y])
}

// Contains reports whether a node with the given id is in the tree.
func (t *Tree) Contains(id int) bool {
	_, ok := t.nodes[id]
	return ok
}

// IDs returns all node ids in layer-major, left-to-right order.
func (t *Tree) IDs() []int {
	ids := make([]int, 0, len(t.nodes))
	for _, layer := range t.layers {
		ids = append(ids, layer...)
	}
	return ids
}

// Card returns the card of the node with the given id.
func (t *Tree) Card(id int) Card { return t.mustNode(id).card }

// ParentID returns the parent id of the node, or a negative value if
// the node has no parent.
func (t *Tree) ParentID(id int) int { return t.mustNode(id).parentID }

// ChildIDs returns the node's child ids in left-to-right order.
func (t *Tree) ChildIDs(id int) []int { return slices.Clone(t.mustNode(id).childIDs) }

// Position returns the (layer, within-layer) cell of the node.
func (t *Tree) Position(id int) (y, x int) {
	t.mustNode(id)
	pos := t.index[id]
	return pos.y, pos.x
}

// ComputeGI returns the node's generation index under every definition:
// base + layer + per-definition offset.
func (t *Tree) ComputeGI(id int) []int {
	y, _ := t.Position(id)
	gi := make([]int, len(t.GI.Defs))
	for i, def := range t.GI.Defs {
		gi[i] = t.GI.Base + y + def.Offset
	}
	return gi
}

// Equal reports whether two trees are equal in every queryable field:
// layer shapes, ids, cards, relations, and generation-index settings.
func (t *Tree) Equal(o *Tree) bool {
	if len(t.layers) != len(o.layers) || len(t.nodes) != len(o.nodes) {
		return false
	}
	for y := range t.layers {
		if !slices.Equal(t.layers[y], o.layers[y]) {
			return false
		}
	}
	for id, n := range t.nodes {
		on, ok := o.nodes[id]
		if !ok {
			return false
		}
		if !n.card.Equal(on.card) || n.parentID != on.parentID || !slices.Equal(n.childIDs, on.childIDs) {
			return false
		}
	}
	return t.GI.Base == o.GI.Base && slices.Equal(t.GI.Defs, o.GI.Defs)
}

// mustNode resolves an id or panics. Looking up an id that is not in
// the tree is out of contract, never a recoverable condition.
func (t *Tree) mustNode(id int) *node {
	n, ok := t.nodes[id]
	if !ok {
		panic(fmt.Sprintf("tree: unknown node id %d", id))
	}
	return n
}
