package tree

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNodeSyntax is returned by Decode for a node token that does
	// not match the grammar (empty name, stray characters, and so on).
	ErrNodeSyntax = errors.New("malformed node token")

	// ErrUnmatchedParen is returned by Decode when a child list is not
	// properly parenthesized.
	ErrUnmatchedParen = errors.New("unmatched parenthesis")

	// ErrDuplicateName is returned by Decode when two nodes share a
	// name. Names are the only cross-reference key and must be unique.
	ErrDuplicateName = errors.New("duplicate node name")

	// ErrUnresolvedChild is returned by Decode when a child list names
	// a node that does not appear anywhere in the input.
	ErrUnresolvedChild = errors.New("unresolved child name")

	// ErrMisplacedChild is returned by Decode when a child reference
	// would violate layering: the child is not exactly one layer below
	// its parent, or it is claimed by two parents.
	ErrMisplacedChild = errors.New("child reference violates layering")
)

// nodeToken matches one node of the text format: a name, optionally
// followed by a parenthesized comma-list of child names.
var nodeToken = regexp.MustCompile(`^([^(),;]+)(?:\(([^()]*)\))?$`)

// Encode renders the tree in the compact text format used for fixtures
// and shape assertions: one run per layer terminated by ";", nodes
// separated by ",", each node's children (if any) listed in parentheses
// after its name. Nodes carry only their card names; the format exists
// to describe shape, not full card data.
func (t *Tree) Encode() string {
	var sb strings.Builder
	for _, layer := range t.layers {
		for x, id := range layer {
			if x > 0 {
				sb.WriteByte(',')
			}
			n := t.nodes[id]
			sb.WriteString(n.card.Name)
			if len(n.childIDs) > 0 {
				sb.WriteByte('(')
				for i, c := range n.childIDs {
					if i > 0 {
						sb.WriteByte(',')
					}
					sb.WriteString(t.nodes[c].card.Name)
				}
				sb.WriteByte(')')
			}
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

// Decode parses the text format back into a tree. Ids are assigned in
// layer-major, left-to-right order of first appearance. A trailing ";"
// after the last layer is tolerated. Names must be unique; child lists
// may only reference nodes of the next layer.
func Decode(s string) (*Tree, error) {
	layerStrs := strings.Split(s, ";")
	if n := len(layerStrs); n > 0 && layerStrs[n-1] == "" {
		layerStrs = layerStrs[:n-1]
	}

	t := New()
	byName := make(map[string]int)
	children := make(map[int][]string)
	for y, layerStr := range layerStrs {
		t.layers = append(t.layers, nil)
		tokens, err := splitLayer(layerStr)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", y, err)
		}
		for _, token := range tokens {
			m := nodeToken.FindStringSubmatch(token)
			if m == nil {
				return nil, fmt.Errorf("layer %d: %q: %w", y, token, ErrNodeSyntax)
			}
			name := m[1]
			if _, seen := byName[name]; seen {
				return nil, fmt.Errorf("layer %d: %q: %w", y, name, ErrDuplicateName)
			}
			id := t.ObtainID()
			if err := t.Apply(NewRightmostNode{Y: y, ID: id, Card: NewCard(name)}); err != nil {
				return nil, err
			}
			byName[name] = id
			if m[2] != "" {
				children[id] = strings.Split(m[2], ",")
			}
		}
	}

	// Second pass: resolve child names and wire relations in listed
	// order, which fixes each parent's child order.
	for _, id := range t.IDs() {
		for _, childName := range children[id] {
			childID, ok := byName[childName]
			if !ok {
				return nil, fmt.Errorf("node %q: child %q: %w", t.Card(id).Name, childName, ErrUnresolvedChild)
			}
			if err := t.Apply(SetAsChild{ParentID: id, ChildID: childID}); err != nil {
				return nil, fmt.Errorf("node %q: child %q: %w", t.Card(id).Name, childName, ErrMisplacedChild)
			}
		}
	}
	return t, nil
}

// splitLayer splits one layer string into node tokens at top-level
// commas, keeping parenthesized child lists intact.
func splitLayer(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tokens []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
			if depth > 1 {
				return nil, fmt.Errorf("%q: %w", s, ErrUnmatchedParen)
			}
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%q: %w", s, ErrUnmatchedParen)
			}
		case ',':
			if depth == 0 {
				tokens = append(tokens, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%q: %w", s, ErrUnmatchedParen)
	}
	return append(tokens, s[start:]), nil
}
