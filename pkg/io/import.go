package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// Sentinel errors for document validation.
var (
	// ErrVersion is returned when the document carries a format version
	// this package does not read.
	ErrVersion = errors.New("unsupported document version")

	// ErrBadReference is returned when a "children" entry does not name
	// a node in the layer below its parent.
	ErrBadReference = errors.New("child reference outside next layer")
)

// ReadJSON decodes a JSON tree document from r.
//
// The input must follow the format described in the package
// documentation. ReadJSON returns an error if:
//   - The JSON is malformed or the version is unsupported
//   - A "children" entry references a node outside the next layer
//   - A node is claimed as a child by two parents
//
// Errors are wrapped with the layer and position of the offending node.
// The returned tree is independent of r and can be modified freely.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*tree.Tree, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("version %d, reader supports %d: %w", doc.Version, Version, ErrVersion)
	}

	t := tree.New()
	if len(doc.GenerationIndex.Definitions) > 0 {
		t.GI.Base = doc.GenerationIndex.Base
		t.GI.Defs = make([]tree.GenerationIndexDefinition, len(doc.GenerationIndex.Definitions))
		for i, def := range doc.GenerationIndex.Definitions {
			t.GI.Defs[i] = tree.GenerationIndexDefinition{Name: def.Name, Offset: def.Offset}
		}
	}

	// First pass: create every node layer by layer so ids come out in
	// the layer-major order the children arrays reference.
	layerStart := make([]int, len(doc.Layers)+1)
	for y, layer := range doc.Layers {
		layerStart[y+1] = layerStart[y] + len(layer)
		if err := t.Apply(tree.NewLayer{Y: y}); err != nil {
			return nil, fmt.Errorf("layer %d: %w", y, err)
		}
		for x, p := range layer {
			card := tree.NewCard(p.Name)
			card.BirthYear = p.BirthYear
			card.DeathYear = p.DeathYear
			card.Biography = p.Biography
			edit := tree.NewRightmostNode{Y: y, ID: t.ObtainID(), Card: card}
			if err := t.Apply(edit); err != nil {
				return nil, fmt.Errorf("layer %d node %d: %w", y, x, err)
			}
		}
	}

	// Second pass: wire relations, checking each reference lands in the
	// parent's next layer.
	for y, layer := range doc.Layers {
		for x, p := range layer {
			parent := layerStart[y] + x
			for _, child := range p.Children {
				if y+1 >= len(doc.Layers) || child < layerStart[y+1] || child >= layerStart[y+2] {
					return nil, fmt.Errorf("layer %d node %d child %d: %w", y, x, child, ErrBadReference)
				}
				if err := t.Apply(tree.SetAsChild{ParentID: parent, ChildID: child}); err != nil {
					return nil, fmt.Errorf("layer %d node %d child %d: %w", y, x, child, err)
				}
			}
		}
	}
	return t, nil
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes
// the file. Errors wrap the underlying cause with the file path.
func ImportJSON(path string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
