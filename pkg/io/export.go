package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// Version is the document format version written by this package.
const Version = 1

type document struct {
	Version         int        `json:"version"`
	GenerationIndex giSettings `json:"generation_index"`
	Layers          [][]person `json:"layers"`
}

type giSettings struct {
	Base        int            `json:"base"`
	Definitions []giDefinition `json:"definitions"`
}

type giDefinition struct {
	Name   string `json:"name"`
	Offset int    `json:"offset"`
}

type person struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
	Biography string `json:"biography,omitempty"`
	Children  []int  `json:"children,omitempty"`
}

// WriteJSON encodes a tree as JSON and writes it to w.
// Node ids in the output are normalized to layer-major order, so the
// "children" arrays always reference the numbers a subsequent
// [ReadJSON] will assign. This format round-trips with [ReadJSON].
func WriteJSON(t *tree.Tree, w io.Writer) error {
	rank := make(map[int]int, t.Len())
	for i, id := range t.IDs() {
		rank[id] = i
	}

	doc := document{
		Version: Version,
		GenerationIndex: giSettings{
			Base:        t.GI.Base,
			Definitions: make([]giDefinition, len(t.GI.Defs)),
		},
		Layers: make([][]person, t.LayerCount()),
	}
	for i, def := range t.GI.Defs {
		doc.GenerationIndex.Definitions[i] = giDefinition{Name: def.Name, Offset: def.Offset}
	}
	for y := range doc.Layers {
		layer := t.Layer(y)
		doc.Layers[y] = make([]person, len(layer))
		for x, id := range layer {
			card := t.Card(id)
			p := person{
				Name:      card.Name,
				BirthYear: card.BirthYear,
				DeathYear: card.DeathYear,
				Biography: card.Biography,
			}
			for _, c := range t.ChildIDs(id) {
				p.Children = append(p.Children, rank[c])
			}
			doc.Layers[y][x] = p
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a tree to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(t *tree.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
