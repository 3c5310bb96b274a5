// Package io provides JSON import and export for family trees.
//
// # Overview
//
// The text codec in [tree] is compact but carries names only. This
// package serializes the full document: every card field, the layer
// structure, the parent/child relations, and the generation-index
// settings. The format is designed for:
//
//   - Durable storage of a family tree between editing sessions
//   - Integration with external tools that produce or consume tree data
//   - Round-trip preservation: import, edit, export, and re-import
//
// # JSON Format
//
// The document is an object with a version, the generation-index
// settings, and one array per layer:
//
//	{
//	  "version": 1,
//	  "generation_index": {
//	    "base": 1,
//	    "definitions": [{"name": "generation", "offset": 0}]
//	  },
//	  "layers": [
//	    [{"name": "ancestor", "children": [1, 2]}],
//	    [{"name": "elder"}, {"name": "younger", "birth_year": 1902}]
//	  ]
//	}
//
// Nodes are numbered layer by layer, left to right, starting at 0; the
// "children" array references those numbers. Importing assigns ids in
// the same order, so an exported file always yields the ids it names.
//
// # Node Fields
//
// Required:
//   - name: Display name of the person
//
// Optional:
//   - birth_year, death_year: Integer years, omitted when unknown
//   - biography: Freeform text
//   - children: Node numbers in the next layer, left-to-right
//
// # Import
//
// Use [ImportJSON] to read a tree from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	t, err := io.ImportJSON("family.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the structure: unknown versions, child
// references outside the next layer, and double parents are rejected
// with errors naming the offending node.
//
// # Export
//
// Use [ExportJSON] to write a tree to a file, or [WriteJSON] to write
// to any io.Writer:
//
//	err := io.ExportJSON(t, "family.json")
//
// [tree]: github.com/zyxir/genealogy-manager/pkg/tree
package io
