// Package pkg provides the core libraries for gm, a genealogical
// family tree manager.
//
// # Overview
//
// gm models a family as a layered tree: each person lives on one
// generation layer, relations only connect adjacent layers, and every
// change to the tree is an atomic, reversible edit. The pkg directory
// is organized into four main areas:
//
//  1. [tree] - Domain logic (the layered tree, edits, the text codec)
//  2. [session]/[layout]/[render] - Editing sessions, layout, drawing
//  3. [cache]/[store] - Infrastructure (artifact cache, document store)
//  4. [api]/[io]/[config] - Surfaces (HTTP API, JSON documents, config)
//
// # Architecture
//
// The typical data flow through gm:
//
//	JSON document / compact text
//	         ↓
//	    [tree] package (layered nodes + reversible edits)
//	         ↓
//	    [session] package (undo/redo over edit groups)
//	         ↓
//	    [layout] package (horizontal positions per person)
//	         ↓
//	    [render] package (SVG painter, Graphviz DOT)
//	         ↓
//	    SVG/PNG/DOT output
//
// # Quick Start
//
// Decode a tree, edit it, and render it:
//
//	import (
//	    "github.com/zyxir/genealogy-manager/pkg/render"
//	    "github.com/zyxir/genealogy-manager/pkg/session"
//	    "github.com/zyxir/genealogy-manager/pkg/tree"
//	)
//
//	// 1. Build a tree from the compact text form
//	t, _ := tree.Decode("a(b,c);b,c;")
//
//	// 2. Edit it through a session, keeping undo history
//	sess := session.New(t)
//	id, _ := sess.InsertChild(tree.NewCard("d"), 1)
//	_ = sess.Undo()
//
//	// 3. Draw it
//	svg := render.SVG(sess.Tree(), render.DefaultOptions())
//
// # Main Packages
//
// [tree] - The layered family tree. Nodes carry cards (name, years,
// biography); the closed set of [tree.Edit] values is the only way the
// tree changes, and every edit knows its reverse. Includes the compact
// text codec ("a(b,c);b,c;").
//
// [session] - Linear undo/redo over groups of edits, with rollback
// when a group fails partway.
//
// [layout] - Horizontal positioning: parents centered over children,
// subtrees packed by contour comparison.
//
// [render] - Two drawing paths: a direct SVG painter, and Graphviz DOT
// for PNG output or external tooling.
//
// [io] - The versioned JSON document format.
//
// [cache] - Layout and artifact caching with file, Redis, and null
// backends.
//
// [store] - Named document persistence with file and MongoDB backends.
//
// [api] - The HTTP editing API served by "gm serve".
//
// [config] - The TOML configuration file.
//
// [lorem] - Placeholder biography text for demo trees.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/tree/...      # Specific package
//
// [tree]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/tree
// [session]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/session
// [layout]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/layout
// [render]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/render
// [io]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/io
// [cache]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/cache
// [store]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/store
// [api]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/api
// [config]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/config
// [lorem]: https://pkg.go.dev/github.com/zyxir/genealogy-manager/pkg/lorem
package pkg
