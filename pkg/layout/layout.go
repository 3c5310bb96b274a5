// Package layout computes horizontal drawing coordinates for a family
// forest using Reingold-Tilford style contour packing.
//
// The classic algorithm positions a single rooted tree by recursive
// descent. A family tree is a forest of layers instead: several
// parentless roots may coexist, and any layer may mix subtrees of
// different heights. The computation therefore runs bottom-up over the
// layers, keeping an x, a pending shift, and a left/right contour per
// node id in place of recursive call-stack state, and reusing child
// contours by splicing rather than recomputation.
//
// Coordinates are in subtree units: adjacent nodes that share a parent
// sit at least 1.0 apart, and adjacent nodes of different subtrees
// (including distinct forest roots) at least [SubtreeSpacing] apart.
// Converting units to pixels is the renderer's concern; no rounding is
// performed here.
//
// The packing pass is repeated until no adjacent pair violates its
// required spacing, rather than the fixed two passes some consumers
// use; see DESIGN.md for the tradeoff.
package layout

import "github.com/zyxir/genealogy-manager/pkg/tree"

// SubtreeSpacing is the minimum gap between adjacent nodes that do not
// share a parent, in units of the 1.0 same-parent gap. Parentless
// neighbors are distinct forest roots and also keep this gap.
const SubtreeSpacing = 1.5

// ComputeXs returns the horizontal coordinate of every node, keyed by
// id. It is a pure function of the tree's current structure: the tree
// is not modified, and equal trees always produce equal coordinates.
// An empty tree yields an empty map.
func ComputeXs(t *tree.Tree) map[int]float64 {
	s := newSolver(t)
	if len(s.layers) == 0 {
		return map[int]float64{}
	}

	// Seed the deepest layer with unit spacing.
	for x, id := range s.layers[len(s.layers)-1] {
		s.xs[id] = float64(x) + 0.5
	}

	s.pack()
	for pass := 0; s.stacking() && pass < s.maxPasses; pass++ {
		s.pack()
	}
	return s.xs
}

// solver holds the per-node tables that replace recursive call-stack
// state: coordinate, pending shift, and boundary contours.
type solver struct {
	t      *tree.Tree
	layers [][]int

	xs   map[int]float64
	mods map[int]float64
	lcon map[int][]float64
	rcon map[int][]float64

	// maxPasses bounds the settle loop. Each pack pass resolves every
	// directly comparable violation, so the node count is a generous
	// ceiling for transitively induced ones.
	maxPasses int
}

func newSolver(t *tree.Tree) *solver {
	layers := make([][]int, t.LayerCount())
	for y := range layers {
		layers[y] = t.Layer(y)
	}
	return &solver{
		t:         t,
		layers:    layers,
		xs:        make(map[int]float64, t.Len()),
		mods:      make(map[int]float64, t.Len()),
		lcon:      make(map[int][]float64, t.Len()),
		rcon:      make(map[int][]float64, t.Len()),
		maxPasses: t.Len() + 2,
	}
}

// pack performs one full packing pass: bottom-up contour comparison
// recording rightward shifts, then top-down shift propagation.
func (s *solver) pack() {
	for y := len(s.layers) - 1; y >= 0; y-- {
		layer := s.layers[y]
		for _, id := range layer {
			if children := s.t.ChildIDs(id); len(children) > 0 {
				var sum float64
				for _, c := range children {
					sum += s.xs[c] + s.mods[c]
				}
				s.xs[id] = sum / float64(len(children))
			}
			s.updateContour(id)
		}
		for x := 1; x < len(layer); x++ {
			s.compareAndShift(layer[x-1], layer[x])
		}
	}

	// Push accumulated shifts down: a node absorbs its own shift into
	// its x and hands the same amount to each child.
	for _, layer := range s.layers {
		for _, id := range layer {
			mod := s.mods[id]
			s.xs[id] += mod
			for _, c := range s.t.ChildIDs(id) {
				s.mods[c] += mod
			}
			s.mods[id] = 0
		}
	}
}

// updateContour recomputes the node's contours, splicing child contours
// instead of walking the subtree: the left contour is the node's own x
// followed by the leftmost child's left contour, padded with whatever
// the rightmost child's left contour has beyond that length, and
// symmetrically for the right contour.
func (s *solver) updateContour(id int) {
	children := s.t.ChildIDs(id)
	if len(children) == 0 {
		s.lcon[id] = []float64{s.xs[id]}
		s.rcon[id] = []float64{s.xs[id]}
		return
	}
	lsub, rsub := children[0], children[len(children)-1]
	s.lcon[id] = splice(s.xs[id], s.lcon[lsub], s.lcon[rsub])
	s.rcon[id] = splice(s.xs[id], s.rcon[rsub], s.rcon[lsub])
}

// splice builds [head] + primary + remainder of secondary beyond
// primary's length.
func splice(head float64, primary, secondary []float64) []float64 {
	out := make([]float64, 0, 1+max(len(primary), len(secondary)))
	out = append(out, head)
	out = append(out, primary...)
	if len(secondary) > len(primary) {
		out = append(out, secondary[len(primary):]...)
	}
	return out
}

// compareAndShift finds the minimum vertically aligned gap between the
// left node's right contour and the right node's left contour, records
// the deficit as a rightward shift on the right node, and nudges the
// right node's contours immediately so later comparisons in the same
// layer see the shifted position.
func (s *solver) compareAndShift(lid, rid int) {
	minDist := s.lcon[rid][0] - s.rcon[lid][0]
	for i := 1; i < min(len(s.rcon[lid]), len(s.lcon[rid])); i++ {
		if d := s.lcon[rid][i] - s.rcon[lid][i]; d < minDist {
			minDist = d
		}
	}
	var mod float64
	if spacing := s.requiredSpacing(lid, rid); minDist < spacing {
		mod = spacing - minDist
	}
	s.mods[rid] = mod
	if mod != 0 {
		for i := range s.lcon[rid] {
			s.lcon[rid][i] += mod
		}
		for i := range s.rcon[rid] {
			s.rcon[rid][i] += mod
		}
	}
}

// requiredSpacing returns 1.0 for siblings sharing a parent and
// SubtreeSpacing otherwise. Two parentless nodes head distinct trees of
// the forest and never count as siblings.
func (s *solver) requiredSpacing(lid, rid int) float64 {
	lp, rp := s.t.ParentID(lid), s.t.ParentID(rid)
	if lp != rp || (lp < 0 && rp < 0) {
		return SubtreeSpacing
	}
	return 1
}

// stacking reports whether any adjacent pair in any layer still sits
// closer than its required spacing.
func (s *solver) stacking() bool {
	for _, layer := range s.layers {
		for x := 1; x < len(layer); x++ {
			lid, rid := layer[x-1], layer[x]
			if s.xs[lid] > s.xs[rid]-s.requiredSpacing(lid, rid) {
				return true
			}
		}
	}
	return false
}
