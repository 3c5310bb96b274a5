package render

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/zyxir/genealogy-manager/pkg/layout"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// Options configures tree painting.
type Options struct {
	// UnitX is the pixel width of one layout unit: siblings sit one
	// unit apart, distinct subtrees one and a half.
	UnitX int

	// UnitY is the vertical pixel distance between layers.
	UnitY int

	// BoxWidth and BoxHeight are the person box dimensions in pixels.
	BoxWidth  int
	BoxHeight int

	// ShowYears appends "birth-death" under the name when either year
	// is recorded.
	ShowYears bool

	// GIDef selects the generation-index definition labeled on the left
	// margin of each layer. Negative disables the labels.
	GIDef int
}

// DefaultOptions returns the painting defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		UnitX:     96,
		UnitY:     120,
		BoxWidth:  80,
		BoxHeight: 48,
		ShowYears: true,
		GIDef:     0,
	}
}

const marginX = 72 // left gutter reserved for generation labels

// SVG paints the tree as a standalone SVG document. Boxes are centered
// on the layout coordinates, parents are joined to children by lines,
// and each layer carries its generation index in the left gutter.
func SVG(t *tree.Tree, opts Options) []byte {
	var buf bytes.Buffer
	WriteSVG(t, &buf, opts)
	return buf.Bytes()
}

// WriteSVG paints the tree as SVG directly to w.
func WriteSVG(t *tree.Tree, w io.Writer, opts Options) {
	xs := layout.ComputeXs(t)

	var maxX float64
	for _, x := range xs {
		maxX = max(maxX, x)
	}
	width := marginX + int(maxX*float64(opts.UnitX)) + opts.BoxWidth
	height := t.LayerCount()*opts.UnitY + opts.BoxHeight

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")

	// Connectors first so boxes paint over the line ends.
	for _, id := range t.IDs() {
		px, py := nodeCenter(t, xs, id, opts)
		for _, c := range t.ChildIDs(id) {
			cx, cy := nodeCenter(t, xs, c, opts)
			canvas.Line(px, py+opts.BoxHeight/2, cx, cy-opts.BoxHeight/2,
				"stroke:black;stroke-width:1")
		}
	}

	for _, id := range t.IDs() {
		cx, cy := nodeCenter(t, xs, id, opts)
		card := t.Card(id)
		canvas.Roundrect(cx-opts.BoxWidth/2, cy-opts.BoxHeight/2,
			opts.BoxWidth, opts.BoxHeight, 4, 4,
			"fill:white;stroke:black;stroke-width:1")
		if years := yearSpan(card); opts.ShowYears && years != "" {
			canvas.Text(cx, cy-2, card.Name,
				"text-anchor:middle;font-size:13px;font-family:sans-serif")
			canvas.Text(cx, cy+14, years,
				"text-anchor:middle;font-size:10px;font-family:sans-serif;fill:gray")
		} else {
			canvas.Text(cx, cy+4, card.Name,
				"text-anchor:middle;font-size:13px;font-family:sans-serif")
		}
	}

	if opts.GIDef >= 0 && opts.GIDef < len(t.GI.Defs) {
		for y := 0; y < t.LayerCount(); y++ {
			gi := t.GI.Base + y + t.GI.Defs[opts.GIDef].Offset
			canvas.Text(8, y*opts.UnitY+opts.BoxHeight/2+opts.BoxHeight/4,
				fmt.Sprintf("%d", gi),
				"font-size:12px;font-family:sans-serif;fill:gray")
		}
	}
	canvas.End()
}

func nodeCenter(t *tree.Tree, xs map[int]float64, id int, opts Options) (cx, cy int) {
	y, _ := t.Position(id)
	cx = marginX + int(xs[id]*float64(opts.UnitX))
	cy = y*opts.UnitY + opts.BoxHeight/2
	return cx, cy
}

// yearSpan formats "birth-death" with blanks for unknown years, or ""
// when neither year is recorded.
func yearSpan(c tree.Card) string {
	if c.BirthYear == nil && c.DeathYear == nil {
		return ""
	}
	s := ""
	if c.BirthYear != nil {
		s = fmt.Sprintf("%d", *c.BirthYear)
	}
	s += "-"
	if c.DeathYear != nil {
		s += fmt.Sprintf("%d", *c.DeathYear)
	}
	return s
}
