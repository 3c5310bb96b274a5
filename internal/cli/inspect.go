package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// newInspectCmd creates the inspect command, which prints every person
// in a document layer by layer.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print the people in a tree, layer by layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadTree(args[0])
			if err != nil {
				return err
			}
			printTree(doc.Tree)
			return nil
		},
	}
}

// printTree writes a table of all people to stdout. Name columns are
// padded by display width so CJK names line up.
func printTree(t *tree.Tree) {
	nameWidth := 4
	for _, id := range t.IDs() {
		if w := runewidth.StringWidth(t.Card(id).Name); w > nameWidth {
			nameWidth = w
		}
	}

	for y := 0; y < t.LayerCount(); y++ {
		label := fmt.Sprintf("Generation %d", y)
		if len(t.GI.Defs) > 0 {
			label = fmt.Sprintf("%s %d", t.GI.Defs[0].Name, t.GI.Base+t.GI.Defs[0].Offset+y)
		}
		fmt.Println(StyleTitle.Render(label))

		for _, id := range t.Layer(y) {
			c := t.Card(id)
			row := "  " + StyleNumber.Render(fmt.Sprintf("%4d", id)) +
				"  " + StyleValue.Render(padName(c.Name, nameWidth)) +
				"  " + StyleDim.Render(padRight(formatYears(c), 11))
			if n := len(t.ChildIDs(id)); n > 0 {
				row += StyleDim.Render(fmt.Sprintf("%d children", n))
			}
			fmt.Println(strings.TrimRight(row, " "))
		}
	}
	printNewline()
	printStats(t.Len(), t.LayerCount(), false)
}

// formatYears renders a card's life span, e.g. "1900-1961" or "1900-".
func formatYears(c tree.Card) string {
	if c.BirthYear == nil {
		return ""
	}
	s := strconv.Itoa(*c.BirthYear) + "-"
	if c.DeathYear != nil {
		s += strconv.Itoa(*c.DeathYear)
	}
	return s
}

// padName pads s with spaces to the given display width.
func padName(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-runewidth.StringWidth(s)))
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-len(s)))
}
