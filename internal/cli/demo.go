package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	gmio "github.com/zyxir/genealogy-manager/pkg/io"
	"github.com/zyxir/genealogy-manager/pkg/lorem"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// demoTreeText is the compact text form of the sample family.
const demoTreeText = "张甲(张一,张二),张乙(张三);" +
	"张一(张子),张二(张丑,张寅),张三(张卯),张四(张巳,张午),张五;" +
	"张子(张泰,张华),张丑,张寅,张卯,张辰,张巳,张午(张嵩),张未(张恒,张衡);" +
	"张泰,张华(张小),张嵩,张恒,张衡;" +
	"张小;"

const (
	demoYearChance = 0.7  // fraction of people that get birth/death years
	demoBirthFrom  = 1000 // earliest possible birth year
	demoBirthSpan  = 1001 // birth year range
	defaultSeed    = 42   // random seed for reproducible demos
)

// newDemoCmd creates the demo command, which writes a sample family
// tree document filled with random years and placeholder biographies.
func newDemoCmd() *cobra.Command {
	var (
		output string
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a sample family tree document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			t, err := demoTree(seed)
			if err != nil {
				return err
			}
			t.GI = configFromContext(cmd.Context()).GISettings()

			if err := gmio.ExportJSON(t, output); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			prog.done(fmt.Sprintf("Generated %d people", t.Len()))

			printSuccess("Demo tree written")
			printFile(output)
			printStats(t.Len(), t.LayerCount(), false)
			printNewline()
			printNextStep("Render it", fmt.Sprintf("gm render %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "demo.json", "output document path")
	cmd.Flags().Uint64Var(&seed, "seed", defaultSeed, "random seed for years and biographies")

	return cmd
}

// demoTree builds the sample family and fills in random cards.
// The same seed always yields the same document.
func demoTree(seed uint64) (*tree.Tree, error) {
	t, err := tree.Decode(demoTreeText)
	if err != nil {
		return nil, fmt.Errorf("decode demo tree: %w", err)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	gen := lorem.New(seed)
	for _, id := range t.IDs() {
		old := t.Card(id)
		card := old
		if rng.Float64() < demoYearChance {
			birth := demoBirthFrom + rng.IntN(demoBirthSpan)
			card.BirthYear = tree.Year(birth)
			card.DeathYear = tree.Year(birth + 30 + rng.IntN(61))
		}
		card.Biography = gen.Text()
		if err := t.Apply(tree.ModifyCard{ID: id, OldCard: old, NewCard: card}); err != nil {
			return nil, err
		}
	}
	return t, nil
}
