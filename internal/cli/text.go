package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	gmio "github.com/zyxir/genealogy-manager/pkg/io"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// newTextCmd creates the text command group for converting between the
// JSON document format and the compact text form.
func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Convert between JSON documents and the compact text form",
		Long: `The compact text form writes one generation per line-less layer,
each terminated by a semicolon. A person is a name, optionally followed
by a parenthesized list of children in the next layer:

	a(b,c);b,c;

Cards carry only names in this form; years and biographies are dropped.`,
	}

	cmd.AddCommand(newTextEncodeCmd())
	cmd.AddCommand(newTextDecodeCmd())

	return cmd
}

// newTextEncodeCmd creates the "text encode" subcommand.
func newTextEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Print the compact text form of a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadTree(args[0])
			if err != nil {
				return err
			}
			fmt.Println(doc.Tree.Encode())
			return nil
		},
	}
}

// newTextDecodeCmd creates the "text decode" subcommand. The text is
// taken from the argument, or from stdin when the argument is "-".
func newTextDecodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode [text]",
		Short: "Build a JSON document from the compact text form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}

			t, err := tree.Decode(text)
			if err != nil {
				return fmt.Errorf("decode text: %w", err)
			}
			t.GI = configFromContext(cmd.Context()).GISettings()

			if err := gmio.ExportJSON(t, output); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			printSuccess("Decoded %d people", t.Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tree.json", "output document path")

	return cmd
}
