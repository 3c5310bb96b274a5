package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/config"
	"github.com/zyxir/genealogy-manager/pkg/store"
)

// openStore builds the document store selected by the configuration.
// A configured MongoDB URI wins; otherwise documents live in files
// under ~/.config/gm/documents.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.Mongo.URI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	return store.NewFileStore("")
}

// newDocsCmd creates the docs command group for managing the document
// store.
func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage the document store",
	}

	cmd.AddCommand(newDocsListCmd())
	cmd.AddCommand(newDocsSaveCmd())
	cmd.AddCommand(newDocsShowCmd())
	cmd.AddCommand(newDocsRmCmd())

	return cmd
}

// newDocsListCmd creates the "docs list" subcommand.
func newDocsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, configFromContext(ctx))
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			docs, err := st.List(ctx)
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			if len(docs) == 0 {
				printInfo("No documents stored")
				return nil
			}
			for _, d := range docs {
				fmt.Println(StyleValue.Render(d.Name) +
					"  " + StyleDim.Render(d.ID) +
					"  " + StyleDim.Render(d.UpdatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

// newDocsSaveCmd creates the "docs save" subcommand.
func newDocsSaveCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Save a document file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			doc, err := loadTree(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}

			d, err := store.NewDocument(name, doc.Tree)
			if err != nil {
				return err
			}

			st, err := openStore(ctx, configFromContext(ctx))
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Put(ctx, d); err != nil {
				return fmt.Errorf("store document: %w", err)
			}
			printSuccess("Saved %q", name)
			printKeyValue("id", d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "document name (default: file name)")

	return cmd
}

// newDocsShowCmd creates the "docs show" subcommand.
func newDocsShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a stored document, or write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, configFromContext(ctx))
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			d, err := st.Get(ctx, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no document with id %q", args[0])
			}
			if err != nil {
				return err
			}

			if output == "" {
				t, err := d.Tree()
				if err != nil {
					return err
				}
				printTree(t)
				return nil
			}
			if err := os.WriteFile(output, d.Data, 0o644); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
			printSuccess("Exported %q", d.Name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document JSON to this file")

	return cmd
}

// newDocsRmCmd creates the "docs rm" subcommand.
func newDocsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := openStore(ctx, configFromContext(ctx))
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if err := st.Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("delete document: %w", err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}
