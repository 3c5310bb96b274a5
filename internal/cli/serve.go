package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/api"
	gmio "github.com/zyxir/genealogy-manager/pkg/io"
	"github.com/zyxir/genealogy-manager/pkg/session"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// newServeCmd creates the serve command, which runs the HTTP editing
// API for a single document.
func newServeCmd() *cobra.Command {
	var (
		addr      string
		writeBack bool
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Run the HTTP editing API",
		Long: `Serve starts an HTTP server exposing the tree under /api: reading and
replacing the document, inserting and editing people, undo/redo, search,
layout, and SVG rendering. With a file argument the document is loaded
first; without one the server starts with an empty tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			t := tree.New()
			t.GI = cfg.GISettings()
			path := ""
			if len(args) == 1 {
				path = args[0]
				doc, err := loadTree(path)
				if err != nil {
					return err
				}
				t = doc.Tree
			}
			sess := session.New(t)

			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.New(sess, cfg.RenderOptions(), logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("serving", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				logger.Warn("shutdown", "err", err)
			}

			if writeBack && path != "" {
				if err := gmio.ExportJSON(sess.Tree(), path); err != nil {
					return fmt.Errorf("write back: %w", err)
				}
				logger.Info("saved", "path", path)
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&writeBack, "write-back", false, "save the edited tree to the input file on shutdown")

	return cmd
}
