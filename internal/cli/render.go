package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/cache"
	"github.com/zyxir/genealogy-manager/pkg/render"
)

const (
	formatSVG = "svg" // direct SVG painter
	formatPNG = "png" // Graphviz-rasterized bitmap
	formatDOT = "dot" // Graphviz source, for external tooling
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path; empty derives from the input name
	format  string // output format: "svg", "png", "dot"
	noCache bool   // bypass the artifact cache
	watch   bool   // re-render whenever the document changes
	years   bool   // draw life spans under names
	giDef   int    // generation-index definition used for row labels
}

// newRenderCmd creates the render command for drawing a family tree.
//
// Default settings:
//   - format: svg (painted directly, no Graphviz needed)
//   - years: from the config file (shown by default)
//   - output: input path with the format as extension
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a family tree to SVG, PNG, or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.format {
			case formatSVG, formatPNG, formatDOT:
			default:
				return fmt.Errorf("invalid format: %s (must be 'svg', 'png', or 'dot')", opts.format)
			}
			if opts.output == "" {
				opts.output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + opts.format
			}
			if opts.watch {
				return watchRender(cmd.Context(), args[0], &opts)
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with new extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "re-render even if a cached artifact exists")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the document changes")
	cmd.Flags().BoolVar(&opts.years, "years", true, "draw life spans under names")
	cmd.Flags().IntVar(&opts.giDef, "generation-def", 0, "generation-index definition for row labels")

	return cmd
}

// runRender renders the document at path once.
func runRender(ctx context.Context, path string, opts *renderOpts) error {
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	doc, err := loadTree(path)
	if err != nil {
		return err
	}

	ropts := cfg.RenderOptions()
	ropts.ShowYears = opts.years
	ropts.GIDef = opts.giDef

	store, ttl, err := openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(doc.Data), cache.ArtifactKeyOpts{
		Format:    opts.format,
		UnitX:     ropts.UnitX,
		UnitY:     ropts.UnitY,
		ShowYears: ropts.ShowYears,
		GIDef:     ropts.GIDef,
	})

	artifact, cached, err := store.Get(ctx, key)
	if err != nil {
		logger.Debug("cache lookup", "err", err)
	}
	if !cached {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(path)))
		spinner.Start()
		artifact, err = renderArtifact(ctx, doc, ropts, opts.format)
		spinner.Stop()
		if err != nil {
			return err
		}
		if err := store.Set(ctx, key, artifact, ttl); err != nil {
			logger.Debug("cache store", "err", err)
		}
	}

	if err := os.WriteFile(opts.output, artifact, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	printSuccess("Rendered %s", filepath.Base(path))
	printFile(opts.output)
	printStats(doc.Tree.Len(), doc.Tree.LayerCount(), cached)
	return nil
}

// renderArtifact produces the requested artifact bytes.
func renderArtifact(ctx context.Context, doc *treeFile, ropts render.Options, format string) ([]byte, error) {
	switch format {
	case formatSVG:
		return render.SVG(doc.Tree, ropts), nil
	case formatDOT:
		return []byte(render.ToDOT(doc.Tree, ropts)), nil
	case formatPNG:
		return render.GraphvizPNG(ctx, render.ToDOT(doc.Tree, ropts))
	default:
		return nil, fmt.Errorf("invalid format: %s", format)
	}
}

// watchRender renders once, then re-renders whenever the document file
// changes, until the context is cancelled.
func watchRender(ctx context.Context, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	if err := runRender(ctx, path, opts); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors that write via
	// rename would otherwise drop the watch after the first save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	printInfo("Watching %s", path)
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Debounce bursts of events from a single save.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			evAbs, err := filepath.Abs(ev.Name)
			if err != nil || evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(100 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch", "err", err)
		case <-pending:
			pending = nil
			if err := runRender(ctx, path, opts); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				printError("%v", err)
			}
		}
	}
}
