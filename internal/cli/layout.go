package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/cache"
	"github.com/zyxir/genealogy-manager/pkg/layout"
)

// newLayoutCmd creates the layout command, which computes and prints
// the horizontal position of every person.
func newLayoutCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute horizontal positions for every person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			doc, err := loadTree(args[0])
			if err != nil {
				return err
			}

			store, ttl, err := openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer store.Close()

			keyer := cache.NewDefaultKeyer()
			key := keyer.LayoutKey(cache.Hash(doc.Data))

			xs, cached := cachedLayout(ctx, store, key)
			if !cached {
				prog := newProgress(logger)
				xs = layout.ComputeXs(doc.Tree)
				prog.done(fmt.Sprintf("Laid out %d people", doc.Tree.Len()))
				if data, err := json.Marshal(xs); err == nil {
					if err := store.Set(ctx, key, data, ttl); err != nil {
						logger.Debug("cache layout", "err", err)
					}
				}
			}

			for y := 0; y < doc.Tree.LayerCount(); y++ {
				for _, id := range doc.Tree.Layer(y) {
					fmt.Printf("%s  %s  %s\n",
						StyleNumber.Render(fmt.Sprintf("%4d", id)),
						StyleDim.Render(fmt.Sprintf("layer %d", y)),
						StyleValue.Render(fmt.Sprintf("x=%.2f", xs[id])))
				}
			}
			printNewline()
			printStats(doc.Tree.Len(), doc.Tree.LayerCount(), cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute even if a cached layout exists")

	return cmd
}

// cachedLayout fetches a previously computed layout. A miss or an
// unreadable entry returns false.
func cachedLayout(ctx context.Context, store cache.Cache, key string) (map[int]float64, bool) {
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	xs := make(map[int]float64, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, false
		}
		xs[id] = v
	}
	return xs, true
}
