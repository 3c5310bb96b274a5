package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zyxir/genealogy-manager/pkg/cache"
	"github.com/zyxir/genealogy-manager/pkg/config"
)

// cacheDir resolves the file cache directory from the configuration,
// defaulting to ~/.cache/gm.
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "gm"), nil
}

// openCache builds the artifact cache selected by the configuration.
// noCache forces the null backend regardless of config.
func openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, time.Duration, error) {
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	if noCache {
		return cache.NewNullCache(), ttl, nil
	}
	switch cfg.Cache.Backend {
	case "", "file":
		dir, err := cacheDir(cfg)
		if err != nil {
			return nil, 0, err
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, 0, fmt.Errorf("open file cache: %w", err)
		}
		return c, ttl, nil
	case "redis":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("open redis cache: %w", err)
		}
		return c, ttl, nil
	case "none":
		return cache.NewNullCache(), ttl, nil
	default:
		return nil, 0, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// newCacheCmd creates the cache management command.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render artifact cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())

	return cmd
}

// newCacheClearCmd creates the "cache clear" subcommand.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(configFromContext(cmd.Context()))
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir {
					return nil
				}
				if !info.IsDir() {
					if err := os.Remove(path); err == nil {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			// Clean up empty subdirectories
			_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil || path == dir {
					return nil
				}
				if info.IsDir() {
					os.Remove(path)
				}
				return nil
			})

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// newCachePathCmd creates the "cache path" subcommand.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(configFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
