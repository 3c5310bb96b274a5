// Package config loads the gm configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/gm/config.toml. Every key is optional: [Load] starts from
// [Default] and overlays whatever the file sets, so a missing file is
// simply the default configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/zyxir/genealogy-manager/pkg/render"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// Config is the full gm configuration.
type Config struct {
	Cache      CacheConfig      `toml:"cache"`
	Redis      RedisConfig      `toml:"redis"`
	Mongo      MongoConfig      `toml:"mongo"`
	Server     ServerConfig     `toml:"server"`
	Render     RenderConfig     `toml:"render"`
	Generation GenerationConfig `toml:"generation"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	// Backend is "file", "redis", or "none".
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"` // file backend; empty = ~/.cache/gm
	TTLHours int    `toml:"ttl_hours"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB document store.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// RenderConfig configures SVG painting geometry.
type RenderConfig struct {
	UnitX     int  `toml:"unit_x"`
	UnitY     int  `toml:"unit_y"`
	BoxWidth  int  `toml:"box_width"`
	BoxHeight int  `toml:"box_height"`
	ShowYears bool `toml:"show_years"`
}

// GenerationConfig sets the generation-index definitions new trees
// start with.
type GenerationConfig struct {
	Base        int          `toml:"base"`
	Definitions []Definition `toml:"definitions"`
}

// Definition is one named generation-index definition.
type Definition struct {
	Name   string `toml:"name"`
	Offset int    `toml:"offset"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	opts := render.DefaultOptions()
	gi := tree.DefaultGISettings()
	cfg := Config{
		Cache:  CacheConfig{Backend: "file", TTLHours: 24 * 7},
		Server: ServerConfig{Addr: "localhost:7235"},
		Render: RenderConfig{
			UnitX:     opts.UnitX,
			UnitY:     opts.UnitY,
			BoxWidth:  opts.BoxWidth,
			BoxHeight: opts.BoxHeight,
			ShowYears: opts.ShowYears,
		},
		Generation: GenerationConfig{Base: gi.Base},
	}
	for _, def := range gi.Defs {
		cfg.Generation.Definitions = append(cfg.Generation.Definitions,
			Definition{Name: def.Name, Offset: def.Offset})
	}
	return cfg
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "gm", "config.toml"), nil
}

// Load reads the config file at path, overlaying it on [Default]. A
// missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// GISettings converts the generation section to tree settings.
func (c Config) GISettings() tree.GenerationIndexSettings {
	s := tree.GenerationIndexSettings{Base: c.Generation.Base}
	for _, def := range c.Generation.Definitions {
		s.Defs = append(s.Defs, tree.GenerationIndexDefinition{Name: def.Name, Offset: def.Offset})
	}
	if len(s.Defs) == 0 {
		s = tree.DefaultGISettings()
	}
	return s
}

// RenderOptions converts the render section to painter options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		UnitX:     c.Render.UnitX,
		UnitY:     c.Render.UnitY,
		BoxWidth:  c.Render.BoxWidth,
		BoxHeight: c.Render.BoxHeight,
		ShowYears: c.Render.ShowYears,
		GIDef:     0,
	}
}
