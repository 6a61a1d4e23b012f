// Package config loads and validates compiler configuration from a
// TOML-based format, the same way the rest of this module's pack loads
// structured on-disk data (grounded on internal/tqw's TOML config format).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// BackendKind names which codegen.Backend implementation the driver should
// construct. Further kinds can be added as real compiler backend bindings
// become available; textir is the only one this module ships.
type BackendKind string

const (
	BackendTextIR BackendKind = "textir"
)

// Cache holds settings for the build cache (internal/buildcache).
type Cache struct {
	// Enabled turns on content-addressed memoization of compile results.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Dir is the directory the sqlite-backed cache database lives in.
	Dir string `toml:"dir" json:"dir"`
}

// Config is a full compiler configuration, loadable from a TOML file on
// disk and overridable by command-line flags (spec.md command-line flags
// take precedence over any value read from here).
type Config struct {
	// Backend selects which Backend implementation to target.
	Backend BackendKind `toml:"backend" json:"backend"`
	// TargetTriple is passed through to Backend.EmitObject when emitting a
	// host object file; empty selects the backend's own default.
	TargetTriple string `toml:"target_triple" json:"targetTriple"`
	// Cache configures build-result memoization.
	Cache Cache `toml:"cache" json:"cache"`
}

// Default returns a Config with every field set to its zero-config default:
// the textir reference backend, no target triple override, and the cache
// enabled against a conventional directory.
func Default() Config {
	return Config{
		Backend: BackendTextIR,
		Cache:   Cache{Enabled: true, Dir: ".minic-cache"},
	}
}

// Load reads and parses a TOML config file at path, filling in defaults for
// anything the file leaves unset. A missing file is not an error; Load
// returns Default() in that case so a fresh checkout needs no config file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// Decode over cfg rather than a zero value so fields the file omits
	// keep their Default() values instead of becoming Go zero values.
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports whether cfg's fields hold a usable combination.
func (cfg Config) Validate() error {
	switch cfg.Backend {
	case BackendTextIR:
	default:
		return fmt.Errorf("unknown backend: %q", cfg.Backend)
	}
	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		return fmt.Errorf("cache: enabled but no dir set")
	}
	return nil
}
