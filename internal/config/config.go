// Package config loads cratedex configuration from TOML files.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName    = "cratedex"
	dbFileName = "cratedex.db"
)

type Config struct {
	Database     string `koanf:"database"`      // path to the SQLite store
	DefaultLimit int    `koanf:"default_limit"` // default search result cap

	Export ExportConfig `koanf:"export"`
}

// ExportConfig holds CSV export and path conversion settings.
type ExportConfig struct {
	// VolumeMap maps volume names to Windows drive letters for path
	// conversion, e.g. USB1 = "E".
	VolumeMap map[string]string `koanf:"volume_map"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		DefaultLimit: 100,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Database != "" {
		cfg.Database = expandPath(cfg.Database)
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 100
	}

	return cfg, nil
}

// DatabasePath returns the configured store path, falling back to the XDG
// data directory.
func (c *Config) DatabasePath() (string, error) {
	if c.Database != "" {
		return c.Database, nil
	}
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// VolumeMappings returns the configured volume map as ordered name=letter
// pairs, sorted by volume name so reverse lookups are deterministic.
func (c *Config) VolumeMappings() []string {
	names := make([]string, 0, len(c.Export.VolumeMap))
	for name := range c.Export.VolumeMap {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+c.Export.VolumeMap[name])
	}
	return pairs
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/cratedex/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
