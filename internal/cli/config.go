package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the optional TOML configuration for the CLI, loaded from
// $XDG_CONFIG_HOME/flowgrid/config.toml (or --config). Every field has a
// working zero value, so a missing file is not an error.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig provides defaults for the layout command's flags.
type LayoutConfig struct {
	OriginX    float64 `toml:"origin_x"`
	OriginY    float64 `toml:"origin_y"`
	MaxDepth   int     `toml:"max_depth"`
	RouteFanIn bool    `toml:"route_fan_in"`
}

// CacheConfig selects the plan cache backend. With no Redis address the CLI
// falls back to the file cache under the XDG cache directory.
type CacheConfig struct {
	Disabled      bool   `toml:"disabled"`
	RedisAddress  string `toml:"redis_address"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig points at the Mongo plan archive. An empty URI disables
// persistence for the CLI and makes the server fall back to memory.
type StoreConfig struct {
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Database returns the configured database name or the default.
func (s StoreConfig) Database() string {
	if s.MongoDatabase != "" {
		return s.MongoDatabase
	}
	return appName
}

// Collection returns the configured collection name or the default.
func (s StoreConfig) Collection() string {
	if s.MongoCollection != "" {
		return s.MongoCollection
	}
	return "plans"
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	Address string `toml:"address"`
}

// loadConfig reads the TOML config from path, or from the default XDG
// location when path is empty. A missing default file yields a zero Config;
// an explicitly passed path must exist.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
