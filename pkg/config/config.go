// Package config loads carousel settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/carousel/config.toml (default
// ~/.config/carousel/config.toml). Every key is optional; missing keys keep
// the values from [Default]. Unknown keys are rejected so typos surface
// instead of silently falling back.
//
//	[layout]
//	main_axis_size = 412
//	item_spacing = 8
//	alignment = "center"
//	strategy = "hero"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
)

// AppName names the config, cache and data directories.
const AppName = "carousel"

// Config is the full configuration file.
type Config struct {
	Layout  LayoutConfig `toml:"layout"`
	Cache   CacheConfig  `toml:"cache"`
	Presets PresetConfig `toml:"presets"`
	Server  ServerConfig `toml:"server"`
}

// LayoutConfig holds defaults for layout requests that omit a value.
type LayoutConfig struct {
	MainAxisSize      float64           `toml:"main_axis_size"`
	ItemSpacing       float64           `toml:"item_spacing"`
	Alignment         keyline.Alignment `toml:"alignment"`
	Strategy          string            `toml:"strategy"`
	PreferredItemSize float64           `toml:"preferred_item_size"`
	ItemCount         int               `toml:"item_count"`
	MaxItemCount      int               `toml:"max_item_count"`
	MinSmall          float64           `toml:"min_small"`
	MaxSmall          float64           `toml:"max_small"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	TTL           time.Duration `toml:"ttl"`
}

// PresetConfig selects and configures the preset store.
type PresetConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	SQLitePath      string `toml:"sqlite_path"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ServerConfig configures `carousel serve`.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// DefaultMaxItemCount caps the items a single layout request may place.
const DefaultMaxItemCount = 10000

var (
	cacheBackends  = []string{"file", "redis", "none"}
	presetBackends = []string{"sqlite", "file", "mongo", "memory"}
)

// Default returns the built-in configuration. Paths are left empty and
// resolved by [Config.ResolvePaths].
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			MainAxisSize:      360,
			ItemSpacing:       8,
			Alignment:         keyline.AlignStart,
			Strategy:          string(carousel.KindMultiBrowse),
			PreferredItemSize: 186,
			ItemCount:         10,
			MaxItemCount:      DefaultMaxItemCount,
			MinSmall:          carousel.DefaultMinSmall,
			MaxSmall:          carousel.DefaultMaxSmall,
		},
		Cache: CacheConfig{
			Backend: "file",
			Prefix:  AppName + ":",
			TTL:     7 * 24 * time.Hour,
		},
		Presets: PresetConfig{
			Backend:         "sqlite",
			MongoDatabase:   AppName,
			MongoCollection: "presets",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
	}
}

// Load reads the config file at path on top of [Default]. An empty path
// means [DefaultPath]; a missing file at the default path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			err = cfg.finish()
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			err = cfg.finish()
			return cfg, err
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of [Default].
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.ResolvePaths()
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if err := errors.ValidateMainAxisSize(c.Layout.MainAxisSize); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout.main_axis_size")
	}
	if err := errors.ValidateItemSpacing(c.Layout.ItemSpacing); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "layout.item_spacing")
	}
	if _, err := carousel.ParseKind(c.Layout.Strategy); err != nil {
		return err
	}
	if c.Layout.PreferredItemSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.preferred_item_size must be positive")
	}
	if c.Layout.ItemCount < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.item_count must be at least 1")
	}
	if c.Layout.MaxItemCount < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.max_item_count must be at least 1")
	}
	if c.Layout.ItemCount > c.Layout.MaxItemCount {
		return errors.New(errors.ErrCodeInvalidInput, "layout.item_count %d exceeds layout.max_item_count %d", c.Layout.ItemCount, c.Layout.MaxItemCount)
	}
	if c.Layout.MinSmall > c.Layout.MaxSmall {
		return errors.New(errors.ErrCodeInvalidInput, "layout.min_small exceeds layout.max_small")
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if !slices.Contains(presetBackends, c.Presets.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "presets.backend %q (want sqlite, file, mongo or memory)", c.Presets.Backend)
	}
	if c.Presets.Backend == "mongo" && c.Presets.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "presets.mongo_uri is required for the mongo backend")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr must not be empty")
	}
	return nil
}

// ResolvePaths fills empty directory settings from the XDG locations.
func (c *Config) ResolvePaths() error {
	if c.Cache.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return err
		}
		c.Cache.Dir = dir
	}
	if c.Presets.SQLitePath == "" || c.Presets.Dir == "" {
		dir, err := DataDir()
		if err != nil {
			return err
		}
		if c.Presets.SQLitePath == "" {
			c.Presets.SQLitePath = filepath.Join(dir, "presets.db")
		}
		if c.Presets.Dir == "" {
			c.Presets.Dir = filepath.Join(dir, "presets")
		}
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
