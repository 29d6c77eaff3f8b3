package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/carousel/pkg/buildinfo"
	"github.com/matzehuels/carousel/pkg/cache"
	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/observability"
	"github.com/matzehuels/carousel/pkg/pipeline"
	"github.com/matzehuels/carousel/pkg/preset"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completion scripts.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is loaded before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Carousel computes keyline layouts for scrolling carousels",
		Long: `Carousel computes keyline layouts for horizontally scrolling carousels:
where each item sits, how large it is and how much of it is cut off at any
scroll offset.

Layouts come from explicit item sizes or from the uncontained, multi-browse
and hero strategies. Results can be printed, saved as JSON, stored as named
presets or served over HTTP.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/carousel/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.snapCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}

// setup applies --verbose, loads the config file and attaches the logger
// to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	level := LogInfo
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.verbose {
		hooks := &debugHooks{logger: c.Logger}
		observability.SetLayoutHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetStoreHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, c.newKeyer(), c.Logger)
	r.Defaults = c.Config.Layout
	if c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == string(cache.BackendNone) {
		return cache.NewNullCache(), nil
	}

	switch cache.Backend(cfg.Backend) {
	case cache.BackendRedis:
		s := newSpinnerWithContext(ctx, os.Stderr, "Connecting to redis at "+cfg.RedisAddr+"...")
		s.Start()
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
		s.Stop()
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// newKeyer scopes keys by build version, so an upgraded binary never reads
// layouts computed by an older engine.
func (c *CLI) newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

// newStore opens the configured preset store.
func (c *CLI) newStore(ctx context.Context) (preset.Store, error) {
	cfg := c.Config.Presets
	if cfg.Backend != "mongo" {
		return preset.Open(ctx, cfg)
	}
	s := newSpinnerWithContext(ctx, os.Stderr, "Connecting to mongo...")
	s.Start()
	defer s.Stop()
	return preset.Open(ctx, cfg)
}
