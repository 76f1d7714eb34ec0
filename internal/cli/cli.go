// Package cli implements the rigport command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/rigport/rigport/internal/config"
	"github.com/rigport/rigport/pkg/buildinfo"
	"github.com/rigport/rigport/pkg/cache"
	"github.com/rigport/rigport/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "rigport"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	quiet      bool
	config     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "rigport assembles exported character parts into one rig",
		Long: `rigport reads the payload a game asset extractor writes, imports each
part of every group, binds and de-duplicates materials, and merges the
part skeletons of an outfit into one master hierarchy.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
				c.SetLogLevel(lvl)
			}
			switch {
			case c.verbose:
				c.SetLogLevel(LogDebug)
			case c.quiet:
				c.SetLogLevel(LogWarn)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.DefaultFile+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "only log warnings and errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.config = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
	}
	runner := pipeline.NewRunner(ch, keyer, c.Logger)
	if ttl, err := cfg.CacheTTL(); err == nil {
		runner.TTL = ttl
	}
	return runner, nil
}

// newCache selects the artifact cache: none when disabled, Redis when a URL
// is configured, otherwise files under the cache directory.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/rigport/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// resolveCacheDir prefers the configured directory over the XDG default.
func resolveCacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}
