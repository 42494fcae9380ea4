package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/svgraster/pkg/backend"
	"github.com/matzehuels/svgraster/pkg/buildinfo"
	"github.com/matzehuels/svgraster/pkg/cache"
	"github.com/matzehuels/svgraster/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "svgraster"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

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
		Use:          appName,
		Short:        "svgraster rasterizes SVG shipping labels",
		Long:         `svgraster converts SVG label documents into fixed-size print rasters, using rsvg-convert when it is installed and an in-process renderer otherwise.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use from the resolved settings.
func (c *CLI) newRunner(cfg Config, noCache bool) (*pipeline.Runner, error) {
	policy, ok := pipeline.ParseFallbackPolicy(cfg.Fallback)
	if !ok {
		return nil, errInvalidFallback(cfg.Fallback)
	}
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}

	extOpts := []backend.ExternalOption{backend.WithTool(cfg.Tool)}
	if cfg.Timeout.Duration > 0 {
		extOpts = append(extOpts, backend.WithTimeout(cfg.Timeout.Duration))
	}

	return pipeline.NewRunner(
		backend.NewCapability(cfg.Tool, c.Logger),
		c.Logger,
		pipeline.WithExternal(backend.NewExternal(c.Logger, extOpts...)),
		pipeline.WithCache(store),
		pipeline.WithFallbackPolicy(policy),
	), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/svgraster/).
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

// configPath returns the default config file (~/.config/svgraster/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFile), nil
}
