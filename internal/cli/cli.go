package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/droidview/pkg/buildinfo"
	"github.com/matzehuels/droidview/pkg/cache"
	"github.com/matzehuels/droidview/pkg/config"
	"github.com/matzehuels/droidview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "droidview"

	// settingsFile is read from the working directory when --config is not given.
	settingsFile = "droidview.toml"
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

	// status receives spinner frames; it is the writer the logger uses.
	status io.Writer

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "droidview converts web page snapshots into Android layouts",
		Long: `droidview converts a captured HTML/CSS page into a native Android view
hierarchy: layout XML with LinearLayout, FrameLayout, GridLayout,
RelativeLayout and ConstraintLayout containers plus the string, color and
style resources the views refer to.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default ./"+settingsFile+" when present)")

	// Register all subcommands
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.captureCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// loadSettings reads --config, or ./droidview.toml when it exists, on top
// of the built-in defaults.
func (c *CLI) loadSettings() (config.Settings, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	s, err := config.Load(settingsFile)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return s, err
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, settings config.Settings, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, settings.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// openCache opens the configured backend. A file cache that cannot be
// created only disables caching.
func (c *CLI) openCache(ctx context.Context, cfg config.Cache, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil && (cfg.Backend == config.CacheFile || cfg.Backend == "") && cfg.Dir == "" {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/droidview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return cache.DefaultDir(cacheHome), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return cache.DefaultDir(filepath.Join(home, ".cache")), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string leaves the choice to the settings.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
