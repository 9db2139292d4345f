package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/acrostic/internal/config"
	"github.com/matzehuels/acrostic/pkg/buildinfo"
	"github.com/matzehuels/acrostic/pkg/cache"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "acrostic"

	// stdinArg selects standard input as the lyrics source.
	stdinArg = "-"
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

	// ConfigPath is the --config flag value. Empty selects the default
	// config file, if any.
	ConfigPath string

	cfg *config.Config
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
		Short: "Acrostic lays out lyrics so a band name reads down one column",
		Long: `Acrostic arranges song lyrics into lines so that the letters of a band name
line up vertically in a single column, reading top to bottom.

Lyrics come from a file or standard input. Layouts are cached locally, and
the same engine is available over HTTP with 'acrostic serve'.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/acrostic/config.toml)")

	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.latticeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once. The configured log level only
// applies when -v has not already raised the level to debug.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg

	if c.Logger.GetLevel() != log.DebugLevel {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// config returns the loaded configuration, or the defaults when no
// command hook has loaded one.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := c.config().Cache.Prefix; prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache whose
// directory cannot be determined degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config()
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Input Helpers
// =============================================================================

// readLyrics reads lyrics from path, or from stdin when path is empty or "-".
func readLyrics(stdin io.Reader, path string) (string, error) {
	if path == "" || path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read lyrics: %w", err)
	}
	return string(data), nil
}

// lyricsPath returns the optional second positional argument.
func lyricsPath(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return stdinArg
}

// layoutFlags are the layout tuning flags shared by arrange, browse and
// lattice. Unset flags fall back to the config file, then the solver
// defaults.
type layoutFlags struct {
	min  int
	max  int
	caps string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.min, "min", 0, "preferred minimum line length (default 8)")
	cmd.Flags().IntVar(&f.max, "max", 0, "preferred maximum line length (default 24)")
	cmd.Flags().StringVar(&f.caps, "caps", "", "comma-separated hard line caps to try, e.g. 24,32,120")
}

// options builds pipeline options for token from the flags and config.
func (f *layoutFlags) options(cfg *config.Config, token string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Token:        token,
		MinLineChars: f.min,
		MaxLineChars: f.max,
	}
	if strings.TrimSpace(f.caps) != "" {
		caps, err := config.ParseCaps(f.caps)
		if err != nil {
			return opts, fmt.Errorf("--caps: %w", err)
		}
		opts.CapSchedule = caps
	}
	cfg.ApplyLayout(&opts)
	return opts, nil
}
