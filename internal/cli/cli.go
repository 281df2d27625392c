package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodecanvas/pkg/buildinfo"
	"github.com/matzehuels/nodecanvas/pkg/cache"
	"github.com/matzehuels/nodecanvas/pkg/theme"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nodecanvas"

	// redisEnv names the environment variable holding the Redis URL.
	redisEnv = "NODECANVAS_REDIS"
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

	// Persistent flags.
	themePath string
	redisURL  string
	workspace string
	noCache   bool
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
		Short: "nodecanvas lays out and previews node graphs on a zoomable canvas",
		Long: `nodecanvas runs the frame loop of a node-graph canvas outside of a GUI:
it places nodes under an animated pan/zoom, collapses their pins, keeps the
measured layout across frames and sessions, and draws the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.themePath, "theme", "", "theme file (.toml or .yaml); defaults to the user theme if present")
	flags.StringVar(&c.redisURL, "redis", "", "store snapshots in Redis at this URL (env "+redisEnv+")")
	flags.StringVar(&c.workspace, "workspace", "", "namespace for stored snapshots")
	flags.BoolVar(&c.noCache, "no-cache", false, "do not read or write stored state")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.themeCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadStyle loads the theme named by --theme, falling back to the user
// theme and then to the built-in default.
func (c *CLI) loadStyle() (*theme.Style, error) {
	if c.themePath != "" {
		return theme.Load(c.themePath)
	}
	if path := theme.DefaultPath(); fileExists(path) {
		c.Logger.Debug("using user theme", "path", path)
		return theme.Load(path)
	}
	return theme.Default(), nil
}

// store is the snapshot and preview storage selected by the flags.
type store struct {
	snapshots cache.Cache
	previews  cache.Cache
	keyer     cache.Keyer
	backend   cache.Cache
}

func (s *store) Close() error { return s.backend.Close() }

// openStore opens Redis when a URL is configured and the file cache
// otherwise. --no-cache selects the null cache.
func (c *CLI) openStore(ctx context.Context) (*store, error) {
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if c.workspace != "" {
		keyer = cache.NewScopedKeyer(keyer, c.workspace+":")
	}

	backend, err := c.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	return &store{
		snapshots: cache.Instrument(backend, cache.KeyTypeSnapshot),
		previews:  cache.Instrument(backend, cache.KeyTypePreview),
		keyer:     keyer,
		backend:   backend,
	}, nil
}

func (c *CLI) openBackend(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}

	url := c.redisURL
	if url == "" {
		url = os.Getenv(redisEnv)
	}
	if url != "" {
		c.Logger.Debug("using redis store", "url", url)
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: url, Prefix: appName + ":"})
	}

	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Warn("state will not be kept", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
