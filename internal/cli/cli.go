// Package cli implements the dungeongen command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/buildinfo"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/cache"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dungeongen"

	// defaultAddr is where serve listens when neither flag nor config sets it.
	defaultAddr = ":8080"
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

// New creates a new CLI instance logging to w.
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
		Short: "Procedural dungeon generator",
		Long: `dungeongen carves a rectangle into rooms by binary space partitioning,
links neighbours with doors, prunes and loop-reduces the room graph, and
rasterizes the result into an occupancy grid that can be searched for paths.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.CacheConfig) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Prefix)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// openCache resolves the cache backend: disabled, an explicit DSN, or the
// file cache under cacheDir.
func (c *CLI) openCache(ctx context.Context, cfg pipeline.CacheConfig) (cache.Cache, error) {
	if cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.DSN != "" {
		store, err := cache.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", cfg.DSN, err)
		}
		c.Logger.Debug("cache opened", "dsn", cfg.DSN)
		return store, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// execute runs the pipeline. Unless debug logging is on, a spinner on w
// follows the stages and only warnings are logged, to w as well.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, w io.Writer) (*pipeline.Result, error) {
	if w == nil || c.Logger.GetLevel() <= log.DebugLevel {
		prog := newProgress(c.Logger)
		res, err := runner.Execute(ctx, opts)
		if err != nil {
			return nil, err
		}
		prog.done("generated dungeon", "rooms", res.Stats.Rooms, "doors", res.Stats.Doors, "cached", res.CacheInfo.LayoutHit)
		return res, nil
	}

	sp := newSpinner(ctx, w, "Generating...")
	opts.Hooks = observability.Multi(sp, observability.Pipeline())
	opts.Logger = newLogger(w, log.WarnLevel)
	sp.Start()
	defer sp.Stop()
	return runner.Execute(ctx, opts)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dungeongen/).
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

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{fallback}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// fileExt maps a render format to a file extension.
func fileExt(format string) string {
	switch format {
	case pipeline.FormatASCII:
		return "txt"
	case pipeline.FormatTiles:
		return "tiles.json"
	}
	return format
}

// writeArtifacts writes each rendered format next to base. A single format
// whose base already carries an extension is written to base as is.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if len(formats) == 1 && filepath.Ext(base) != "" {
		if err := writeFile(base, artifacts[formats[0]]); err != nil {
			return nil, err
		}
		return []string{base}, nil
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + fileExt(f)
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
