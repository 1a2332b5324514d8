package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordwheel/pkg/buildinfo"
	"github.com/matzehuels/chordwheel/pkg/cache"
	"github.com/matzehuels/chordwheel/pkg/config"
	"github.com/matzehuels/chordwheel/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "chordwheel"

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

	// configPath is set by the persistent --config flag.
	configPath string
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
		Short: "Chordwheel draws relationship data as interactive chord diagrams",
		Long: `Chordwheel turns a list of weighted source → target relationships into a
chord diagram: one arc per entity around a circle, one ribbon per flow.

Entities are ordered by category (containers such as "2 Finance", process areas
such as "A. Policy", processes such as "A1 Intake", then everything else) so
diagrams are stable across runs and input order.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/chordwheel/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// viewFlagKeys maps the shared view flags to their config keys.
var viewFlagKeys = map[string]string{
	"width":     "width",
	"height":    "height",
	"palette":   "palette",
	"color-by":  "color_by",
	"pad-angle": "pad_angle",
}

// addViewFlags registers the flags every diagram command shares. Defaults are
// shown for help output only; the effective value comes from loadConfig.
func addViewFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().Float64("width", d.Width, "surface width")
	cmd.Flags().Float64("height", d.Height, "surface height")
	cmd.Flags().StringSlice("palette", nil, "comma-separated #rrggbb colors (default: category10)")
	cmd.Flags().String("color-by", d.ColorBy, "ribbon color endpoint: target, source")
	cmd.Flags().Float64("pad-angle", d.PadAngle, "gap between arcs in radians (0: default, negative: none)")
}

// loadConfig reads the config file and environment, then applies the flags of
// cmd named in flagKeys that the user actually set.
func (c *CLI) loadConfig(cmd *cobra.Command, flagKeys ...map[string]string) (*config.Config, error) {
	v, err := config.New(c.configPath)
	if err != nil {
		return nil, err
	}
	for _, keys := range flagKeys {
		if err := config.Bind(v, cmd, keys); err != nil {
			return nil, err
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return config.FromViper(v)
}

// optionsFromConfig converts the diagram settings of cfg to pipeline options.
func (c *CLI) optionsFromConfig(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Palette:  cfg.Palette,
		ColorBy:  cfg.ColorBy,
		PadAngle: cfg.PadAngle,
		Scale:    cfg.Scale,
		Logger:   c.Logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
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

// cacheDir returns the cache directory using XDG standard (~/.cache/chordwheel/).
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
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
