package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	chordio "github.com/matzehuels/chordwheel/pkg/io"
	"github.com/matzehuels/chordwheel/pkg/pipeline"
	"github.com/matzehuels/chordwheel/pkg/relation"
)

// renderCommand creates the render command that turns a relationship file
// into diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		surfaceID  string
		static     bool
		paths      bool
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [relationships.csv]",
		Short: "Render a chord diagram from a relationship file",
		Long: `Render a chord diagram from a relationship file.

The input is a CSV file with a source,target,value header (JSON and YAML lists
with the same fields are accepted by extension). Duplicate source/target pairs
keep the last value.

Output formats:
  svg   standalone SVG with hover tooltips (default)
  png   raster at --scale (2 = 1800×1200 for the default 900×600 surface)
  json  canonical order, arc spans and ribbon spans

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd, viewFlagKeys, map[string]string{"scale": "scale"})
			if err != nil {
				return err
			}
			opts := c.optionsFromConfig(cfg)
			opts.Formats = formats
			opts.SurfaceID = surfaceID
			opts.Static = static
			opts.Paths = paths
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and render again")

	// View flags
	addViewFlags(cmd)
	cmd.Flags().Float64("scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringVar(&surfaceID, "id", "", "id attribute of the SVG root element")
	cmd.Flags().BoolVar(&static, "static", false, "omit the hover script and tooltip from SVG")
	cmd.Flags().BoolVar(&paths, "paths", false, "include SVG path data in JSON output")

	return cmd
}

// runRender loads the relationships, renders every format and writes the files.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	rels, err := loadRelationships(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx = withLogger(ctx, c.Logger)
	defer traceStages(c.Logger)()
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, rels, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	if spinner.Cancelled() {
		spinner.Stop()
		return ctx.Err()
	}
	prog.done("Rendered", "entities", result.Stats.Entities, "ribbons", result.Stats.Ribbons)

	spinner.SetMessage("Writing files...")
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Entities, result.Stats.Ribbons, result.CacheInfo.RenderHit)
	if result.Stats.Overwritten > 0 {
		printWarning("%d duplicate source/target pairs, kept the last value", result.Stats.Overwritten)
	}
	printNewline()
	printNextStep("Inspect", appName+" inspect "+input)

	return nil
}

// loadRelationships reads and validates the relationship file at path.
func loadRelationships(path string) ([]relation.Relationship, error) {
	rels, err := chordio.Import(path)
	if err != nil {
		return nil, err
	}
	if err := relation.Validate(rels); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rels, nil
}

// writeArtifacts writes each rendered format next to the input, or to output.
// A single format is written to output as given; with several formats output
// is a base path and each file gets its format extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	seen := make(map[string]bool, len(formats))
	var ordered []string
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			ordered = append(ordered, f)
		}
	}

	written := make([]string, 0, len(ordered))
	for _, f := range ordered {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("missing %s output", f)
		}
		path := outputPath(input, output, f, len(ordered) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// outputPath derives the file name for format. Without output the input name
// is reused with the format extension, never the input itself.
func outputPath(input, output, format string, multi bool) string {
	switch {
	case output == "":
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if strings.EqualFold(filepath.Ext(input), "."+format) {
			base += ".chord"
		}
		return base + "." + format
	case multi:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	default:
		return output
	}
}
