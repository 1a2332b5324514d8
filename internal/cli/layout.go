package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordwheel/pkg/pipeline"
)

// layoutCommand creates the layout command that prints the canonical order
// and arc spans of a relationship file.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		asJSON  bool
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [relationships.csv]",
		Short: "Print the canonical entity order and arc spans",
		Long: `Print the canonical entity order and arc spans.

The layout command canonicalizes the entities of a relationship file, assigns
each a category and computes its arc around the circle. Angles are reported in
degrees clockwise from 12 o'clock.

Use --json (or -o) for a machine-readable summary.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, map[string]string{"pad-angle": "pad_angle"})
			if err != nil {
				return err
			}
			opts := c.optionsFromConfig(cfg)
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], opts, output, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON summary to a file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON summary instead of a table")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().Float64("pad-angle", 0, "gap between arcs in radians (0: default, negative: none)")

	return cmd
}

// runLayout loads the relationships, computes the summary and prints it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, asJSON, noCache bool) error {
	rels, err := loadRelationships(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	defer traceStages(c.Logger)()

	summary, cacheHit, err := runner.SummarizeWithCacheInfo(withLogger(ctx, c.Logger), rels, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if asJSON || output != "" {
		data, err := pipeline.MarshalSummary(summary)
		if err != nil {
			return err
		}
		if output == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(len(summary.Entities), summary.Ribbons, cacheHit)
		return nil
	}

	if len(summary.Entities) == 0 {
		printInfo("No relationships to display")
		return nil
	}

	fmt.Println(layoutTable(summary))
	printStats(len(summary.Entities), summary.Ribbons, cacheHit)
	printKeyValue("Total", strconv.FormatFloat(summary.Total, 'f', -1, 64))
	printKeyValue("Pad angle", fmt.Sprintf("%.2f°", degrees(summary.PadAngle)))
	if summary.Overwritten > 0 {
		printWarning("%d duplicate source/target pairs, kept the last value", summary.Overwritten)
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

// layoutTable renders the summary as a bordered table, one row per entity in
// canonical order.
func layoutTable(s pipeline.Summary) string {
	rows := make([][]string, 0, len(s.Entities))
	for _, e := range s.Entities {
		rows = append(rows, []string{
			strconv.Itoa(e.Index),
			e.Code,
			e.Label,
			e.Category.String(),
			strconv.FormatFloat(e.Value, 'f', -1, 64),
			fmt.Sprintf("%.2f°", degrees(e.StartAngle)),
			fmt.Sprintf("%.2f°", degrees(e.EndAngle)),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("#", "Code", "Label", "Category", "Value", "Start", "End").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col >= 4:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
