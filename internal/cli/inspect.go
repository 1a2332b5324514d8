package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordwheel/pkg/render/chord/interaction"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

// inspectCommand creates the inspect command, a terminal view that steps the
// hover tooltip over the ribbons of a diagram.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [relationships.csv]",
		Short: "Browse the ribbons of a diagram and their tooltips",
		Long: `Browse the ribbons of a diagram and their tooltips.

Each ribbon is listed with its source, target, value and color. Moving the
cursor hovers the selected ribbon and shows the tooltip the SVG would show.

Use --plain to print every tooltip without the interactive view.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInputFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, viewFlagKeys)
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), args[0], cfg.View(), plain)
		},
	}

	addViewFlags(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print tooltips instead of starting the interactive view")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, view scene.ViewState, plain bool) error {
	rels, err := loadRelationships(input)
	if err != nil {
		return err
	}

	surface := scene.NewSurface(view)
	sc := surface.Draw(rels)
	c.Logger.Debug("scene built", "entities", len(sc.Arcs), "ribbons", len(sc.Ribbons))
	if sc.Overwritten > 0 {
		printWarning("%d duplicate source/target pairs, kept the last value", sc.Overwritten)
	}

	if plain {
		printTooltips(surface)
		return nil
	}

	if _, err := tea.NewProgram(NewInspectModel(surface), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}

// printTooltips hovers every ribbon in turn and prints its tooltip.
func printTooltips(s *scene.Surface) {
	sc := s.Scene()
	if sc.Empty() {
		printInfo("No relationships to display")
		return
	}
	for i := range sc.Ribbons {
		p, _ := ribbonAnchor(sc, i)
		s.EnterRibbon(i, p)
		fmt.Println(interaction.Format(s.Interaction().Tooltip()))
		fmt.Println()
		s.LeaveRibbon(i)
	}
	printStats(len(sc.Arcs), len(sc.Ribbons), false)
}
