package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/report"
)

// allocateCommand creates the allocate command for computing a channel
// allocation.
func (c *CLI) allocateCommand() *cobra.Command {
	var (
		vertical, objective, budget string
		chartKind, output           string
		asJSON                      bool
	)

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Compute the normalized channel allocation",
		Long: `Compute the paid-media channel allocation for an industry type and
business objective.

The vertical's base mix is scaled by the objective's adjustment factors and
renormalized to 100%. With --budget the shares are also converted to dollar
amounts of the tier's midpoint investment.

Use --chart to draw the allocation as a pie or radar chart (SVG).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if chartKind != "" {
				if err := pipeline.ValidateChart(chartKind); err != nil {
					return err
				}
			}
			return c.runAllocate(cmd.Context(), vertical, objective, budget, chartKind, output, asJSON)
		},
	}

	cmd.Flags().StringVarP(&vertical, "vertical", "V", "", "industry type (required)")
	cmd.Flags().StringVarP(&objective, "objective", "o", "", "business objective (required)")
	cmd.Flags().StringVarP(&budget, "budget", "b", "", "investment level, e.g. \"$100K-$250K\"")
	cmd.Flags().StringVar(&chartKind, "chart", "", "draw a chart instead of a table: pie, radar")
	cmd.Flags().StringVar(&output, "out", "", "chart output file (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the allocation as JSON")
	_ = cmd.MarkFlagRequired("vertical")
	_ = cmd.MarkFlagRequired("objective")
	c.registerSelectionCompletions(cmd)

	return cmd
}

func (c *CLI) runAllocate(ctx context.Context, vertical, objective, budget, chartKind, output string, asJSON bool) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	a, err := runner.Allocate(ctx, vertical, objective, budget)
	if err != nil {
		return err
	}

	switch {
	case chartKind != "":
		title := fmt.Sprintf("%s / %s", vertical, objective)
		svg := pipeline.RenderCharts(a.Table, title, []string{chartKind})[pipeline.ArtifactKey(chartKind, pipeline.FormatSVG)]
		if output == "" {
			_, err := c.Out.Write(svg)
			return err
		}
		if err := os.WriteFile(output, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Chart complete")
		printFile(output)
		return nil

	case asJSON:
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	printKeyValue(c.Out, "Vertical", vertical)
	printKeyValue(c.Out, "Objective", objective)
	if a.Investment != nil {
		printKeyValue(c.Out, "Investment", fmt.Sprintf("%s (midpoint %s)", a.Investment.Name, report.Money(a.Investment.Mid())))
	}
	fmt.Fprintln(c.Out, allocationTable(a.Table, a.Budget))
	return nil
}
