package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/pipeline"
)

// mindmapCommand creates the mindmap command for laying out and rendering
// the strategy mind map.
func (c *CLI) mindmapCommand() *cobra.Command {
	var (
		format string
		output string
	)
	opts := pipeline.Options{Tooltips: true}

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Lay out the strategy mind map for an objective",
		Long: `Lay out the strategy mind map for a business objective.

Every objective in the catalog becomes a main node on the first ring. The
chosen objective is expanded into its four profile attributes and their
list items. An objective the catalog does not know yields only the main
ring.

Text formats (json, dot, svg) go to stdout unless --out is set; png and pdf
are written to mindmap.<format> by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateMindmapFormat(format); err != nil {
				return err
			}
			return c.runMindmap(cmd.Context(), opts, format, output)
		},
	}

	cmd.Flags().StringVarP(&opts.Objective, "objective", "o", "", "business objective to expand")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json (default), dot, svg, png, pdf")
	cmd.Flags().StringVar(&output, "out", "", "output file (default: stdout, or mindmap.<format> for png/pdf)")
	cmd.Flags().StringVar(&opts.CenterLabel, "center", mindmap.DefaultCenterLabel, "label of the center node")
	cmd.Flags().BoolVar(&opts.Tooltips, "tooltips", opts.Tooltips, "attach tooltips to rendered nodes")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().Float64Var(&opts.Radii.Main, "r-main", mindmap.DefaultRadii.Main, "radius of the objective ring")
	cmd.Flags().Float64Var(&opts.Radii.Sub, "r-sub", mindmap.DefaultRadii.Sub, "distance of attribute nodes from their objective")
	cmd.Flags().Float64Var(&opts.Radii.Detail, "r-detail", mindmap.DefaultRadii.Detail, "distance of item nodes from their attribute")
	c.registerSelectionCompletions(cmd)

	return cmd
}

func (c *CLI) runMindmap(ctx context.Context, opts pipeline.Options, format, output string) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	g, err := runner.Layout(ctx, opts.Objective, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	opts.Mindmap = []string{format}
	var artifacts map[string][]byte
	if format == pipeline.FormatJSON || format == pipeline.FormatDOT {
		artifacts, err = runner.RenderMindmap(ctx, g, opts)
	} else {
		sp := newSpinner(ctx, fmt.Sprintf("Rendering %s...", format))
		sp.Start()
		artifacts, err = runner.RenderMindmap(ctx, g, opts)
		if err != nil {
			sp.Fail("Rendering failed")
		}
		sp.Stop()
	}
	if err != nil {
		return err
	}
	data := artifacts[pipeline.ArtifactKey(pipeline.KindMindmap, format)]

	binary := format == pipeline.FormatPNG || format == pipeline.FormatPDF
	if output == "" && binary {
		output = pipeline.ArtifactKey(pipeline.KindMindmap, format)
	}
	if output == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Mind map complete")
	printFile(output)
	printStats(fmt.Sprintf("%d nodes", len(g.Nodes)), fmt.Sprintf("%d edges", len(g.Edges)))
	return nil
}
