package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/report"
)

// planOpts holds the plan command's output flags; selections go straight
// into pipeline.Options.
type planOpts struct {
	interactive bool
	dir         string // output directory
	prefix      string // file name prefix
	report      string // comma-separated report formats
	mindmap     string // comma-separated mind map formats
	charts      string // comma-separated chart kinds
	noSave      bool
	quiet       bool // do not print the report to stdout
}

// planCommand creates the plan command, which builds a complete plan, saves
// its state and writes the requested artifacts.
func (c *CLI) planCommand() *cobra.Command {
	var po planOpts
	opts := pipeline.Options{Tooltips: true}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build, save and export a complete marketing plan",
		Long: `Build a complete marketing plan from the selections: the objective's
strategy profile, the normalized channel allocation and budget, a matching
case study and the recommendations for the chosen priorities.

The plan text is printed and the plan state is saved so that 'cortex plan
show' can print it again. Pass --id to regenerate a saved plan in place.
Use --interactive to pick the selections in a terminal menu.

Artifacts are written to --dir as <prefix><kind>.<format>, for example
cortex-report.txt, cortex-mindmap.svg or cortex-pie.svg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Report = parseFormats(po.report)
			opts.Mindmap = parseFormats(po.mindmap)
			opts.Charts = parseFormats(po.charts)
			return c.runPlan(cmd.Context(), opts, po)
		},
	}

	// Selections
	cmd.Flags().StringVarP(&opts.Objective, "objective", "o", "", "business objective")
	cmd.Flags().StringVarP(&opts.Vertical, "vertical", "V", "", "industry type")
	cmd.Flags().StringVarP(&opts.Stage, "stage", "s", pipeline.DefaultStage, "brand lifecycle stage")
	cmd.Flags().StringVarP(&opts.Budget, "budget", "b", "", "investment level, e.g. \"$100K-$250K\"")
	cmd.Flags().StringSliceVarP(&opts.Priorities, "priority", "p", nil, "marketing priority (repeatable)")
	cmd.Flags().StringVar(&opts.PlanID, "id", "", "regenerate the saved plan with this id")
	cmd.Flags().BoolVarP(&po.interactive, "interactive", "i", false, "pick selections in a terminal menu")

	// Output
	cmd.Flags().StringVarP(&po.dir, "dir", "d", ".", "output directory for artifacts")
	cmd.Flags().StringVar(&po.prefix, "prefix", defaultArtifactPrefix, "artifact file name prefix")
	cmd.Flags().StringVarP(&po.report, "format", "f", string(report.FormatText), "report format(s): txt, json, yaml, svg, pdf (comma-separated, empty for none)")
	cmd.Flags().StringVar(&po.mindmap, "mindmap", "", "mind map format(s): dot, svg, png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&po.charts, "charts", "", "allocation chart(s): pie, radar (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&po.noSave, "no-save", false, "do not save the plan state")
	cmd.Flags().BoolVarP(&po.quiet, "quiet", "q", false, "do not print the plan text")

	c.registerSelectionCompletions(cmd)

	cmd.AddCommand(c.planShowCommand())
	cmd.AddCommand(c.planRemoveCommand())

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, opts pipeline.Options, po planOpts) error {
	runner, err := c.newRunner(!po.noSave)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if po.interactive {
		sel, err := runPicker(ctx, runner.Catalog, opts.Selections())
		if err != nil {
			return err
		}
		opts.Objective, opts.Vertical, opts.Stage, opts.Budget = sel.Objective, sel.Vertical, sel.Stage, sel.Budget
		opts.Priorities = sel.Priorities
	}
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	sp := newSpinner(ctx, "Building plan...")
	sp.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		if sp.Cancelled() {
			sp.Stop()
			printWarning("Plan cancelled")
			return ctx.Err()
		}
		sp.Fail("Plan failed")
		return err
	}
	sp.Stop()
	prog.done("built plan", "id", res.State.ID)

	if !po.quiet {
		fmt.Fprint(c.Out, res.State.FinalPlan)
	}

	paths, err := writeArtifacts(po.dir, po.prefix, res.Artifacts)
	if err != nil {
		return err
	}

	printNewline()
	printSuccess("Plan %s", StyleHighlight.Render(res.State.ID))
	for _, p := range paths {
		printFile(p)
	}
	printStats(
		fmt.Sprintf("%d channels", res.Stats.ChannelCount),
		fmt.Sprintf("%d nodes", res.Stats.NodeCount),
		fmt.Sprintf("%d artifacts", len(res.Artifacts)),
	)
	if !po.noSave {
		printNewline()
		printNextStep("Show again", appName+" plan show "+res.State.ID)
	}
	return nil
}

// writeArtifacts writes each artifact to dir as prefix+key and returns the
// paths in key order.
func writeArtifacts(dir, prefix string, artifacts map[string][]byte) ([]string, error) {
	if len(artifacts) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	keys := make([]string, 0, len(artifacts))
	for k := range artifacts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		path := filepath.Join(dir, prefix+k)
		if err := os.WriteFile(path, artifacts[k], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// planShowCommand creates the "plan show" subcommand.
func (c *CLI) planShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved plan (the latest if no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
				if err := errors.ValidatePlanID(id); err != nil {
					return err
				}
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := runner.LoadState(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			fmt.Fprint(c.Out, st.FinalPlan)
			if st.CatalogVersion != "" && st.CatalogVersion != runner.Catalog.Version {
				printWarning("plan was built with catalog %s, active catalog is %s", st.CatalogVersion, runner.Catalog.Version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full plan state as JSON")
	return cmd
}

// planRemoveCommand creates the "plan rm" subcommand.
func (c *CLI) planRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidatePlanID(args[0]); err != nil {
				return err
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if err := runner.Store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted plan %s", args[0])
			return nil
		},
	}
}
