package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The --verbose flag is wired by the caller so that it can
// adjust the log level before any command runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cortex turns marketing selections into a strategy plan",
		Long: `Cortex is a marketing-strategy planner. From a business objective, an
industry type, a lifecycle stage and an investment level it builds a radial
strategy mind map, a normalized paid-media channel allocation with budget,
and a text plan with a case study and recommendations.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)

	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "catalog TOML file (default: embedded catalog)")
	root.PersistentFlags().StringVar(&c.plansDir, "plans-dir", "", "directory for saved plans (default: ~/.config/cortex/plans)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.mindmapCommand())
	root.AddCommand(c.allocateCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
