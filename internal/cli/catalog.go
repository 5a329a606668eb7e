package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/report"
)

// catalogCommand creates the catalog command for inspecting the active
// planning catalog.
func (c *CLI) catalogCommand() *cobra.Command {
	var validate, dump, asJSON bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List or validate the planning catalog",
		Long: `List the objectives, industry types, lifecycle stages, investment tiers and
marketing priorities of the active catalog.

The embedded catalog is used unless --catalog points at a TOML file. Use
--dump to print the embedded catalog as a starting point for your own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dump {
				_, err := c.Out.Write(catalog.DefaultTOML())
				return err
			}
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}
			switch {
			case validate:
				return c.runCatalogValidate(cat)
			case asJSON:
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(cat)
			}
			c.printCatalog(cat)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "validate the catalog and report defects")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the embedded catalog TOML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	return cmd
}

func (c *CLI) runCatalogValidate(cat *catalog.Catalog) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	source := "embedded"
	if c.catalogPath != "" {
		source = c.catalogPath
	}
	printSuccess("Catalog %s is valid", StyleHighlight.Render(cat.Version))
	printDetail("Source: %s", source)
	printStats(
		fmt.Sprintf("%d objectives", len(cat.Categories)),
		fmt.Sprintf("%d verticals", len(cat.Verticals)),
		fmt.Sprintf("%d tiers", len(cat.Investments)),
		fmt.Sprintf("%d priorities", len(cat.Priorities)),
		fmt.Sprintf("%d case studies", len(cat.CaseStudies)),
	)
	return nil
}

func (c *CLI) printCatalog(cat *catalog.Catalog) {
	printKeyValue(c.Out, "Version", cat.Version)
	fmt.Fprintln(c.Out)

	printList(c.Out, "Business Objectives", cat.CategoryNames())
	printList(c.Out, "Industry Types", cat.VerticalNames())
	printList(c.Out, "Lifecycle Stages", cat.Stages)

	tiers := make([]string, len(cat.Investments))
	for i, r := range cat.Investments {
		tiers[i] = fmt.Sprintf("%-14s %s – %s", r.Name, report.Money(r.Low), report.Money(r.High))
	}
	printList(c.Out, "Investment Levels", tiers)
	printList(c.Out, "Marketing Priorities", cat.PriorityNames())
}
