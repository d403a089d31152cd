package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/pipeline"
)

// packCommand creates the pack command for placing elements.
func (c *CLI) packCommand() *cobra.Command {
	var (
		output      string
		configPath  string
		elementsStr string
		noCache     bool
		setA, setB  string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Compute a layout and place every element inside its region",
		Long: `Compute a layout and place every element inside its region.

The pack command runs the full placement pipeline: tier selection, separation
solving, and hexagonal packing of elements into the lens and crescents. The
output is a diagram.json file containing the layout and one position per
element, ready for 'visualize' or 'inspect'.

Element labels are given with --elements in canonical order (A-exclusive
first, then shared, then B-exclusive), or derived from two set files
(--set-a, --set-b, one element per line). When omitted, placeholder labels
are generated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Elements = parseElements(elementsStr)
			if err := applySetFiles(&opts, setA, setB); err != nil {
				return err
			}
			return c.runPack(cmd.Context(), opts, configPath, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "diagram.json", "output file")
	cmd.Flags().StringVar(&configPath, "config", "", "tier configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Count flags
	cmd.Flags().IntVarP(&opts.AOnly, "a-only", "a", 0, "elements exclusive to set A")
	cmd.Flags().IntVarP(&opts.BOnly, "b-only", "b", 0, "elements exclusive to set B")
	cmd.Flags().IntVarP(&opts.Intersection, "intersection", "i", 0, "elements shared by both sets")
	cmd.Flags().StringVar(&elementsStr, "elements", "", "comma-separated element labels in canonical order")
	cmd.Flags().StringVar(&setA, "set-a", "", "file with set A elements, one per line (overrides count flags)")
	cmd.Flags().StringVar(&setB, "set-b", "", "file with set B elements, one per line (overrides count flags)")

	return cmd
}

// runPack runs the placement pipeline and writes the diagram.
func (c *CLI) runPack(ctx context.Context, opts pipeline.Options, configPath, output string, noCache bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts.Config = cfg
	opts.Logger = c.Logger
	opts.Formats = nil

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Packing elements...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Packing failed")
		return fmt.Errorf("pack: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := diagram.WriteFile(result.Diagram, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Packed %d elements", len(result.Diagram.Positions))
	printFile(output)
	for _, w := range result.Layout.Warnings {
		printWarning("%s", w)
	}
	printStats(string(result.Layout.Tier), len(result.Diagram.Elements), result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "vennkit visualize "+output)

	return nil
}
