package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vennkit/vennkit/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
		setA, setB string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute circle geometry and region sizing from counts",
		Long: `Compute circle geometry and region sizing from counts.

The layout command takes the three region counts (A-exclusive, B-exclusive,
and intersection) and solves the circle radius, separation, and per-region
element sizing. The output is a layout.json file that can be fed to 'pack'.

Instead of counts, two set files (--set-a, --set-b, one element per line)
may be given; the counts are derived from their overlap.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applySetFiles(&opts, setA, setB); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), opts, configPath, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&configPath, "config", "", "tier configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Count flags
	cmd.Flags().IntVarP(&opts.AOnly, "a-only", "a", 0, "elements exclusive to set A")
	cmd.Flags().IntVarP(&opts.BOnly, "b-only", "b", 0, "elements exclusive to set B")
	cmd.Flags().IntVarP(&opts.Intersection, "intersection", "i", 0, "elements shared by both sets")
	cmd.Flags().StringVar(&setA, "set-a", "", "file with set A elements, one per line (overrides count flags)")
	cmd.Flags().StringVar(&setB, "set-b", "", "file with set B elements, one per line (overrides count flags)")

	return cmd
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, configPath, output string, noCache bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts.Config = cfg
	opts.Logger = c.Logger
	opts.SkipPack = true

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.ComputeLayout(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	for _, w := range layout.Warnings {
		printWarning("%s", w)
	}
	printStats(string(layout.Tier), opts.AOnly+opts.BOnly+opts.Intersection, cacheHit)
	printNewline()
	printNextStep("Pack", fmt.Sprintf("vennkit pack -a %d -b %d -i %d", opts.AOnly, opts.BOnly, opts.Intersection))

	return nil
}
