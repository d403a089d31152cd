package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a diagram.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		scale      float64
		noLabels   bool
		fillAlpha  float64
	)

	cmd := &cobra.Command{
		Use:   "visualize [diagram.json]",
		Short: "Render a packed diagram to SVG, PNG, or JSON",
		Long: `Render a packed diagram to SVG, PNG, or JSON.

The visualize command takes a diagram.json file (produced by 'pack') and
renders it. The diagram contains all positioning information, so this step
is purely about rendering.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats:    parseFormats(formatsStr),
				Scale:      scale,
				HideLabels: noLabels,
				FillAlpha:  fillAlpha,
			}
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "pixels per layout unit")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "omit element labels")
	cmd.Flags().Float64Var(&fillAlpha, "fill-alpha", pipeline.DefaultFillAlpha, "circle fill opacity")

	return cmd
}

// runVisualize loads the diagram and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	d, err := diagram.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	opts.AOnly = d.Counts.AOnly
	opts.BOnly = d.Counts.BOnly
	opts.Intersection = d.Counts.Intersection
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering diagram...")
	spinner.Start()

	artifacts, cacheHit, err := runner.Render(ctx, opts, d)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d format(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(string(d.Layout.Tier), len(d.Elements), cacheHit)

	return nil
}

// writeArtifacts writes one file per format and returns the output paths.
// With a single format, output names the file directly; with multiple
// formats, output (or the input basename) is used as the base path and the
// format is appended as the extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
