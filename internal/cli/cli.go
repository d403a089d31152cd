// Package cli implements the vennkit command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vennkit/vennkit/pkg/buildinfo"
	"github.com/vennkit/vennkit/pkg/cache"
	"github.com/vennkit/vennkit/pkg/config"
	"github.com/vennkit/vennkit/pkg/pipeline"
	"github.com/vennkit/vennkit/pkg/render"
	"github.com/vennkit/vennkit/pkg/venn"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "vennkit"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "vennkit",
		Short:        "Vennkit lays out two-set Venn diagrams",
		Long:         `Vennkit computes spatial layouts for two-set Venn diagrams: circle sizing and separation, density tiers, and collision-free element placement inside the lens and crescents.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/vennkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadConfig reads tier configuration from path, or returns defaults when
// path is empty.
func loadConfig(path string) (venn.Config, error) {
	return config.Load(path)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}

// readSetFile reads a set file: one element per line, surrounding whitespace
// trimmed, blank lines skipped.
func readSetFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read set file %s: %w", path, err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, nil
}

// applySetFiles derives counts and the canonical element order from two set
// files. Both paths must be given together; when present they take precedence
// over the count flags.
func applySetFiles(opts *pipeline.Options, setA, setB string) error {
	if setA == "" && setB == "" {
		return nil
	}
	if setA == "" || setB == "" {
		return fmt.Errorf("--set-a and --set-b must be given together")
	}

	a, err := readSetFile(setA)
	if err != nil {
		return err
	}
	b, err := readSetFile(setB)
	if err != nil {
		return err
	}

	elements, counts := venn.PartitionSlices(a, b)
	opts.AOnly = counts.AOnly
	opts.BOnly = counts.BOnly
	opts.Intersection = counts.Intersection
	opts.Elements = elements
	return nil
}

// parseElements parses a comma-separated element list. Whitespace around
// each element is trimmed; empty entries are dropped.
func parseElements(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
