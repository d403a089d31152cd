package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vennkit/vennkit/pkg/diagram"
)

// inspectCommand creates the inspect command for browsing a packed diagram.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [diagram.json]",
		Short: "Browse a packed diagram interactively",
		Long: `Browse a packed diagram interactively.

The inspect command opens a terminal browser over the elements of a packed
diagram: each row shows the element label, its region, and its position.
The header summarizes the chosen tier and circle geometry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load diagram %s: %w", args[0], err)
			}

			model := NewDiagramModel(d)
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			return nil
		},
	}
}
