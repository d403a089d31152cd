package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vennkit/vennkit/pkg/diagram"
	"github.com/vennkit/vennkit/pkg/venn/pack"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DiagramModel - Interactive element browser
// =============================================================================

// DiagramModel is the bubbletea model for browsing a packed diagram.
type DiagramModel struct {
	Diagram diagram.Diagram
	Cursor  int
	Height  int
	Offset  int
}

// NewDiagramModel creates a browser over the diagram's elements in canonical
// packing order.
func NewDiagramModel(d diagram.Diagram) DiagramModel {
	return DiagramModel{
		Diagram: d,
		Height:  15,
	}
}

func (m DiagramModel) Init() tea.Cmd {
	return nil
}

func (m DiagramModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Diagram.Elements)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 9
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DiagramModel) View() string {
	var b strings.Builder

	d := m.Diagram
	b.WriteString(StyleTitle.Render("Diagram " + shortID(d.ID)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf(
		"%s tier · radius %.2f · separation %.2f · %d elements",
		d.Layout.Tier, d.Layout.CircleRadius, d.Layout.CircleSeparation, len(d.Elements))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(d.Elements) {
		end = len(d.Elements)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		id := d.Elements[i]
		pos := d.Positions[id]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			id,
			regionLabel(pos.Region),
			fmt.Sprintf("%+.3f", pos.X),
			fmt.Sprintf("%+.3f", pos.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Element", "Region", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(d.Elements))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// regionLabel maps internal region names to display labels.
func regionLabel(r pack.Region) string {
	switch r {
	case pack.RegionLens:
		return "lens"
	case pack.RegionACrescent:
		return "A only"
	case pack.RegionBCrescent:
		return "B only"
	default:
		return string(r)
	}
}

// shortID truncates a UUID for display.
func shortID(id string) string {
	if id == "" {
		return "(unsaved)"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
