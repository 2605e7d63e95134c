package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillflow/pkg/workflow"
)

func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a project's nodes and connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(args[0])
			if err != nil {
				return err
			}
			fmt.Println(renderProject(p))
			return nil
		},
	}
}

// renderProject formats p as a header followed by node and connection tables.
func renderProject(p workflow.Project) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(p.Name))
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString(StyleDim.Render(p.Description))
		b.WriteString("\n")
	}

	resolved := p.ResolvedConnections()
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d nodes · %d connections", len(p.Nodes), len(p.Connections))))
	if dangling := len(p.Connections) - len(resolved); dangling > 0 {
		b.WriteString(StyleDim.Render(" · "))
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d dangling", dangling)))
	}
	b.WriteString("\n\n")

	if len(p.Nodes) == 0 {
		b.WriteString(StyleDim.Render("No nodes yet."))
		return b.String()
	}

	b.WriteString(nodeTable(p.Nodes).Render())
	if len(resolved) > 0 {
		b.WriteString("\n")
		b.WriteString(connectionTable(resolved).Render())
	}
	return b.String()
}

func nodeTable(nodes []workflow.Node) *table.Table {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			shortID(n.ID),
			n.Kind.Label(),
			n.Title,
			n.Description,
			fmt.Sprintf("%g,%g", n.Position.X, n.Position.Y),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "Title", "Description", "Pos").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0, 4:
				return base.Foreground(colorDim)
			case 1:
				return base.Bold(true).Foreground(lipgloss.Color(nodes[row].Kind.Color()))
			}
			return base
		})
}

func connectionTable(conns []workflow.ResolvedConnection) *table.Table {
	rows := make([][]string, 0, len(conns))
	for _, rc := range conns {
		rows = append(rows, []string{rc.From.Title, iconArrow, rc.To.Title})
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 1 {
				return StyleDim
			}
			return StyleValue
		})
}
