package cmd

import (
	"fmt"
	"strings"

	"github.com/inovacc/git-pr-mcp/internal/tools"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools and their parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), renderTools(tools.Definitions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func renderTools(defs []tools.Definition) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d tools", len(defs))))
	b.WriteString("\n\n")

	for _, def := range defs {
		b.WriteString(nameStyle.Render(def.Name))

		if def.ReadOnly {
			b.WriteString(" " + badgeStyle.Render("[read-only]"))
		}

		b.WriteString("\n")
		b.WriteString("  " + firstLine(def.Description) + "\n")

		for _, p := range def.Params {
			line := fmt.Sprintf("    %s (%s)", p.Name, p.Type)

			switch {
			case p.Required:
				line += " required"
			case p.Default != nil:
				line += fmt.Sprintf(" default %v", p.Default)
			}

			b.WriteString(line + "\n")
			b.WriteString("      " + mutedStyle.Render(p.Description) + "\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
