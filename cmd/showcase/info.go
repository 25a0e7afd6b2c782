package main

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/taigrr/showcase/internal/logger"
	"github.com/taigrr/showcase/pkg/loader"
	"github.com/taigrr/showcase/pkg/scene"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = cellStyle.Foreground(lipgloss.Color("#ff5f5f"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd75f"))
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Load the model and describe its parts",
		Long:  "Load every configured part, assemble the model and print part sizes, triangle counts and materials.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := flags.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			if err := initConsoleLogging(cfg); err != nil {
				return err
			}
			defer logger.Sync()

			g, results, err := loadModel(cmd.Context(), cfg, logger.Named("loader"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderInfo(g, results))
			return nil
		},
	}
}

// renderInfo formats the loaded parts and the assembled group.
func renderInfo(g *scene.Group, results []loader.Result) string {
	failed := make(map[int]bool)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Part", "Role", "Source", "Triangles", "Size", "Color", "Opacity")

	for i, r := range results {
		row := []string{r.Request.Name, r.Request.Role.String(), r.Request.Source}
		if !r.OK() {
			failed[i] = true
			row = append(row, "-", "failed: "+r.Err.Error(), "-", "-")
		} else {
			size := r.Part.Mesh.Size()
			row = append(row,
				strconv.Itoa(r.Part.Mesh.TriangleCount()),
				fmt.Sprintf("%.2f × %.2f × %.2f", size.X, size.Y, size.Z),
				r.Request.Material.Hex(),
				strconv.FormatFloat(r.Request.Material.Opacity, 'f', 2, 64),
			)
		}
		t.Row(row...)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case failed[row]:
			return errorStyle
		default:
			return cellStyle
		}
	})

	summary := fmt.Sprintf("%d parts, %d triangles, scale %.4f", len(g.Parts), g.TriangleCount(), g.Scale)
	out := titleStyle.Render(g.Name) + "  " + summary + "\n" + t.String()
	if g.Fallback {
		out += "\n" + warnStyle.Render("primary part unavailable: showing the built-in fallback model")
	}
	return out
}
