package xorqr

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	darkStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#000000"))
	lightStyle = lipgloss.NewStyle().Background(lipgloss.Color("#ffffff"))
)

// Render draws a matrix two characters per cell so it looks square. With
// styled set, cells are colored blocks; otherwise dark cells are "██".
func Render(matrix [][]bool, styled bool) string {
	var sb strings.Builder
	for _, row := range matrix {
		for _, dark := range row {
			switch {
			case styled && dark:
				sb.WriteString(darkStyle.Render("  "))
			case styled:
				sb.WriteString(lightStyle.Render("  "))
			case dark:
				sb.WriteString("██")
			default:
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// IsTerminal reports whether f is attached to a terminal, in which case
// styled rendering is worth it.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
