package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	OK = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ff88"))

	Warn = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ff4444"))

	BarHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	BarMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	BarLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Row is one label/value line of a panel.
type Row struct {
	Label string
	Value string
}

// RenderPanel renders a titled panel with labels padded to a common width.
func RenderPanel(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, Title.Render(title), "")
	for _, r := range rows {
		label := r.Label + strings.Repeat(" ", width-len(r.Label))
		lines = append(lines, Label.Render(label)+"  "+Value.Render(r.Value))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// ShareBar renders fraction (0..1) of width as a filled bar.
func ShareBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if fraction > 0.5 {
		return BarHigh.Render(bar)
	} else if fraction > 0.2 {
		return BarMid.Render(bar)
	}
	return BarLow.Render(bar)
}
