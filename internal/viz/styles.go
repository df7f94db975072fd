package viz

import "github.com/charmbracelet/lipgloss"

var (
	region1Color = lipgloss.Color("#3b82f6")
	region2Color = lipgloss.Color("#22c55e")
	phaseColor   = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#666688")
)

var (
	// Panel with a rounded border
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(0, 1)

	// Panel holding keyboard focus in the viewer
	focusedPanelStyle = panelStyle.BorderForeground(lipgloss.Color("#00ccff"))

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff"))
	axisStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

func legend() string {
	r1 := lipgloss.NewStyle().Foreground(region1Color).Render("── Region 1")
	r2 := lipgloss.NewStyle().Foreground(region2Color).Render("── Region 2")
	return r1 + "   " + r2
}
