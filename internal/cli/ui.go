package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

var levelStyles = map[string]lipgloss.Style{
	"Critical": lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	"High":     lipgloss.NewStyle().Foreground(colorYellow),
	"Medium":   lipgloss.NewStyle().Foreground(colorCyan),
	"Low":      lipgloss.NewStyle().Foreground(colorGray),
}

const iconWarning = "!"
