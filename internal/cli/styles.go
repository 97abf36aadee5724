package cli

import "github.com/charmbracelet/lipgloss"

// Adaptive colors that work on light and dark terminals.
var (
	colorGreen = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	colorRed   = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#FF4672"}
	colorDimFg = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
)

var (
	fastestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	unreachableStyle = lipgloss.NewStyle().
				Foreground(colorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDimFg)
)
