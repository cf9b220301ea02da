package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorCyan     = lipgloss.Color("#00FFFF")
	ColorGreen    = lipgloss.Color("#00FF00")
	ColorYellow   = lipgloss.Color("#FFFF00")
	ColorRed      = lipgloss.Color("#FF0000")
	ColorMagenta  = lipgloss.Color("#FF00FF")
	ColorBlue     = lipgloss.Color("#5555FF")
	ColorWhite    = lipgloss.Color("#FFFFFF")
	ColorDarkGray = lipgloss.Color("8") // ANSI 8
)

// ChangeColor returns the color used for a file change kind
func ChangeColor(kind string) lipgloss.Color {
	switch kind {
	case "added":
		return ColorGreen
	case "modified":
		return ColorYellow
	case "removed":
		return ColorRed
	default:
		return ColorWhite
	}
}
