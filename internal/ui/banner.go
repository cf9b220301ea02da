package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner is the ASCII art header printed before a dry-run summary
var Banner = []string{
	"       _                 _             ",
	"  __ _| |_ __ ___ _ __ | | __ _ _   _ ",
	" / _` | | '__/ _ \\ '_ \\| |/ _` | | | |",
	"| (_| | | | |  __/ |_) | | (_| | |_| |",
	" \\__, |_|_|  \\___| .__/|_|\\__,_|\\__, |",
	" |___/           |_|            |___/ ",
}

// RenderBanner returns the styled banner as a string
func RenderBanner(dryRun bool) string {
	bannerStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	var lines []string
	for _, line := range Banner {
		lines = append(lines, bannerStyle.Render(line))
	}

	if dryRun {
		lines = append(lines, "")
		warningStyle := lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)
		lines = append(lines, warningStyle.Render("⚠ DRY RUN MODE - nothing will be posted"))
	}

	return strings.Join(lines, "\n")
}
