package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ConfigureTerminal picks the lipgloss color profile for w. Warp is forced to
// a dumb TERM to avoid its startup query delay, and output that is not a
// terminal gets no colors so piped dumps stay clean.
func ConfigureTerminal(w io.Writer) {
	if os.Getenv("TERM_PROGRAM") == "WarpTerminal" {
		os.Setenv("TERM", "dumb")
		os.Setenv("COLORTERM", "truecolor")
	}

	output := termenv.NewOutput(w)
	lipgloss.SetColorProfile(output.EnvColorProfile())
}
