package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wahlandcase/glreplay/internal/models"
	"github.com/wahlandcase/glreplay/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ConfirmModel asks whether a push event should be posted
type ConfirmModel struct {
	event     *models.PushEvent
	selection int // 0=Yes, 1=No
	confirmed bool
	done      bool
}

// NewConfirmModel creates a prompt for event with "Yes" preselected
func NewConfirmModel(event *models.PushEvent) ConfirmModel {
	return ConfirmModel{event: event}
}

// Init implements tea.Model
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc", "n":
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	case "y":
		m.selection = 0
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.selection = 1 - m.selection
	case "enter":
		m.confirmed = m.selection == 0
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the summary and the buttons
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.RenderPushSummary(m.event))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Post %d commit(s) to the listener?\n\n", m.event.TotalCommitsCount))
	b.WriteString(ui.YesNoButtons(m.selection))
	b.WriteString("\n\n  ")
	b.WriteString(ui.KeyBinding("y/n", "answer", ui.ColorCyan))
	b.WriteString("  ")
	b.WriteString(ui.KeyBinding("←/→", "select", ui.ColorCyan))
	b.WriteString("  ")
	b.WriteString(ui.KeyBinding("enter", "confirm", ui.ColorCyan))
	b.WriteString("\n")
	return b.String()
}

// Confirmed reports whether the user chose to post
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// RunConfirm shows the prompt on out, reading keys from in. in must be a
// terminal; anything else fails instead of waiting for keys that never come.
func RunConfirm(event *models.PushEvent, in io.Reader, out io.Writer) (bool, error) {
	if !isTerminal(in) {
		return false, Errorf(ExitInvalidInput, "--confirm needs an interactive terminal")
	}

	p := tea.NewProgram(NewConfirmModel(event), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation prompt: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
