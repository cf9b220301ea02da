package ui

import (
	"fmt"
	"strings"

	"github.com/wahlandcase/glreplay/internal/models"

	"github.com/charmbracelet/lipgloss"
)

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func SectionHeader(title string, color lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := lipgloss.NewStyle().Foreground(color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("  ─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// YesNoButtons creates Yes/No buttons
// selection: 0 for Yes, 1 for No
func YesNoButtons(selection int) string {
	yesColor, noColor := ColorDarkGray, ColorDarkGray
	yesIcon, noIcon := " ", " "
	if selection == 0 {
		yesColor, yesIcon = ColorGreen, ">"
	} else {
		noColor, noIcon = ColorRed, ">"
	}

	yesStyle := lipgloss.NewStyle().Foreground(yesColor)
	noStyle := lipgloss.NewStyle().Foreground(noColor)
	yesText := lipgloss.NewStyle().Foreground(yesColor).Bold(true)
	noText := lipgloss.NewStyle().Foreground(noColor).Bold(true)

	line1 := yesStyle.Render("  ┌────────┐") + " " + noStyle.Render("┌───────┐")
	line2 := yesStyle.Render("  │") + yesText.Render(fmt.Sprintf(" %s  YES ", yesIcon)) + yesStyle.Render("│") +
		" " + noStyle.Render("│") + noText.Render(fmt.Sprintf(" %s  NO ", noIcon)) + noStyle.Render("│")
	line3 := yesStyle.Render("  └────────┘") + " " + noStyle.Render("└───────┘")

	return line1 + "\n" + line2 + "\n" + line3
}

// KeyBinding renders a key binding hint
func KeyBinding(key, description string, color lipgloss.Color) string {
	keyStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	return fmt.Sprintf("%s %s",
		keyStyle.Render(key),
		descStyle.Render(description),
	)
}

// CommitLine renders one push event commit as "sha  timestamp  author  summary"
func CommitLine(c models.PushCommit) string {
	hashStyle := lipgloss.NewStyle().Foreground(ColorYellow)
	dimStyle := lipgloss.NewStyle().Foreground(ColorDarkGray)
	authorStyle := lipgloss.NewStyle().Foreground(ColorCyan)

	return fmt.Sprintf("  %s  %s  %s  %s",
		hashStyle.Render(shortID(c.ID)),
		dimStyle.Render(c.Timestamp),
		authorStyle.Render(c.Author.Name),
		models.Summary(c.Message),
	)
}

// ChangeCounts renders "+added ~modified -removed" for a commit
func ChangeCounts(c models.PushCommit) string {
	return fmt.Sprintf("%s %s %s",
		lipgloss.NewStyle().Foreground(ChangeColor("added")).Render(fmt.Sprintf("+%d", len(c.Added))),
		lipgloss.NewStyle().Foreground(ChangeColor("modified")).Render(fmt.Sprintf("~%d", len(c.Modified))),
		lipgloss.NewStyle().Foreground(ChangeColor("removed")).Render(fmt.Sprintf("-%d", len(c.Removed))),
	)
}

// RenderPushSummary renders a push event for the terminal
func RenderPushSummary(event *models.PushEvent) string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorDarkGray)
	valueStyle := lipgloss.NewStyle().Foreground(ColorWhite).Bold(true)

	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s", labelStyle.Render(fmt.Sprintf("%-9s", label)), valueStyle.Render(value))
	}

	lines := []string{
		SectionHeader("PUSH EVENT", ColorCyan),
		field("repo", event.Repository.Homepage),
		field("project", fmt.Sprintf("%d", event.ProjectID)),
		field("ref", event.Ref),
		field("range", fmt.Sprintf("%s..%s", shortID(event.Before), shortID(event.After))),
		"",
		SectionHeader(fmt.Sprintf("COMMITS (%d)", event.TotalCommitsCount), ColorMagenta),
	}
	for _, c := range event.Commits {
		lines = append(lines, CommitLine(c)+"  "+ChangeCounts(c))
	}

	return strings.Join(lines, "\n")
}

// RenderHistory renders replay history entries, newest last
func RenderHistory(records []models.ReplayRecord) string {
	if len(records) == 0 {
		return lipgloss.NewStyle().Foreground(ColorDarkGray).Render("  No replays recorded")
	}

	dimStyle := lipgloss.NewStyle().Foreground(ColorDarkGray)
	repoStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	icon := lipgloss.NewStyle().Foreground(ColorGreen).Render("✓")

	lines := []string{SectionHeader("REPLAY HISTORY", ColorBlue)}
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("  %s %s  %s  %s..%s  %d commits",
			icon,
			dimStyle.Render(r.PostedAt.Local().Format("2006-01-02 15:04")),
			repoStyle.Render(r.RepoPath),
			shortID(r.Before),
			shortID(r.After),
			r.Commits,
		))
	}
	return strings.Join(lines, "\n")
}

func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
