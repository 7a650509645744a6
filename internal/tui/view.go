package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("57")).
			Foreground(lipgloss.Color("255"))

	tabStyle       = lipgloss.NewStyle().Padding(0, 1)
	activeTabStyle = tabStyle.Background(lipgloss.Color("205")).Foreground(lipgloss.Color("0"))

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#ff6b6b")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("241"))
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	width := max(m.width-4, 20)
	var sections []string
	sections = append(sections, titleStyle.Render("📖 GamesWiki"))

	toggle := "[ ] " + m.view.ToggleLabel
	if m.view.Enabled {
		toggle = "[x] " + m.view.ToggleLabel
	}
	sections = append(sections, sectionStyle.Width(width).Render(toggle))

	if !m.view.Enabled {
		sections = append(sections,
			dimStyle.Render(m.help.ShortHelpView(keys.disabledHelp())),
			m.viewStatus(),
		)
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections,
		sectionStyle.Width(width).Render(m.viewSettings()),
		sectionStyle.Width(width).Render(m.viewGames()),
		dimStyle.Render(m.help.View(keys)),
		m.viewStatus(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewSettings() string {
	var b strings.Builder
	b.WriteString("Settings\n")
	b.WriteString(dimStyle.Render(m.view.CurrentDefault) + "\n")

	tabs := make([]string, 0, len(m.view.Sites))
	for i, s := range m.view.Sites {
		style := tabStyle
		if s.Selected {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, s.Label)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	return b.String()
}

func (m Model) viewGames() string {
	var b strings.Builder
	b.WriteString("Your Installed Games\n")

	refresh := "(r) " + m.view.RefreshLabel
	if m.view.RefreshDisabled {
		refresh = m.spinner.View() + " " + m.view.RefreshLabel
	}
	b.WriteString(dimStyle.Render(refresh) + "\n\n")

	if m.view.Error != "" {
		b.WriteString(errorStyle.Render(m.view.Error) + "\n")
	}
	if m.view.Placeholder != "" {
		b.WriteString(dimStyle.Render(m.view.Placeholder) + "\n")
		return b.String()
	}

	for i, row := range m.view.Rows {
		line := fmt.Sprintf("%-40s %s", truncate(row.Name, 40), dimStyle.Render(row.Button))
		if i == m.cursor {
			line = selectedStyle.Render(fmt.Sprintf("%-40s %s", truncate(row.Name, 40), row.Button))
		}
		b.WriteString(line + "\n")
	}
	if m.view.Overflow != "" {
		b.WriteString(dimStyle.Italic(true).Render(m.view.Overflow) + "\n")
	}
	b.WriteString(dimStyle.Render(m.view.Total))
	return b.String()
}

func (m Model) viewStatus() string {
	status := " " + m.footer
	if m.statusMsg != "" {
		status = " " + m.statusMsg
	}
	return statusStyle.Width(m.width).Render(status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
