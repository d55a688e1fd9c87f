package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomh/stocklens/internal/table"
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	streamBadgeStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Background(colorSurface0)
)

func tableStyles() table.Styles {
	return table.Styles{
		Header:   lipgloss.NewStyle().Foreground(colorSubtext0).Bold(true),
		Cursor:   lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		Footer:   lipgloss.NewStyle().Foreground(colorPeach),
		Muted:    lipgloss.NewStyle().Foreground(colorOverlay1),
	}
}

// ---------------------------------------------------------------------------
// Chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName string, names []string, active, width int) string {
	name := headerAppStyle.Render(appName)

	var tabs []string
	for i, tab := range names {
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(tab))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	content := name + "  " + tabBar
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func renderStatus(text string, streaming bool, width int) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if streaming {
		flat = streamBadgeStyle.Render("~sync") + " " + flat
	}
	if width <= 0 {
		return statusBarStyle.Render(flat)
	}
	return statusBarStyle.Width(width).Render(flat)
}

func renderFooter(bindings []key.Binding, width int) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if width <= 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(width).Render(content)
}
