package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// command is one palette entry. run executes against the app shell.
type command struct {
	id    string
	label string
	run   func(a *App) tea.Cmd
}

type commandMatch struct {
	command command
	score   int
}

func appCommands() []command {
	cmds := []command{
		{id: "view:refresh", label: "Refresh current view", run: func(a *App) tea.Cmd {
			return a.forwardKey("r")
		}},
		{id: "selection:clear", label: "Clear selection", run: func(a *App) tea.Cmd {
			return a.forwardKey("u")
		}},
		{id: "selection:run-action", label: "Run bulk action", run: func(a *App) tea.Cmd {
			return a.forwardKey("x")
		}},
		{id: "sort:cycle", label: "Cycle sort column", run: func(a *App) tea.Cmd {
			return a.forwardKey("s")
		}},
		{id: "filter:cycle", label: "Cycle first filter", run: func(a *App) tea.Cmd {
			return a.forwardKey("f")
		}},
		{id: "columns:toggle", label: "Toggle columns", run: func(a *App) tea.Cmd {
			return a.forwardKey("v")
		}},
		{id: "app:quit", label: "Quit", run: func(a *App) tea.Cmd { return tea.Quit }},
	}
	return cmds
}

// rankCommands orders commands by match quality for the query: substring hits
// beat fuzzy ones, and fuzzy candidates rank by edit distance. An empty query
// returns everything in declared order.
func rankCommands(query string, cmds []command) []commandMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]commandMatch, 0, len(cmds))
	for _, c := range cmds {
		label := strings.ToLower(c.label)
		switch {
		case q == "":
			matches = append(matches, commandMatch{command: c, score: 0})
		case strings.HasPrefix(label, q):
			matches = append(matches, commandMatch{command: c, score: 0})
		case strings.Contains(label, q):
			matches = append(matches, commandMatch{command: c, score: 1})
		default:
			dist := levenshtein.ComputeDistance(q, label)
			if dist <= len(label)-len(q)+2 {
				matches = append(matches, commandMatch{command: c, score: 2 + dist})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score < matches[j].score })
	return matches
}

func (a *App) paletteView() string {
	title := lipgloss.NewStyle().Foreground(colorBrand).Bold(true).Render("Commands")
	lines := []string{title, a.paletteInput.View(), ""}
	for i, m := range a.paletteMatches {
		prefix := "  "
		if i == a.paletteCursor {
			prefix = lipgloss.NewStyle().Foreground(colorAccent).Render("> ")
		}
		lines = append(lines, prefix+m.command.label)
	}
	if len(a.paletteMatches) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorOverlay1).Render("  no matching commands"))
	}
	return strings.Join(lines, "\n")
}

func (a *App) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+p":
		a.paletteOpen = false
		return a, nil
	case "up", "ctrl+k":
		if a.paletteCursor > 0 {
			a.paletteCursor--
		}
		return a, nil
	case "down", "ctrl+j":
		if a.paletteCursor < len(a.paletteMatches)-1 {
			a.paletteCursor++
		}
		return a, nil
	case "enter":
		a.paletteOpen = false
		if a.paletteCursor < len(a.paletteMatches) {
			return a, a.paletteMatches[a.paletteCursor].command.run(a)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.paletteInput, cmd = a.paletteInput.Update(msg)
	a.paletteMatches = rankCommands(a.paletteInput.Value(), a.commands)
	if a.paletteCursor >= len(a.paletteMatches) {
		a.paletteCursor = 0
	}
	return a, cmd
}
