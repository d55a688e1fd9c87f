// Package tui is the application shell: tab chrome around the list screens,
// a status bar fed by each screen's binding, and the command palette. All
// data flow happens inside the screens; the shell only routes keys and
// binding wakeups.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomh/stocklens/internal/config"
	"github.com/tomh/stocklens/internal/replica"
	"github.com/tomh/stocklens/internal/selection"
	"github.com/tomh/stocklens/internal/writeapi"
)

const appName = "Stocklens"

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// screenEventMsg wakes the shell when a screen's binding changed state.
type screenEventMsg struct {
	idx int
}

type statusMsg struct {
	text string
}

// ---------------------------------------------------------------------------
// App model
// ---------------------------------------------------------------------------

// App is the root Bubble Tea model.
type App struct {
	cfg     config.Config
	store   *replica.Store
	reg     *selection.Registry
	keys    keyMap
	screens []Screen
	active  int

	width  int
	height int
	status string

	paletteOpen    bool
	paletteInput   textinput.Model
	paletteCursor  int
	paletteMatches []commandMatch
	commands       []command
}

// New wires the screens over one store, write client and selection registry.
func New(cfg config.Config, store *replica.Store, client writeapi.Client, reg *selection.Registry) *App {
	input := textinput.New()
	input.Placeholder = "command"
	input.Prompt = "> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent)

	return &App{
		cfg:   cfg,
		store: store,
		reg:   reg,
		keys:  newKeyMap(),
		screens: []Screen{
			newProductsScreen(store, client, reg),
			newOrdersScreen(store, client, reg),
			newCustomersScreen(store, client, reg),
			newReportsScreen(),
		},
		paletteInput: input,
		commands:     appCommands(),
	}
}

func (a *App) Init() tea.Cmd {
	a.screens[a.active].Mount()
	a.status = "Ready. tab switches screens, ctrl+p opens commands."
	return a.waitScreen(a.active)
}

// waitScreen blocks on the screen's binding events until the binding closes.
func (a *App) waitScreen(idx int) tea.Cmd {
	screen := a.screens[idx]
	events, done := screen.Events(), screen.Done()
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-events:
			return screenEventMsg{idx: idx}
		case <-done:
			return nil
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, s := range a.screens {
			s.SetSize(a.contentWidth(), a.contentHeight())
		}
		return a, nil
	case screenEventMsg:
		if msg.idx != a.active {
			return a, nil // stale wakeup from an unmounted screen
		}
		a.screens[msg.idx].Sync()
		return a, a.waitScreen(msg.idx)
	case statusMsg:
		if msg.text != "" {
			a.status = msg.text
		}
		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.paletteOpen {
		return a.updatePalette(msg)
	}

	screen := a.screens[a.active]
	if screen.InputActive() {
		cmd, _ := screen.HandleKey(msg)
		return a, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+p", ":":
		a.paletteOpen = true
		a.paletteInput.SetValue("")
		a.paletteInput.Focus()
		a.paletteCursor = 0
		a.paletteMatches = rankCommands("", a.commands)
		return a, textinput.Blink
	case "tab":
		return a, a.switchTab((a.active + 1) % len(a.screens))
	case "shift+tab":
		return a, a.switchTab((a.active - 1 + len(a.screens)) % len(a.screens))
	}

	if cmd, handled := screen.HandleKey(msg); handled {
		return a, cmd
	}

	if msg.String() == "q" {
		return a, tea.Quit
	}
	return a, nil
}

// switchTab unmounts the old screen and mounts the new one. Unmount closes
// the old binding and clears its bulk action; Mount claims the registry, so
// selections never leak across screens.
func (a *App) switchTab(next int) tea.Cmd {
	if next == a.active {
		return nil
	}
	a.screens[a.active].Unmount()
	a.active = next
	screen := a.screens[next]
	screen.Mount()
	screen.SetSize(a.contentWidth(), a.contentHeight())
	screen.Sync()
	return a.waitScreen(next)
}

func (a *App) forwardKey(s string) tea.Cmd {
	cmd, _ := a.screens[a.active].HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return cmd
}

func (a *App) contentWidth() int {
	if a.width == 0 {
		return 80
	}
	return a.width - 4
}

func (a *App) contentHeight() int {
	if a.height == 0 {
		return 24
	}
	h := a.height - 5 // header, gap, status, footer
	if h < 6 {
		h = 6
	}
	return h
}

func (a *App) View() string {
	screen := a.screens[a.active]

	names := make([]string, len(a.screens))
	for i, s := range a.screens {
		names[i] = s.Name()
	}
	header := renderHeader(appName, names, a.active, a.width)

	var body string
	if a.paletteOpen {
		body = a.paletteView()
	} else {
		body = screen.View()
	}

	statusText := screen.StatusLine()
	if statusText == "" {
		statusText = a.status
	}
	streaming := false
	if ls, ok := screen.(interface{ Streaming() bool }); ok {
		streaming = ls.Streaming()
	}
	statusLine := renderStatus(statusText, streaming, a.width)
	footer := renderFooter(a.keys.ShortHelp(), a.width)

	main := header + "\n\n" + lipgloss.NewStyle().PaddingLeft(2).Render(body)
	if a.height == 0 {
		return main + "\n\n" + statusLine + "\n" + footer
	}

	contentHeight := a.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(main) < contentHeight {
		main = lipgloss.Place(a.width, contentHeight, lipgloss.Left, lipgloss.Top, main)
	}
	return main + "\n" + statusLine + "\n" + footer
}
