package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is the contract a tab fulfils toward the app shell. List screens are
// built from ListScreen; placeholder tabs implement it directly.
type Screen interface {
	Name() string

	// Mount installs the screen's bulk action, claims the selection
	// registry and starts its binding. Unmount releases all three.
	// A screen is re-mountable; each mount is a fresh lifetime.
	Mount()
	Unmount()

	// Events/Done expose the mounted binding's wakeup channels; nil when
	// the screen has no live data.
	Events() <-chan struct{}
	Done() <-chan struct{}

	// Sync recomputes displayed rows from the binding's latest snapshot.
	Sync()

	HandleKey(msg tea.KeyMsg) (tea.Cmd, bool)
	InputActive() bool
	SetSize(width, height int)
	View() string
	StatusLine() string
}
