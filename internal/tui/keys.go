package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab    key.Binding
	PrevTab    key.Binding
	UpDown     key.Binding
	LeftRight  key.Binding
	Select     key.Binding
	ClearSel   key.Binding
	BulkAction key.Binding
	Search     key.Binding
	Facet      key.Binding
	Sort       key.Binding
	SortDir    key.Binding
	Columns    key.Binding
	Refresh    key.Binding
	Palette    key.Binding
	Close      key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		UpDown:     key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("j/k", "navigate")),
		LeftRight:  key.NewBinding(key.WithKeys("left", "right", "h", "l"), key.WithHelp("h/l", "scroll cols")),
		Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		ClearSel:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unselect all")),
		BulkAction: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run action")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Facet:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		SortDir:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sort dir")),
		Columns:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "columns")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Palette:    key.NewBinding(key.WithKeys("ctrl+p", ":"), key.WithHelp("ctrl+p", "commands")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.UpDown, k.Select, k.BulkAction, k.Search, k.Sort, k.Refresh, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.UpDown, k.LeftRight},
		{k.Select, k.ClearSel, k.BulkAction},
		{k.Search, k.Facet, k.Sort, k.SortDir, k.Columns, k.Refresh},
		{k.Palette, k.Close, k.Quit},
	}
}
