package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomh/stocklens/internal/livequery"
	"github.com/tomh/stocklens/internal/pipeline"
	"github.com/tomh/stocklens/internal/selection"
	"github.com/tomh/stocklens/internal/table"
)

// SortOption is one entry in a screen's sort cycle.
type SortOption[R any] struct {
	Key   string
	Label string
	Less  pipeline.Comparator[R]
}

// FacetOption is one discrete value of a filter facet. A nil predicate means
// "all" — the facet is inactive at that option.
type FacetOption[R any] struct {
	Label     string
	Predicate pipeline.Predicate[R]
}

// Facet is a named filter with discrete options the user cycles through.
type Facet[R any] struct {
	Name    string
	Options []FacetOption[R]
}

// ScreenSpec is everything entity-specific a list screen supplies; the
// engine stays ignorant of what R actually is.
type ScreenSpec[R any] struct {
	Name         string
	Columns      []table.Column[R]
	KeyOf        func(R) string
	SearchFields []pipeline.Field[R]
	Sorts        []SortOption[R]
	Facets       []Facet[R]
	Aggregates   []table.Aggregate[R]

	// NewBinding builds a fresh binding; called once per mount.
	NewBinding func() *livequery.Binding[R]

	// Action builds the screen's bulk-action descriptor. The handler runs
	// off the UI loop; it should write through the API and then refresh.
	Action func(s *ListScreen[R]) selection.Action
}

// ListScreen wires one entity's spec into the shared engine: binding →
// pipeline view → table, plus the selection registry.
type ListScreen[R any] struct {
	spec ScreenSpec[R]
	reg  *selection.Registry

	owner   string
	binding *livequery.Binding[R]
	view    *pipeline.View[R]
	tbl     *table.Model[R]

	facetState []int
	sortIdx    int
	sortAsc    bool

	searching bool
	search    textinput.Model

	colPicker bool
	colCursor int

	width, height int
	status        string
}

// NewListScreen builds an unmounted list screen.
func NewListScreen[R any](spec ScreenSpec[R], reg *selection.Registry) *ListScreen[R] {
	input := textinput.New()
	input.Placeholder = "search"
	input.Prompt = "/ "
	input.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent)
	return &ListScreen[R]{spec: spec, reg: reg, search: input}
}

func (s *ListScreen[R]) Name() string { return s.spec.Name }

// Mount claims the registry, installs the bulk action and starts a fresh
// binding. Pipeline parameters and column visibility reset: they live for
// exactly one mounted lifetime.
func (s *ListScreen[R]) Mount() {
	s.owner = selection.NewOwnerToken()
	s.reg.Activate(s.owner)
	if s.spec.Action != nil {
		s.reg.InstallAction(s.owner, s.spec.Action(s))
	}

	s.view = pipeline.NewView(s.spec.SearchFields...)
	s.facetState = make([]int, len(s.spec.Facets))
	s.sortIdx = 0
	s.sortAsc = true
	if len(s.spec.Sorts) > 0 {
		s.view.SetSort(s.spec.Sorts[0].Less)
	}
	s.search.SetValue("")
	s.searching = false
	s.colPicker = false

	cols := make([]table.Column[R], len(s.spec.Columns))
	copy(cols, s.spec.Columns)
	s.tbl = table.New(cols, s.spec.KeyOf)
	s.tbl.SetStyles(tableStyles())
	s.tbl.SetAggregates(s.spec.Aggregates)
	s.tbl.SetSelectionCheck(s.reg.IsSelected)
	s.tbl.SetSize(s.width, s.tableHeight())
	s.tbl.SetLoading(true)

	s.binding = s.spec.NewBinding()
	s.tbl.SetRefresh(s.binding.Refresh)
	s.binding.Start()
}

// Unmount closes the binding and releases this mount's bulk action. The
// ClearAction ownership check makes a late unmount harmless even if another
// screen has already mounted.
func (s *ListScreen[R]) Unmount() {
	if s.binding != nil {
		s.binding.Close()
	}
	s.reg.ClearAction(s.owner)
}

func (s *ListScreen[R]) Events() <-chan struct{} {
	if s.binding == nil {
		return nil
	}
	return s.binding.Events()
}

func (s *ListScreen[R]) Done() <-chan struct{} {
	if s.binding == nil {
		return nil
	}
	return s.binding.Done()
}

// Sync pulls the latest snapshot through the pipeline into the table and
// prunes the selection against the snapshot's id set.
func (s *ListScreen[R]) Sync() {
	if s.binding == nil {
		return
	}
	snapshot, gen := s.binding.Snapshot()

	alive := make(map[string]any, len(snapshot))
	for _, r := range snapshot {
		alive[s.spec.KeyOf(r)] = r
	}
	s.reg.Prune(alive)

	s.tbl.SetLoading(s.binding.Loading())
	s.tbl.SetRows(s.view.Apply(snapshot, gen))

	if err := s.binding.Err(); err != nil {
		s.status = fmt.Sprintf("sync error: %v (showing last data)", err)
	} else {
		s.status = ""
	}
}

func (s *ListScreen[R]) InputActive() bool { return s.searching }

// Streaming reports whether a background snapshot is superseding the data on
// screen. Purely a status-bar affordance.
func (s *ListScreen[R]) Streaming() bool {
	return s.binding != nil && s.binding.Streaming()
}

func (s *ListScreen[R]) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.search.Width = width - 4
	if s.tbl != nil {
		s.tbl.SetSize(width, s.tableHeight())
	}
}

func (s *ListScreen[R]) tableHeight() int {
	h := s.height - 2 // filter line + search/status line
	if h < 4 {
		h = 4
	}
	return h
}

// HandleKey consumes screen-scoped keys; the second return is false when the
// app shell should handle the key instead.
func (s *ListScreen[R]) HandleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if s.searching {
		return s.handleSearchKey(msg), true
	}
	if s.colPicker {
		return s.handleColumnKey(msg), true
	}

	switch msg.String() {
	case "up", "k":
		s.tbl.MoveUp()
	case "down", "j":
		s.tbl.MoveDown()
	case "pgup":
		s.tbl.PageUp()
	case "pgdown":
		s.tbl.PageDown()
	case "home", "g":
		s.tbl.GotoTop()
	case "end", "G":
		s.tbl.GotoBottom()
	case "left", "h":
		s.tbl.ScrollLeft()
	case "right", "l":
		s.tbl.ScrollRight()
	case " ":
		if row, ok := s.tbl.CursorRow(); ok {
			s.reg.Toggle(s.owner, s.spec.KeyOf(row), row)
		}
	case "u":
		s.reg.ClearSelection(s.owner)
	case "x":
		return s.invokeAction(), true
	case "/":
		s.searching = true
		s.search.Focus()
		return textinput.Blink, true
	case "f":
		s.cycleFacet(0)
	case "F":
		s.cycleFacet(1)
	case "s":
		s.cycleSort()
	case "S":
		s.flipSortDir()
	case "v":
		s.colPicker = true
		s.colCursor = 0
	case "r":
		s.tbl.Refresh()
		s.status = "refreshing…"
	case "esc":
		if s.view.SearchText() != "" {
			s.view.SetSearchText("")
			s.search.SetValue("")
			s.resync()
			return nil, true
		}
		return nil, false
	default:
		return nil, false
	}
	return nil, true
}

func (s *ListScreen[R]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		s.searching = false
		s.search.Blur()
		return nil
	case "esc":
		s.searching = false
		s.search.Blur()
		s.search.SetValue("")
		s.view.SetSearchText("")
		s.resync()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	s.view.SetSearchText(s.search.Value())
	s.resync()
	return cmd
}

func (s *ListScreen[R]) handleColumnKey(msg tea.KeyMsg) tea.Cmd {
	hideable := s.hideableColumns()
	switch msg.String() {
	case "esc", "v", "enter":
		s.colPicker = false
	case "up", "k":
		if s.colCursor > 0 {
			s.colCursor--
		}
	case "down", "j":
		if s.colCursor < len(hideable)-1 {
			s.colCursor++
		}
	case " ":
		if s.colCursor < len(hideable) {
			s.tbl.ToggleColumn(hideable[s.colCursor])
		}
	}
	return nil
}

func (s *ListScreen[R]) hideableColumns() []string {
	var keys []string
	for _, c := range s.tbl.Columns() {
		if c.CanHide {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// invokeAction runs the active bulk action off the UI loop. The handler sees
// the current selection even when it is empty; deciding what an empty
// selection means is the screen's business.
func (s *ListScreen[R]) invokeAction() tea.Cmd {
	reg := s.reg
	return func() tea.Msg {
		if !reg.Invoke() {
			return statusMsg{text: "no bulk action on this screen"}
		}
		return statusMsg{text: ""}
	}
}

func (s *ListScreen[R]) cycleFacet(idx int) {
	if idx >= len(s.spec.Facets) {
		return
	}
	facet := s.spec.Facets[idx]
	s.facetState[idx] = (s.facetState[idx] + 1) % len(facet.Options)
	opt := facet.Options[s.facetState[idx]]
	if opt.Predicate == nil {
		s.view.ClearFilter(facet.Name)
	} else {
		s.view.SetFilter(facet.Name, opt.Predicate)
	}
	s.resync()
}

func (s *ListScreen[R]) cycleSort() {
	if len(s.spec.Sorts) == 0 {
		return
	}
	s.sortIdx = (s.sortIdx + 1) % len(s.spec.Sorts)
	s.applySort()
}

func (s *ListScreen[R]) flipSortDir() {
	s.sortAsc = !s.sortAsc
	s.applySort()
}

func (s *ListScreen[R]) applySort() {
	if len(s.spec.Sorts) == 0 {
		return
	}
	less := s.spec.Sorts[s.sortIdx].Less
	if !s.sortAsc {
		less = pipeline.Desc(less)
	}
	s.view.SetSort(less)
	s.resync()
}

// resync re-applies the pipeline to the current snapshot after a parameter
// change, without waiting for a binding event.
func (s *ListScreen[R]) resync() {
	if s.binding == nil {
		return
	}
	snapshot, gen := s.binding.Snapshot()
	s.tbl.SetRows(s.view.Apply(snapshot, gen))
}

func (s *ListScreen[R]) View() string {
	if s.colPicker {
		return s.columnPickerView()
	}
	var b strings.Builder
	b.WriteString(s.controlLine())
	b.WriteString("\n")
	if s.searching || s.search.Value() != "" {
		b.WriteString(s.search.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(colorOverlay1).Render("/ to search"))
	}
	b.WriteString("\n")
	b.WriteString(s.tbl.View())
	return b.String()
}

func (s *ListScreen[R]) controlLine() string {
	label := lipgloss.NewStyle().Foreground(colorSubtext0)
	value := lipgloss.NewStyle().Foreground(colorAccent)

	parts := make([]string, 0, len(s.spec.Facets)+1)
	for i, facet := range s.spec.Facets {
		parts = append(parts, label.Render(facet.Name+": ")+value.Render(facet.Options[s.facetState[i]].Label))
	}
	if len(s.spec.Sorts) > 0 {
		dir := "↑"
		if !s.sortAsc {
			dir = "↓"
		}
		parts = append(parts, label.Render("sort: ")+value.Render(s.spec.Sorts[s.sortIdx].Label+" "+dir))
	}
	return strings.Join(parts, lipgloss.NewStyle().Foreground(colorSurface2).Render("  │  "))
}

func (s *ListScreen[R]) columnPickerView() string {
	title := lipgloss.NewStyle().Foreground(colorBrand).Bold(true).Render("Columns")
	hint := lipgloss.NewStyle().Foreground(colorOverlay1).Render("space toggle · esc close")
	lines := []string{title, hint, ""}

	i := 0
	for _, c := range s.tbl.Columns() {
		if !c.CanHide {
			lines = append(lines, fmt.Sprintf("    [pinned] %s", c.Title))
			continue
		}
		mark := "[x]"
		if c.Hidden {
			mark = "[ ]"
		}
		prefix := "  "
		if i == s.colCursor {
			prefix = lipgloss.NewStyle().Foreground(colorAccent).Render("> ")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", prefix, mark, c.Title))
		i++
	}
	return strings.Join(lines, "\n")
}

// StatusLine reports binding state for the shell's status bar.
func (s *ListScreen[R]) StatusLine() string {
	if s.binding == nil {
		return ""
	}
	if s.status != "" {
		return s.status
	}
	switch {
	case s.binding.Loading():
		return "loading…"
	case s.binding.Refreshing():
		return "refreshing…"
	case s.binding.Streaming():
		return "streaming update…"
	}
	if n := s.reg.Count(); n > 0 {
		if action, ok := s.reg.ActiveAction(); ok {
			return fmt.Sprintf("%d selected · x: %s", n, action.Label)
		}
		return fmt.Sprintf("%d selected", n)
	}
	return fmt.Sprintf("%d records", s.tbl.Len())
}
