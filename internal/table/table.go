// Package table renders the shared tabular contract every list screen uses:
// header from visible column definitions, a windowed body so only visible
// rows cost anything, footer aggregates over the post-pipeline set, and
// empty/loading states. The engine never fetches; refresh delegates to the
// callback the screen wires in.
package table

import "github.com/charmbracelet/lipgloss"

// Align controls cell justification within a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column.
type Column[R any] struct {
	Key     string
	Title   string
	Width   int  // fixed width; 0 means flex
	Flex    int  // flex weight when Width is 0; defaults to 1
	Align   Align
	Hidden  bool
	CanHide bool
	Render  func(R) string
}

// Aggregate computes one footer cell over the displayed (post-filter,
// post-search) record set.
type Aggregate[R any] struct {
	Col     string
	Compute func([]R) string
}

// Styles groups the lipgloss styles the table renders with.
type Styles struct {
	Header   lipgloss.Style
	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Footer   lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultStyles renders plain; the TUI swaps in themed styles.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true),
		Cursor:   lipgloss.NewStyle().Bold(true),
		Selected: lipgloss.NewStyle().Bold(true),
		Footer:   lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle(),
	}
}

// Model is the table engine for one mounted screen.
type Model[R any] struct {
	cols  []Column[R]
	keyOf func(R) string
	rows  []R

	cursor int
	top    int
	xoff   int // index of first visible column after hiding

	width   int
	height  int
	loading bool

	aggregates []Aggregate[R]
	isSelected func(id string) bool
	onRefresh  func()
	styles     Styles
}

// New builds a table over the given columns and key extractor. At least one
// column must be non-hideable; if the caller marks every column hideable the
// first column is pinned, keeping the primary identifying column on screen.
func New[R any](cols []Column[R], keyOf func(R) string) *Model[R] {
	pinned := false
	for i := range cols {
		if cols[i].Flex == 0 && cols[i].Width == 0 {
			cols[i].Flex = 1
		}
		if !cols[i].CanHide {
			pinned = true
		}
	}
	if !pinned && len(cols) > 0 {
		cols[0].CanHide = false
		cols[0].Hidden = false
	}
	return &Model[R]{cols: cols, keyOf: keyOf, styles: DefaultStyles()}
}

// SetStyles replaces the render styles.
func (m *Model[R]) SetStyles(s Styles) { m.styles = s }

// SetAggregates installs the footer row computations.
func (m *Model[R]) SetAggregates(aggs []Aggregate[R]) { m.aggregates = aggs }

// SetSelectionCheck wires the selection registry's membership test in.
func (m *Model[R]) SetSelectionCheck(f func(id string) bool) { m.isSelected = f }

// SetRefresh wires the binding's refresh trigger in.
func (m *Model[R]) SetRefresh(f func()) { m.onRefresh = f }

// Refresh asks the binding for new data. The table itself never decides when
// to re-fetch.
func (m *Model[R]) Refresh() {
	if m.onRefresh != nil {
		m.onRefresh()
	}
}

// SetLoading flags that the first snapshot is still outstanding.
func (m *Model[R]) SetLoading(v bool) { m.loading = v }

// SetSize sets the rendering viewport in cells.
func (m *Model[R]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampCursor()
}

// SetRows replaces the displayed record set with a fresh post-pipeline slice.
// Cursor and scroll window clamp rather than reset, so a background snapshot
// does not yank the user to the top.
func (m *Model[R]) SetRows(rows []R) {
	m.rows = rows
	m.clampCursor()
}

// Rows returns the displayed record set.
func (m *Model[R]) Rows() []R { return m.rows }

// Len returns the displayed record count.
func (m *Model[R]) Len() int { return len(m.rows) }

// CursorRow returns the record under the cursor.
func (m *Model[R]) CursorRow() (R, bool) {
	var zero R
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return zero, false
	}
	return m.rows[m.cursor], true
}

// MoveUp moves the cursor up one row, scrolling the window as needed.
func (m *Model[R]) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.clampCursor()
}

// MoveDown moves the cursor down one row.
func (m *Model[R]) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
	m.clampCursor()
}

// PageUp moves up one window.
func (m *Model[R]) PageUp() {
	m.cursor -= m.visibleRowCount()
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampCursor()
}

// PageDown moves down one window.
func (m *Model[R]) PageDown() {
	m.cursor += m.visibleRowCount()
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	m.clampCursor()
}

// GotoTop moves the cursor to the first row.
func (m *Model[R]) GotoTop() {
	m.cursor = 0
	m.clampCursor()
}

// GotoBottom moves the cursor to the last row.
func (m *Model[R]) GotoBottom() {
	m.cursor = len(m.rows) - 1
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampCursor()
}

// ScrollLeft shifts the visible column window left.
func (m *Model[R]) ScrollLeft() {
	if m.xoff > 0 {
		m.xoff--
	}
}

// ScrollRight shifts the visible column window right, keeping at least one
// column on screen.
func (m *Model[R]) ScrollRight() {
	if m.xoff < len(m.visibleColumns())-1 {
		m.xoff++
	}
}

// ToggleColumn flips the visibility of the named column. Non-hideable
// columns are left alone. Visibility lives on the model, so it lasts exactly
// as long as the mounted screen does.
func (m *Model[R]) ToggleColumn(key string) {
	for i := range m.cols {
		if m.cols[i].Key != key {
			continue
		}
		if !m.cols[i].CanHide {
			return
		}
		m.cols[i].Hidden = !m.cols[i].Hidden
		if m.xoff >= len(m.visibleColumns()) {
			m.xoff = 0
		}
		return
	}
}

// Columns returns the column definitions, current visibility included.
func (m *Model[R]) Columns() []Column[R] { return m.cols }

// CursorKey returns the id of the record under the cursor.
func (m *Model[R]) CursorKey() (string, bool) {
	row, ok := m.CursorRow()
	if !ok {
		return "", false
	}
	return m.keyOf(row), true
}

func (m *Model[R]) visibleColumns() []Column[R] {
	out := make([]Column[R], 0, len(m.cols))
	for _, c := range m.cols {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

func (m *Model[R]) visibleRowCount() int {
	if m.height == 0 {
		return 10
	}
	// header + count line + optional footer
	chrome := 2
	if len(m.aggregates) > 0 {
		chrome++
	}
	visible := m.height - chrome
	if visible < 1 {
		visible = 1
	}
	return visible
}

func (m *Model[R]) clampCursor() {
	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	visible := m.visibleRowCount()
	if m.cursor < m.top {
		m.top = m.cursor
	} else if m.cursor >= m.top+visible {
		m.top = m.cursor - visible + 1
	}
	maxTop := len(m.rows) - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if m.top > maxTop {
		m.top = maxTop
	}
	if m.top < 0 {
		m.top = 0
	}
}
