package table

import (
	"fmt"
	"strings"
)

const (
	prefixWidth = 2 // cursor/selection marker column
	colGap      = 2
	minColWidth = 4
)

// View renders the table: header, windowed body, optional footer aggregates
// and the count line. Header, body and footer all derive from one layout
// pass, so horizontal scrolling can never misalign them.
func (m *Model[R]) View() string {
	if m.loading {
		return m.styles.Muted.Render("Loading…")
	}

	cols, widths := m.layout()
	var lines []string
	lines = append(lines, m.styles.Header.Render(m.headerLine(cols, widths)))

	if len(m.rows) == 0 {
		lines = append(lines, m.styles.Muted.Render("No matching records."))
		return strings.Join(lines, "\n")
	}

	visible := m.visibleRowCount()
	end := m.top + visible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.top; i < end; i++ {
		lines = append(lines, m.rowLine(m.rows[i], i, cols, widths))
	}

	if len(m.aggregates) > 0 {
		lines = append(lines, m.styles.Footer.Render(m.footerLine(cols, widths)))
	}
	lines = append(lines, m.styles.Muted.Render(m.countLine(end)))
	return strings.Join(lines, "\n")
}

// layout picks the visible column slice starting at the horizontal offset
// and resolves one width per column: fixed widths as declared, flex widths
// sharing whatever space remains by weight.
func (m *Model[R]) layout() ([]Column[R], []int) {
	cols := m.visibleColumns()
	if m.xoff > 0 && m.xoff < len(cols) {
		cols = cols[m.xoff:]
	}
	if len(cols) == 0 {
		return nil, nil
	}

	total := m.width
	if total <= 0 {
		total = 80
	}
	avail := total - prefixWidth - colGap*(len(cols)-1)

	fixed := 0
	flexSum := 0
	for _, c := range cols {
		if c.Width > 0 {
			fixed += c.Width
		} else {
			flexSum += c.Flex
		}
	}

	flexSpace := avail - fixed
	widths := make([]int, len(cols))
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			continue
		}
		w := minColWidth
		if flexSum > 0 && flexSpace > 0 {
			w = flexSpace * c.Flex / flexSum
		}
		if w < minColWidth {
			w = minColWidth
		}
		widths[i] = w
	}
	return cols, widths
}

func (m *Model[R]) headerLine(cols []Column[R], widths []int) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = fit(c.Title, widths[i], c.Align)
	}
	return strings.Repeat(" ", prefixWidth) + strings.Join(cells, strings.Repeat(" ", colGap))
}

func (m *Model[R]) rowLine(row R, index int, cols []Column[R], widths []int) string {
	prefix := "  "
	if index == m.cursor {
		prefix = m.styles.Cursor.Render("> ")
	} else if m.isSelected != nil && m.isSelected(m.keyOf(row)) {
		prefix = m.styles.Selected.Render("* ")
	}
	cells := make([]string, len(cols))
	for i, c := range cols {
		text := ""
		if c.Render != nil {
			text = c.Render(row)
		}
		cells[i] = fit(text, widths[i], c.Align)
	}
	return prefix + strings.Join(cells, strings.Repeat(" ", colGap))
}

func (m *Model[R]) footerLine(cols []Column[R], widths []int) string {
	byKey := make(map[string]string, len(m.aggregates))
	for _, agg := range m.aggregates {
		if agg.Compute != nil {
			byKey[agg.Col] = agg.Compute(m.rows)
		}
	}
	cells := make([]string, len(cols))
	for i, c := range cols {
		cells[i] = fit(byKey[c.Key], widths[i], c.Align)
	}
	return strings.Repeat(" ", prefixWidth) + strings.Join(cells, strings.Repeat(" ", colGap))
}

func (m *Model[R]) countLine(end int) string {
	total := len(m.rows)
	if total == 0 {
		return ""
	}
	selected := 0
	if m.isSelected != nil {
		for _, r := range m.rows {
			if m.isSelected(m.keyOf(r)) {
				selected++
			}
		}
	}
	if selected > 0 {
		return fmt.Sprintf("── showing %d-%d of %d · %d selected ──", m.top+1, end, total, selected)
	}
	return fmt.Sprintf("── showing %d-%d of %d ──", m.top+1, end, total)
}

// fit pads or truncates text to exactly width cells.
func fit(text string, width int, align Align) string {
	if width <= 0 {
		return ""
	}
	text = truncate(text, width)
	if align == AlignRight {
		return padLeft(text, width)
	}
	return padRight(text, width)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
