package table

import (
	"fmt"
	"strings"
	"testing"
)

type rec struct {
	id   string
	name string
	qty  int
}

func testColumns() []Column[rec] {
	return []Column[rec]{
		{Key: "id", Title: "ID", Width: 6, Render: func(r rec) string { return r.id }},
		{Key: "name", Title: "Name", Width: 10, CanHide: true, Render: func(r rec) string { return r.name }},
		{Key: "qty", Title: "Qty", Width: 5, Align: AlignRight, CanHide: true,
			Render: func(r rec) string { return fmt.Sprintf("%d", r.qty) }},
	}
}

func testRows(n int) []rec {
	rows := make([]rec, n)
	for i := range rows {
		rows[i] = rec{id: fmt.Sprintf("r%02d", i), name: fmt.Sprintf("item %d", i), qty: i}
	}
	return rows
}

func newTestTable(rows []rec) *Model[rec] {
	m := New(testColumns(), func(r rec) string { return r.id })
	m.SetSize(60, 10)
	m.SetRows(rows)
	return m
}

func TestLoadingDistinctFromEmpty(t *testing.T) {
	m := newTestTable(nil)
	m.SetLoading(true)
	loading := m.View()

	m.SetLoading(false)
	empty := m.View()

	if loading == empty {
		t.Fatalf("loading and empty states render identically")
	}
	if !strings.Contains(loading, "Loading") {
		t.Fatalf("loading view missing indicator: %q", loading)
	}
	if !strings.Contains(empty, "No matching records") {
		t.Fatalf("empty view missing empty state: %q", empty)
	}
	if !strings.Contains(empty, "ID") {
		t.Fatalf("empty view should still show the header")
	}
}

func TestBodyIsWindowed(t *testing.T) {
	m := newTestTable(testRows(100))
	out := m.View()

	if !strings.Contains(out, "r00") {
		t.Fatalf("first row missing from window")
	}
	if strings.Contains(out, "r50") {
		t.Fatalf("row outside window was rendered")
	}
	if !strings.Contains(out, "of 100") {
		t.Fatalf("count line missing total: %q", out)
	}
}

func TestCursorScrollsWindow(t *testing.T) {
	m := newTestTable(testRows(100))
	m.GotoBottom()
	out := m.View()
	if !strings.Contains(out, "r99") {
		t.Fatalf("window did not follow cursor to bottom")
	}
	if strings.Contains(out, "r00") {
		t.Fatalf("top row still rendered after scrolling to bottom")
	}
}

func TestSnapshotReplacementClampsCursor(t *testing.T) {
	m := newTestTable(testRows(50))
	m.GotoBottom()
	m.SetRows(testRows(5))
	if key, ok := m.CursorKey(); !ok || key != "r04" {
		t.Fatalf("cursor key = %q ok=%v, want r04", key, ok)
	}
}

func TestHeaderBodyAlignedUnderHorizontalScroll(t *testing.T) {
	m := newTestTable(testRows(3))
	m.ScrollRight()
	out := m.View()
	lines := strings.Split(out, "\n")
	header, body := lines[0], lines[1]

	if strings.Contains(header, "ID") {
		t.Fatalf("scrolled-out column still in header: %q", header)
	}
	if strings.Contains(body, "r00") {
		t.Fatalf("scrolled-out column still in body: %q", body)
	}
	// The first visible column starts at the same offset in both lines.
	if strings.Index(header, "Name") != strings.Index(body, "item 0") {
		t.Fatalf("header/body misaligned:\n%q\n%q", header, body)
	}
}

func TestFooterAggregatesOverDisplayedRows(t *testing.T) {
	m := newTestTable(testRows(4)) // qty 0+1+2+3
	m.SetAggregates([]Aggregate[rec]{
		{Col: "qty", Compute: func(rows []rec) string {
			sum := 0
			for _, r := range rows {
				sum += r.qty
			}
			return fmt.Sprintf("%d", sum)
		}},
	})
	if !strings.Contains(m.View(), "6") {
		t.Fatalf("footer aggregate missing")
	}

	// Aggregates follow the displayed set, not the original snapshot.
	m.SetRows(testRows(2)) // qty 0+1
	if strings.Contains(m.View(), "6") {
		t.Fatalf("footer aggregate not recomputed for new row set")
	}
}

func TestToggleColumnRespectsPinned(t *testing.T) {
	m := newTestTable(testRows(1))
	m.ToggleColumn("id") // pinned, CanHide false
	if !strings.Contains(m.View(), "ID") {
		t.Fatalf("pinned column was hidden")
	}

	m.ToggleColumn("name")
	if strings.Contains(m.View(), "Name") {
		t.Fatalf("hideable column still visible after toggle")
	}
	m.ToggleColumn("name")
	if !strings.Contains(m.View(), "Name") {
		t.Fatalf("column did not come back")
	}
}

func TestAllHideableColumnsPinsFirst(t *testing.T) {
	cols := []Column[rec]{
		{Key: "a", Title: "A", CanHide: true, Render: func(r rec) string { return r.id }},
		{Key: "b", Title: "B", CanHide: true, Render: func(r rec) string { return r.name }},
	}
	m := New(cols, func(r rec) string { return r.id })
	m.ToggleColumn("a")
	if m.Columns()[0].Hidden {
		t.Fatalf("first column should have been pinned")
	}
}

func TestSelectionMarkerAndCount(t *testing.T) {
	m := newTestTable(testRows(5))
	selected := map[string]bool{"r02": true}
	m.SetSelectionCheck(func(id string) bool { return selected[id] })

	out := m.View()
	if !strings.Contains(out, "1 selected") {
		t.Fatalf("count line missing selection: %q", out)
	}
	if !strings.Contains(out, "* ") {
		t.Fatalf("selected row marker missing")
	}
}

func TestRefreshDelegates(t *testing.T) {
	m := newTestTable(nil)
	called := false
	m.SetRefresh(func() { called = true })
	m.Refresh()
	if !called {
		t.Fatalf("refresh did not delegate to the binding callback")
	}
}
