package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomh/stocklens/internal/livequery"
	"github.com/tomh/stocklens/internal/pipeline"
	"github.com/tomh/stocklens/internal/replica"
	"github.com/tomh/stocklens/internal/selection"
	"github.com/tomh/stocklens/internal/table"
)

type widget struct {
	ID   string
	Name string
}

type widgetSource struct {
	mu   sync.Mutex
	rows []widget
}

func (w *widgetSource) load(ctx context.Context) ([]widget, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]widget, len(w.rows))
	copy(out, w.rows)
	return out, nil
}

func (w *widgetSource) set(rows []widget) {
	w.mu.Lock()
	w.rows = rows
	w.mu.Unlock()
}

func newWidgetScreen(t *testing.T, src *widgetSource, reg *selection.Registry, actioned *[][]selection.Item) *ListScreen[widget] {
	t.Helper()
	store, err := replica.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	spec := ScreenSpec[widget]{
		Name: "Widgets",
		Columns: []table.Column[widget]{
			{Key: "id", Title: "ID", Width: 6, Render: func(w widget) string { return w.ID }},
			{Key: "name", Title: "Name", Width: 12, CanHide: true, Render: func(w widget) string { return w.Name }},
		},
		KeyOf:        func(w widget) string { return w.ID },
		SearchFields: []pipeline.Field[widget]{func(w widget) string { return w.Name }},
		Sorts: []SortOption[widget]{
			{Key: "name", Label: "name", Less: pipeline.ByString(func(w widget) string { return w.Name })},
		},
		NewBinding: func() *livequery.Binding[widget] {
			return livequery.New(store, src.load, "widgets")
		},
		Action: func(s *ListScreen[widget]) selection.Action {
			return selection.Action{
				Label: "act",
				Handler: func(items []selection.Item) {
					if actioned != nil {
						*actioned = append(*actioned, items)
					}
				},
			}
		},
	}
	s := NewListScreen(spec, reg)
	s.SetSize(60, 16)
	return s
}

func waitSynced(t *testing.T, s *ListScreen[widget], want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Sync()
		if s.tbl.Len() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d rows, have %d", want, s.tbl.Len())
}

func TestMountInstallsActionUnmountClears(t *testing.T) {
	reg := selection.NewRegistry()
	src := &widgetSource{rows: []widget{{ID: "w1", Name: "alpha"}}}
	s := newWidgetScreen(t, src, reg, nil)

	if _, ok := reg.ActiveAction(); ok {
		t.Fatalf("action present before mount")
	}
	s.Mount()
	defer s.Unmount()
	if action, ok := reg.ActiveAction(); !ok || action.Label != "act" {
		t.Fatalf("mount did not install the bulk action")
	}

	s.Unmount()
	if _, ok := reg.ActiveAction(); ok {
		t.Fatalf("unmount left the bulk action installed")
	}
}

func TestLateUnmountLeavesNewOwnerAlone(t *testing.T) {
	reg := selection.NewRegistry()
	src := &widgetSource{rows: []widget{{ID: "w1", Name: "alpha"}}}
	old := newWidgetScreen(t, src, reg, nil)
	next := newWidgetScreen(t, src, reg, nil)

	old.Mount()
	next.Mount()
	defer next.Unmount()

	// The old screen tears down after its replacement already claimed the
	// registry. Its cleanup must not strip the new screen's action.
	old.Unmount()
	if _, ok := reg.ActiveAction(); !ok {
		t.Fatalf("late unmount cleared the successor's action")
	}
}

func TestSyncPrunesSelectionAgainstSnapshot(t *testing.T) {
	reg := selection.NewRegistry()
	src := &widgetSource{rows: []widget{{ID: "w1", Name: "alpha"}, {ID: "w2", Name: "beta"}}}
	s := newWidgetScreen(t, src, reg, nil)
	s.Mount()
	defer s.Unmount()
	waitSynced(t, s, 2)

	reg.Toggle(s.owner, "w1", widget{ID: "w1", Name: "alpha"})
	reg.Toggle(s.owner, "w2", widget{ID: "w2", Name: "beta"})
	if reg.Count() != 2 {
		t.Fatalf("selection count = %d, want 2", reg.Count())
	}

	src.set([]widget{{ID: "w2", Name: "beta"}})
	s.binding.Refresh()
	waitSynced(t, s, 1)

	if reg.Count() != 1 {
		t.Fatalf("selection not pruned: count = %d", reg.Count())
	}
	if !reg.IsSelected("w2") || reg.IsSelected("w1") {
		t.Fatalf("wrong survivor in selection")
	}
}

func TestRemountResetsPipelineState(t *testing.T) {
	reg := selection.NewRegistry()
	src := &widgetSource{rows: []widget{{ID: "w1", Name: "alpha"}, {ID: "w2", Name: "beta"}}}
	s := newWidgetScreen(t, src, reg, nil)
	s.Mount()
	waitSynced(t, s, 2)

	s.view.SetSearchText("alpha")
	s.tbl.ToggleColumn("name")
	s.resync()
	if s.tbl.Len() != 1 {
		t.Fatalf("search not applied")
	}
	s.Unmount()

	s.Mount()
	defer s.Unmount()
	waitSynced(t, s, 2)
	if s.view.SearchText() != "" {
		t.Fatalf("search text survived remount")
	}
	for _, c := range s.tbl.Columns() {
		if c.Hidden {
			t.Fatalf("column visibility survived remount")
		}
	}
}

func TestInvokeActionSeesSelection(t *testing.T) {
	reg := selection.NewRegistry()
	src := &widgetSource{rows: []widget{{ID: "w1", Name: "alpha"}}}
	var calls [][]selection.Item
	s := newWidgetScreen(t, src, reg, &calls)
	s.Mount()
	defer s.Unmount()
	waitSynced(t, s, 1)

	reg.Toggle(s.owner, "w1", widget{ID: "w1", Name: "alpha"})
	cmd, handled := s.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if !handled || cmd == nil {
		t.Fatalf("x did not produce an action command")
	}
	cmd()

	if len(calls) != 1 || len(calls[0]) != 1 || calls[0][0].ID != "w1" {
		t.Fatalf("handler calls = %+v", calls)
	}
}
