package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// reportsScreen is a placeholder tab: no binding, no selection, no logic.
type reportsScreen struct{}

func newReportsScreen() *reportsScreen { return &reportsScreen{} }

func (r *reportsScreen) Name() string                              { return "Reports" }
func (r *reportsScreen) Mount()                                    {}
func (r *reportsScreen) Unmount()                                  {}
func (r *reportsScreen) Events() <-chan struct{}                   { return nil }
func (r *reportsScreen) Done() <-chan struct{}                     { return nil }
func (r *reportsScreen) Sync()                                     {}
func (r *reportsScreen) HandleKey(tea.KeyMsg) (tea.Cmd, bool)      { return nil, false }
func (r *reportsScreen) InputActive() bool                         { return false }
func (r *reportsScreen) SetSize(int, int)                          {}
func (r *reportsScreen) StatusLine() string                        { return "" }

func (r *reportsScreen) View() string {
	return lipgloss.NewStyle().Foreground(colorOverlay1).Render(
		"Reports coming in a later release\n\n" +
			"Planned:\n" +
			"  - Sales by channel\n" +
			"  - Stock valuation over time\n" +
			"  - Picker throughput\n" +
			"  - Customer cohorts")
}
