package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopmetrics"
)

var watchQuitKey = key.NewBinding(key.WithKeys("q", "ctrl+c"))

// fopMsg wraps one pipeline result for the watch model's Update loop.
type fopMsg struct {
	f  fop.Fop
	ok bool // false once the source channel has closed
}

// watchModel is a minimal live view over a running pipeline: it redraws
// a stat box every time a Fop arrives, without a TUI-exclusive data
// source (the same fopmetrics.Collector the non-watch path uses).
type watchModel struct {
	metrics *fopmetrics.Collector
	results chan fop.Fop
	done    bool
	quit    bool
}

func newWatchModel(results chan fop.Fop, metrics *fopmetrics.Collector) watchModel {
	return watchModel{metrics: metrics, results: results}
}

func (m watchModel) Init() tea.Cmd {
	return m.waitForFop()
}

func (m watchModel) waitForFop() tea.Cmd {
	return func() tea.Msg {
		f, ok := <-m.results
		return fopMsg{f: f, ok: ok}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fopMsg:
		if !msg.ok {
			m.done = true
			return m, tea.Quit
		}
		observe(msg.f, m.metrics)
		return m, m.waitForFop()
	case tea.KeyMsg:
		if key.Matches(msg, watchQuitKey) {
			m.quit = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	snap := m.metrics.Snapshot()

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Render("fop watch")
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)

	body := fmt.Sprintf(
		"seen: %d  resolved: %d  matched: %d  errored: %d",
		snap.FopsSeen, snap.FopsResolved, snap.FopsMatched, snap.FopsErrored,
	)

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render("press q to quit")

	out := title + "\n\n" + box.Render(body) + "\n" + help
	if m.done {
		out += "\n(pipeline finished)"
	}
	return out
}

// watchSnapshots drains out into a bubbletea program that redraws a live
// stat box on every arriving Fop, feeding metrics the same way the
// non-watch drain loop does.
func watchSnapshots(out <-chan fop.Fop, metrics *fopmetrics.Collector) error {
	relay := make(chan fop.Fop)
	go func() {
		defer close(relay)
		for f := range out {
			relay <- f
		}
	}()

	p := tea.NewProgram(newWatchModel(relay, metrics))
	_, err := p.Run()
	return err
}
