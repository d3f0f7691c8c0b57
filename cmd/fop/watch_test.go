package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/file-or-pattern/fop/fop"
	"github.com/file-or-pattern/fop/internal/fopmetrics"
)

func TestWatchModelUpdateObservesFop(t *testing.T) {
	results := make(chan fop.Fop, 1)
	metrics := fopmetrics.NewCollector("simple", "run-watch")
	m := newWatchModel(results, metrics)

	name := "a.txt"
	next, cmd := m.Update(fopMsg{f: fop.Fop{FileOrPattern: "*.txt", Filename: &name}, ok: true})

	wm, ok := next.(watchModel)
	if !ok {
		t.Fatalf("expected watchModel, got %T", next)
	}
	if wm.done {
		t.Error("expected done to stay false on a successful fop")
	}
	if cmd == nil {
		t.Error("expected a follow-up command to wait for the next fop")
	}
	if got := metrics.Snapshot().FopsResolved; got != 1 {
		t.Errorf("expected metrics to observe the fop, got FopsResolved=%d", got)
	}
}

func TestWatchModelUpdateFinishesOnClose(t *testing.T) {
	results := make(chan fop.Fop)
	metrics := fopmetrics.NewCollector("simple", "run-watch")
	m := newWatchModel(results, metrics)

	next, cmd := m.Update(fopMsg{ok: false})

	wm, ok := next.(watchModel)
	if !ok {
		t.Fatalf("expected watchModel, got %T", next)
	}
	if !wm.done {
		t.Error("expected done to be set once the source closes")
	}
	if cmd == nil {
		t.Fatal("expected tea.Quit command")
	}
}

func TestWatchModelUpdateQuitKey(t *testing.T) {
	m := newWatchModel(make(chan fop.Fop), fopmetrics.NewCollector("simple", "run-watch"))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	wm, ok := next.(watchModel)
	if !ok {
		t.Fatalf("expected watchModel, got %T", next)
	}
	if !wm.quit {
		t.Error("expected quit to be set after the q key")
	}
	if cmd == nil {
		t.Fatal("expected tea.Quit command")
	}
}

func TestWatchModelViewIncludesCounts(t *testing.T) {
	metrics := fopmetrics.NewCollector("simple", "run-watch")
	metrics.IncSeen()
	metrics.IncResolved()

	m := newWatchModel(make(chan fop.Fop), metrics)
	view := m.View()

	if !strings.Contains(view, "seen: 1") {
		t.Errorf("expected seen count in view, got %q", view)
	}
	if !strings.Contains(view, "resolved: 1") {
		t.Errorf("expected resolved count in view, got %q", view)
	}
	if !strings.Contains(view, "press q to quit") {
		t.Errorf("expected quit hint in view, got %q", view)
	}
}

func TestWatchModelViewDoneMessage(t *testing.T) {
	m := newWatchModel(make(chan fop.Fop), fopmetrics.NewCollector("simple", "run-watch"))
	m.done = true

	if !strings.Contains(m.View(), "pipeline finished") {
		t.Error("expected done view to mention the pipeline finished")
	}
}
