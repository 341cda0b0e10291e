package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/plate-calculator/internal/plates"
	"github.com/eugenenazirov/plate-calculator/internal/session"
)

func newInteractiveSession(t *testing.T) *session.Session {
	t.Helper()

	s, err := session.New(plates.New(), plates.DefaultDenominations(), 45, 135)
	if err != nil {
		t.Fatalf("session.New returned error: %v", err)
	}
	return s
}

func TestRunInteractive(t *testing.T) {
	color.NoColor = true

	s := newInteractiveSession(t)
	in := strings.NewReader("t 225\n+\nb abc\nb 150\n-\nq\nt 500\n")
	var out bytes.Buffer

	if err := runInteractive(in, &out, s, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("runInteractive returned error: %v", err)
	}

	state := s.State()
	if state.BarWeight != 150 || state.TargetWeight != 225 {
		t.Fatalf("unexpected final state bar=%v target=%v", state.BarWeight, state.TargetWeight)
	}
	if !strings.Contains(out.String(), "target [230]  bar [45]") {
		t.Fatalf("expected increment to be rendered, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "target [230]  bar [150]") {
		t.Fatalf("expected bar change to be rendered, got:\n%s", out.String())
	}
}

func TestRunInteractiveDecrementStopsAtBar(t *testing.T) {
	color.NoColor = true

	s := newInteractiveSession(t)
	in := strings.NewReader(strings.Repeat("-\n", 30))
	var out bytes.Buffer

	if err := runInteractive(in, &out, s, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("runInteractive returned error: %v", err)
	}
	if got := s.State().TargetWeight; got != 45 {
		t.Fatalf("expected target to stop at bar, got %v", got)
	}
	if !strings.Contains(out.String(), "Just the barbell") {
		t.Fatalf("expected bar-only rendering")
	}
}

func TestRunInteractiveUnknownCommand(t *testing.T) {
	color.NoColor = true

	s := newInteractiveSession(t)
	var out bytes.Buffer

	if err := runInteractive(strings.NewReader("deadlift\n"), &out, s, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("runInteractive returned error: %v", err)
	}
	if !strings.Contains(out.String(), "commands:") {
		t.Fatalf("expected help text, got:\n%s", out.String())
	}
	if got := s.State().TargetWeight; got != 135 {
		t.Fatalf("expected state untouched, got %v", got)
	}
}

func TestRunInteractiveHugeTargetCapped(t *testing.T) {
	color.NoColor = true

	s, err := session.New(plates.New(), plates.DefaultDenominations(), 45, 135, session.WithMaxTargetWeight(2000))
	if err != nil {
		t.Fatalf("session.New returned error: %v", err)
	}
	var out bytes.Buffer

	done := make(chan error, 1)
	go func() {
		done <- runInteractive(strings.NewReader("t 1e20\nq\n"), &out, s, zaptest.NewLogger(t))
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runInteractive returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("runInteractive did not return within 3s")
	}

	if got := s.State().TargetWeight; got != 2000 {
		t.Fatalf("expected target capped at 2000, got %v", got)
	}
	if !strings.Contains(out.String(), "target [2000]") {
		t.Fatalf("expected capped target to be rendered, got:\n%s", out.String())
	}
}
