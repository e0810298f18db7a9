package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pomodo/internal/core"
	"pomodo/internal/store"
)

func newTestRepo(t *testing.T) core.Repository {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func startSession(t *testing.T, r core.Repository, durationMin int64) Session {
	t.Helper()
	if err := core.AddTask(r, "backlog", "m", "work", 2); err != nil {
		t.Fatal(err)
	}
	tasks, err := r.TasksByLane("backlog")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := core.StartPomodoro(r, tasks[0].ID, durationMin); err != nil {
		t.Fatal(err)
	}
	cur, err := core.Current(r)
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(r, cur)
}

func TestSessionCountsDown(t *testing.T) {
	r := newTestRepo(t)
	s := startSession(t, r, 25)

	model, cmd := s.Update(tickMsg(time.Now()))
	s = model.(Session)
	if s.Done {
		t.Fatal("session should still be running")
	}
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
	if s.remaining <= 0 || s.remaining > 25*time.Minute {
		t.Fatalf("unexpected remaining: %v", s.remaining)
	}
}

func TestSessionFinishesAtZero(t *testing.T) {
	r := newTestRepo(t)
	// Zero duration puts the deadline in the past.
	s := startSession(t, r, 0)

	model, cmd := s.Update(tickMsg(time.Now()))
	s = model.(Session)
	if !s.Done {
		t.Fatal("session should be done once the deadline passes")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestSessionQuitKeyLeavesDoneUnset(t *testing.T) {
	r := newTestRepo(t)
	s := startSession(t, r, 25)

	model, cmd := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	s = model.(Session)
	if s.Done {
		t.Fatal("quitting early must not mark the session done")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestSessionInterruptKey(t *testing.T) {
	r := newTestRepo(t)
	s := startSession(t, r, 25)

	model, _ := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	s = model.(Session)
	if s.interruptions != 1 {
		t.Fatalf("expected 1 interruption, got %d", s.interruptions)
	}

	now := time.Now().UTC()
	ints, err := r.InterruptionsBetween(now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(ints) != 1 {
		t.Fatalf("expected 1 recorded interruption, got %d", len(ints))
	}
}

func TestSessionInterruptDuringBreak(t *testing.T) {
	r := newTestRepo(t)
	if _, err := core.StartBreak(r, core.KindShortBreak, 5); err != nil {
		t.Fatal(err)
	}
	cur, err := core.Current(r)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSession(r, cur)

	model, _ := s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	s = model.(Session)
	if s.interruptions != 0 {
		t.Fatal("breaks have no task to interrupt")
	}
}

func TestSessionView(t *testing.T) {
	r := newTestRepo(t)
	s := startSession(t, r, 25)
	s.width = 80
	s.remaining = 24*time.Minute + 59*time.Second

	out := s.View()
	if out == "" {
		t.Fatal("view should render something")
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{61 * time.Second, "01:01"},
		{25 * time.Minute, "25:00"},
	}
	for _, tt := range tests {
		if got := formatRemaining(tt.d); got != tt.want {
			t.Errorf("formatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
