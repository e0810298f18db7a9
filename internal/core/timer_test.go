package core_test

import (
	"errors"
	"testing"
	"time"

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

// mustAddTask creates a backlog task and returns its id.
func mustAddTask(t *testing.T, r core.Repository, summary string) int64 {
	t.Helper()
	if err := core.AddTask(r, "backlog", "m", summary, 2); err != nil {
		t.Fatalf("add task: %v", err)
	}
	tasks, err := r.TasksByLane("backlog")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	return tasks[0].ID
}

func TestStartPomodoroLinksTask(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "write paper")

	timer, err := core.StartPomodoro(r, id, 25)
	if err != nil {
		t.Fatal(err)
	}
	if timer.Kind != core.KindPomodoro || timer.Label != "write paper" {
		t.Fatalf("unexpected timer: %+v", timer)
	}

	link, err := r.TimerTaskLink()
	if err != nil {
		t.Fatal(err)
	}
	if link == nil || link.TaskID != id {
		t.Fatalf("slot should be linked to task %d, got %+v", id, link)
	}
}

func TestStartPomodoroUnknownTask(t *testing.T) {
	r := newTestRepo(t)
	_, err := core.StartPomodoro(r, 42, 25)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTimerExclusivity(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "work")

	if _, err := core.StartPomodoro(r, id, 25); err != nil {
		t.Fatal(err)
	}
	if _, err := core.StartPomodoro(r, id, 25); !errors.Is(err, core.ErrTimerRunning) {
		t.Fatalf("second pomodoro should fail with ErrTimerRunning, got %v", err)
	}
	if _, err := core.StartBreak(r, core.KindShortBreak, 5); !errors.Is(err, core.ErrTimerRunning) {
		t.Fatalf("break over a running timer should fail, got %v", err)
	}
}

func TestCompletePomodoroAppendsLedger(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "work")

	timer, err := core.StartPomodoro(r, id, 25)
	if err != nil {
		t.Fatal(err)
	}
	if err := core.Complete(r, timer); err != nil {
		t.Fatal(err)
	}

	poms, err := r.PomodorosByTask(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(poms) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(poms))
	}
	if !poms[0].StartedAt.Equal(timer.StartedAt) {
		t.Fatalf("ledger started_at %v, timer %v", poms[0].StartedAt, timer.StartedAt)
	}

	// Slot and link are released.
	cur, err := r.CurrentTimer()
	if err != nil {
		t.Fatal(err)
	}
	if cur != nil {
		t.Fatal("slot should be empty after completion")
	}
	link, _ := r.TimerTaskLink()
	if link != nil {
		t.Fatal("link should be gone after completion")
	}
}

func TestCompleteBreakLeavesLedgerUntouched(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "work")

	timer, err := core.StartBreak(r, core.KindLongBreak, 15)
	if err != nil {
		t.Fatal(err)
	}
	if err := core.Complete(r, timer); err != nil {
		t.Fatal(err)
	}

	poms, _ := r.PomodorosByTask(id)
	if len(poms) != 0 {
		t.Fatalf("break completion wrote %d ledger rows", len(poms))
	}
	cur, _ := r.CurrentTimer()
	if cur != nil {
		t.Fatal("slot should be empty after completion")
	}
}

func TestStartBreakRejectsWorkKind(t *testing.T) {
	r := newTestRepo(t)
	if _, err := core.StartBreak(r, core.KindPomodoro, 25); err == nil {
		t.Fatal("expected an error for a non break kind")
	}
}

func TestCompleteUnlinkedPomodoro(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "work")

	timer, err := core.StartPomodoro(r, id, 25)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.UnlinkTimerTask(); err != nil {
		t.Fatal(err)
	}

	err = core.Complete(r, timer)
	if !errors.Is(err, core.ErrNoTimerTask) {
		t.Fatalf("expected ErrNoTimerTask, got %v", err)
	}
	// The inconsistent slot is left in place for inspection.
	cur, _ := r.CurrentTimer()
	if cur == nil {
		t.Fatal("slot should not be cleared on a link failure")
	}
}

func TestCurrent(t *testing.T) {
	r := newTestRepo(t)

	cur, err := core.Current(r)
	if err != nil {
		t.Fatal(err)
	}
	if cur != nil {
		t.Fatalf("idle repo should report no timer, got %+v", cur)
	}

	id := mustAddTask(t, r, "work")
	if _, err := core.StartPomodoro(r, id, 25); err != nil {
		t.Fatal(err)
	}
	cur, err = core.Current(r)
	if err != nil {
		t.Fatal(err)
	}
	if cur == nil || cur.Task == nil || cur.Task.ID != id {
		t.Fatalf("expected current timer joined with task %d, got %+v", id, cur)
	}
	if cur.End().Sub(cur.StartedAt) != 25*time.Minute {
		t.Fatalf("unexpected end: %v", cur.End())
	}
}

func TestCurrentBreakHasNoTask(t *testing.T) {
	r := newTestRepo(t)
	if _, err := core.StartBreak(r, core.KindShortBreak, 5); err != nil {
		t.Fatal(err)
	}
	cur, err := core.Current(r)
	if err != nil {
		t.Fatal(err)
	}
	if cur == nil || cur.Task != nil {
		t.Fatalf("break timer should carry no task, got %+v", cur)
	}
}

func TestCurrentUnlinkedPomodoro(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "work")
	if _, err := core.StartPomodoro(r, id, 25); err != nil {
		t.Fatal(err)
	}
	if err := r.UnlinkTimerTask(); err != nil {
		t.Fatal(err)
	}
	if _, err := core.Current(r); !errors.Is(err, core.ErrNoTimerTask) {
		t.Fatalf("expected ErrNoTimerTask, got %v", err)
	}
}

func TestRecordInterruption(t *testing.T) {
	r := newTestRepo(t)
	id := mustAddTask(t, r, "work")

	if err := core.RecordInterruption(r, id); err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	ints, err := r.InterruptionsBetween(now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(ints) != 1 || ints[0].TaskID != id {
		t.Fatalf("unexpected interruptions: %+v", ints)
	}

	if err := core.RecordInterruption(r, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown task, got %v", err)
	}
}
