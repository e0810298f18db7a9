package report

import (
	"strings"
	"testing"
	"time"

	"pomodo/internal/core"
)

func testNames() (map[int64]string, map[int64]string) {
	lanes := map[int64]string{1: "backlog", 2: "todo"}
	priorities := map[int64]string{0: "n", 1: "l", 2: "m", 3: "h"}
	return lanes, priorities
}

func TestTaskTable(t *testing.T) {
	lanes, priorities := testNames()
	tasks := []core.Task{
		{ID: 3, LaneID: 1, Priority: 3, Summary: "write paper", Estimate: 4},
		{ID: 1, LaneID: 2, Priority: 0, Summary: "review patches", Estimate: 2},
	}

	out := TaskTable(tasks, lanes, priorities)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "backlog") || !strings.Contains(lines[1], "h") {
		t.Fatalf("first row should name lane and priority: %q", lines[1])
	}
	if !strings.Contains(lines[2], "review patches") {
		t.Fatalf("second row missing summary: %q", lines[2])
	}
}

func TestTaskTableEmpty(t *testing.T) {
	lanes, priorities := testNames()
	out := TaskTable(nil, lanes, priorities)
	if !strings.Contains(out, "no tasks") {
		t.Fatalf("unexpected empty output: %q", out)
	}
}

func TestTaskTableUnknownLane(t *testing.T) {
	_, priorities := testNames()
	tasks := []core.Task{{ID: 1, LaneID: 9, Priority: 0, Summary: "x", Estimate: 1}}

	out := TaskTable(tasks, map[int64]string{}, priorities)
	if !strings.Contains(out, "UNKNOWN") {
		t.Fatalf("missing lane should render as UNKNOWN: %q", out)
	}
}

func TestTodoHeader(t *testing.T) {
	s := core.TodoSummary{
		Date:      core.NewDate(2021, time.March, 7),
		Estimate:  6,
		Actual:    7,
		Remaining: -1,
	}
	out := TodoHeader(s)
	if !strings.Contains(out, "date:2021-03-07") {
		t.Fatalf("missing date: %q", out)
	}
	if !strings.Contains(out, "estimate:6 actual:7 remaining:-1") {
		t.Fatalf("missing counts: %q", out)
	}
}

func TestTodoTable(t *testing.T) {
	lanes, priorities := testNames()
	tasks := []core.TodoTask{
		{TaskID: 2, LaneID: 2, Priority: 2, Summary: "deep work", Estimate: 4, Actual: 3},
	}
	out := TodoTable(tasks, lanes, priorities)
	if !strings.Contains(out, "deep work") {
		t.Fatalf("missing summary: %q", out)
	}
	if !strings.Contains(out, "ACT") {
		t.Fatalf("todo table should carry an actual column: %q", out)
	}
}

func TestSummaryTable(t *testing.T) {
	tasks := map[int64]*core.Task{
		1: {ID: 1, Summary: "write paper"},
	}
	summaries := []core.DailySummary{
		{Day: core.NewDate(2021, time.March, 7), TaskID: 1, PomodoroCount: 3, InterruptionCount: 1},
		{Day: core.NewDate(2021, time.March, 8), TaskID: 9, PomodoroCount: 1},
	}

	out := SummaryTable(summaries, tasks)
	if !strings.Contains(out, "2021-03-07") || !strings.Contains(out, "write paper") {
		t.Fatalf("missing first row data: %q", out)
	}
	// Rows for tasks not in the map still render.
	if !strings.Contains(out, "UNKNOWN") {
		t.Fatalf("unknown task should render as UNKNOWN: %q", out)
	}
}

func TestSummaryTableEmpty(t *testing.T) {
	out := SummaryTable(nil, nil)
	if !strings.Contains(out, "no activity") {
		t.Fatalf("unexpected empty output: %q", out)
	}
}

func TestSummaryChart(t *testing.T) {
	from := core.NewDate(2021, time.March, 1)
	summaries := []core.DailySummary{
		{Day: from, TaskID: 1, PomodoroCount: 4},
		{Day: from, TaskID: 2, PomodoroCount: 2},
		{Day: from.AddDays(2), TaskID: 1, PomodoroCount: 1},
	}

	out := SummaryChart(summaries, from, 7)
	if out == "" {
		t.Fatal("chart should not be empty")
	}
	if !strings.Contains(out, "03/01") {
		t.Fatalf("chart should label the first day: %q", out)
	}
}
