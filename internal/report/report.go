// Package report renders tasks, todo days and daily summaries as text
// for the command line.
package report

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"pomodo/internal/core"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const unknown = "UNKNOWN"

// nameOf resolves an id through the map, falling back to UNKNOWN. A
// missing lane or priority means the row references a seed that no
// longer exists; the report stays readable either way.
func nameOf(names map[int64]string, id int64) string {
	if n, ok := names[id]; ok {
		return n
	}
	return unknown
}

// LaneNames builds an id-to-name map from the seeded lanes.
func LaneNames(lanes []core.Lane) map[int64]string {
	out := make(map[int64]string, len(lanes))
	for _, l := range lanes {
		out[l.ID] = l.Name
	}
	return out
}

// PriorityNames builds an id-to-name map from the seeded priorities.
func PriorityNames(priorities []core.Priority) map[int64]string {
	out := make(map[int64]string, len(priorities))
	for _, p := range priorities {
		out[p.ID] = p.Name
	}
	return out
}

// TaskTable renders one line per task: id, lane, priority, estimate
// and summary.
func TaskTable(tasks []core.Task, lanes, priorities map[int64]string) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("no tasks")
	}

	var rows []string
	rows = append(rows, headerStyle.Render(fmt.Sprintf("%4s %-8s %-4s %4s  %s", "ID", "LANE", "PRI", "EST", "SUMMARY")))
	for _, t := range tasks {
		rows = append(rows, fmt.Sprintf("%4d %-8s %-4s %4d  %s",
			t.ID, nameOf(lanes, t.LaneID), nameOf(priorities, t.Priority), t.Estimate, t.Summary,
		))
	}
	return strings.Join(rows, "\n")
}

// TodoHeader renders the aggregate line above a day's task table.
func TodoHeader(s core.TodoSummary) string {
	return headerStyle.Render(fmt.Sprintf("date:%s estimate:%d actual:%d remaining:%d",
		s.Date, s.Estimate, s.Actual, s.Remaining))
}

// TodoTable renders a day's assigned tasks with their per-day actual
// pomodoro counts, in assignment order.
func TodoTable(tasks []core.TodoTask, lanes, priorities map[int64]string) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("no tasks assigned")
	}

	var rows []string
	rows = append(rows, headerStyle.Render(fmt.Sprintf("%4s %-8s %-4s %4s %4s  %s", "ID", "LANE", "PRI", "EST", "ACT", "SUMMARY")))
	for _, t := range tasks {
		rows = append(rows, fmt.Sprintf("%4d %-8s %-4s %4d %4d  %s",
			t.TaskID, nameOf(lanes, t.LaneID), nameOf(priorities, t.Priority), t.Estimate, t.Actual, t.Summary,
		))
	}
	return strings.Join(rows, "\n")
}

// SummaryTable renders per-day per-task counts.
func SummaryTable(summaries []core.DailySummary, tasks map[int64]*core.Task) string {
	if len(summaries) == 0 {
		return mutedStyle.Render("no activity in this period")
	}

	var rows []string
	rows = append(rows, headerStyle.Render(fmt.Sprintf("%-12s %4s %4s %4s  %s", "DATE", "ID", "POM", "INT", "SUMMARY")))
	for _, s := range summaries {
		summary := unknown
		if t, ok := tasks[s.TaskID]; ok {
			summary = t.Summary
		}
		rows = append(rows, fmt.Sprintf("%-12s %4d %4d %4d  %s",
			s.Day, s.TaskID, s.PomodoroCount, s.InterruptionCount, summary,
		))
	}
	return strings.Join(rows, "\n")
}

// SummaryChart renders a bar per day in [from, from+days), each bar the
// day's total completed pomodoros across tasks.
func SummaryChart(summaries []core.DailySummary, from core.Date, days int) string {
	perDay := make(map[core.Date]int64)
	for _, s := range summaries {
		perDay[s.Day] += s.PomodoroCount
	}

	width := days * 8
	if width > 80 {
		width = 80
	}
	chart := barchart.New(width, 10)

	var bars []barchart.BarData
	for i := 0; i < days; i++ {
		d := from.AddDays(i)
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%02d/%02d", int(d.Month), d.Day),
			Values: []barchart.BarValue{
				{Name: d.String(), Value: float64(perDay[d]), Style: barStyle},
			},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}
