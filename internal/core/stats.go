package core

import (
	"sort"
	"time"
)

// SummaryRange is a half-open [Start, End) UTC instant range.
type SummaryRange struct {
	Start time.Time
	End   time.Time
}

// DailySummary counts work and interruption events for one task on one
// local calendar day.
type DailySummary struct {
	Day               Date
	TaskID            int64
	PomodoroCount     int64
	InterruptionCount int64
}

// DailySummaries buckets the pomodoro ledger (keyed by started_at) and
// the interruption ledger into per-day, per-task counts. Days are
// calendar days in loc, the same fixed-offset boundary rule the todo
// aggregator uses, so both reports agree on which day an event belongs
// to. Output is sorted by day, then task id.
func DailySummaries(r Repository, rng SummaryRange, loc *time.Location) ([]DailySummary, error) {
	poms, err := r.PomodorosBetween(rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	ints, err := r.InterruptionsBetween(rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	type group struct {
		day    Date
		taskID int64
	}
	buckets := make(map[group]*DailySummary)
	bucket := func(day Date, taskID int64) *DailySummary {
		k := group{day, taskID}
		s, ok := buckets[k]
		if !ok {
			s = &DailySummary{Day: day, TaskID: taskID}
			buckets[k] = s
		}
		return s
	}

	for _, p := range poms {
		bucket(DateOf(p.StartedAt, loc), p.TaskID).PomodoroCount++
	}
	for _, i := range ints {
		bucket(DateOf(i.At, loc), i.TaskID).InterruptionCount++
	}

	out := make([]DailySummary, 0, len(buckets))
	for _, s := range buckets {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].TaskID < out[j].TaskID
	})
	return out, nil
}
