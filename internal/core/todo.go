package core

import (
	"fmt"
	"time"
)

// TodoDay is the set of tasks committed to a calendar day, with a free
// text note.
type TodoDay struct {
	Date      Date
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoTask is a task assigned to a day, enriched with its estimate and
// the number of pomodoros actually completed on that day.
type TodoTask struct {
	Date     Date
	TaskID   int64
	LaneID   int64
	Priority int64
	Summary  string
	Estimate int64
	Actual   int64
}

// TodoSummary is the aggregate line over a day's assigned tasks.
// Remaining goes negative when more pomodoros ran than were estimated.
type TodoSummary struct {
	Date      Date
	Estimate  int64
	Actual    int64
	Remaining int64
}

// TodoStore is the todo-day persistence capability.
type TodoStore interface {
	AddTodo(date Date, note string) error
	// TodoByDate returns (nil, nil) when the day has no record.
	TodoByDate(date Date) (*TodoDay, error)
	// AssignTask assigns the task to the day at the given order.
	// Re-assigning an already assigned task re-asserts it with the new
	// order rather than duplicating it.
	AssignTask(date Date, taskID int64, order int) error
	UnassignTask(date Date, taskID int64) error
	// NextAssignOrder returns the order value following the highest one
	// assigned for the day (0 for an empty day).
	NextAssignOrder(date Date) (int, error)
	// AssignedTasks returns the day's tasks in assignment order. Actual
	// counts pomodoro completions whose started_at falls in
	// [dayStart, dayEnd).
	AssignedTasks(date Date, dayStart, dayEnd time.Time) ([]TodoTask, error)
}

func ensureTodoDay(r Repository, date Date) (*TodoDay, error) {
	day, err := r.TodoByDate(date)
	if err != nil {
		return nil, err
	}
	if day != nil {
		return day, nil
	}
	if err := r.AddTodo(date, ""); err != nil {
		return nil, err
	}
	day, err = r.TodoByDate(date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, fmt.Errorf("todo day %s missing after insert", date)
	}
	return day, nil
}

// ListTodoTasks returns the tasks assigned to the date, ordered by
// their assignment order, each with the count of pomodoros completed
// during that local day. The day window starts at midnight in loc, not
// UTC midnight. The day record is created when absent.
func ListTodoTasks(r Repository, date Date, loc *time.Location) ([]TodoTask, error) {
	if _, err := ensureTodoDay(r, date); err != nil {
		return nil, err
	}
	start, end := date.WindowIn(loc)
	return r.AssignedTasks(date, start, end)
}

// ModTodo assigns and unassigns tasks for the date. Added tasks receive
// sequential order values continuing from the day's highest, in the
// order given. The loop is not transactional: a mid-loop failure leaves
// earlier assignments applied.
func ModTodo(r Repository, date Date, add, remove []int64) error {
	day, err := ensureTodoDay(r, date)
	if err != nil {
		return err
	}
	next, err := r.NextAssignOrder(day.Date)
	if err != nil {
		return err
	}
	for i, id := range add {
		if err := r.AssignTask(day.Date, id, next+i); err != nil {
			return err
		}
	}
	for _, id := range remove {
		if err := r.UnassignTask(day.Date, id); err != nil {
			return err
		}
	}
	return nil
}

// SummarizeTodo folds a day's task rows into the aggregate report line.
func SummarizeTodo(date Date, tasks []TodoTask) TodoSummary {
	s := TodoSummary{Date: date}
	for _, t := range tasks {
		s.Estimate += t.Estimate
		s.Actual += t.Actual
	}
	s.Remaining = s.Estimate - s.Actual
	return s
}
