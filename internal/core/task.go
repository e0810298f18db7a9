package core

import (
	"fmt"
	"time"
)

// Task is a unit of work living in a lane, carrying a priority and a
// pomodoro estimate.
type Task struct {
	ID        int64
	LaneID    int64
	Priority  int64
	Summary   string
	Estimate  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lane is a named task list (backlog, todo, ...).
type Lane struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Priority is a named priority level.
type Priority struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskMod describes a partial task update. Nil fields keep their prior
// value.
type TaskMod struct {
	Lane     *string
	Priority *string
	Summary  *string
	Estimate *int64
}

// TaskStore is the task persistence capability.
type TaskStore interface {
	AddTask(laneID, priorityID int64, summary string, estimate int64) error
	// TaskByID returns (nil, nil) when no task has the id.
	TaskByID(id int64) (*Task, error)
	TasksByLane(laneName string) ([]Task, error)
	UpdateTask(id int64, laneID, priorityID *int64, summary *string, estimate *int64) error
}

// LaneStore is the lane lookup capability.
type LaneStore interface {
	// LaneByName returns (nil, nil) when no lane has the name.
	LaneByName(name string) (*Lane, error)
	Lanes() ([]Lane, error)
}

// PriorityStore is the priority lookup capability.
type PriorityStore interface {
	// PriorityByName returns (nil, nil) when no priority has the name.
	PriorityByName(name string) (*Priority, error)
	Priorities() ([]Priority, error)
}

// AddTask creates a task in the named lane with the named priority.
func AddTask(r Repository, laneName, priorityName, summary string, estimate int64) error {
	lane, err := r.LaneByName(laneName)
	if err != nil {
		return err
	}
	if lane == nil {
		return fmt.Errorf("lane %q: %w", laneName, ErrNotFound)
	}
	prio, err := r.PriorityByName(priorityName)
	if err != nil {
		return err
	}
	if prio == nil {
		return fmt.Errorf("priority %q: %w", priorityName, ErrNotFound)
	}
	return r.AddTask(lane.ID, prio.ID, summary, estimate)
}

// ModTask applies a partial update to a task. Lane and priority are
// given by name and resolved before the update.
func ModTask(r Repository, id int64, mod TaskMod) error {
	task, err := r.TaskByID(id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	var laneID, prioID *int64
	if mod.Lane != nil {
		lane, err := r.LaneByName(*mod.Lane)
		if err != nil {
			return err
		}
		if lane == nil {
			return fmt.Errorf("lane %q: %w", *mod.Lane, ErrNotFound)
		}
		laneID = &lane.ID
	}
	if mod.Priority != nil {
		prio, err := r.PriorityByName(*mod.Priority)
		if err != nil {
			return err
		}
		if prio == nil {
			return fmt.Errorf("priority %q: %w", *mod.Priority, ErrNotFound)
		}
		prioID = &prio.ID
	}
	return r.UpdateTask(id, laneID, prioID, mod.Summary, mod.Estimate)
}

// ListTasks returns all tasks in the named lane.
func ListTasks(r Repository, laneName string) ([]Task, error) {
	return r.TasksByLane(laneName)
}
