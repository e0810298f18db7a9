// Package core holds the timer lifecycle engine and the todo and
// statistics aggregators. The package owns no state: every operation is
// a function over a Repository, making each call safe to re-enter after
// a crash.
package core

// Repository is the full durable-storage capability set. Any engine
// satisfying every capability interface is substitutable; the operations
// in this package never reach past these interfaces.
type Repository interface {
	TaskStore
	LaneStore
	PriorityStore
	TimerStore
	PomodoroStore
	InterruptionStore
	TodoStore
}
