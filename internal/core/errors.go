package core

import "errors"

var (
	// ErrNotFound is returned when a referenced task, lane, priority or
	// timer does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTimerRunning is returned when a start is attempted while the
	// timer slot is occupied.
	ErrTimerRunning = errors.New("a timer is already running")

	// ErrNoTimer is returned when an operation requires a running timer
	// and the slot is empty.
	ErrNoTimer = errors.New("no timer is running")

	// ErrNoTimerTask indicates a running pomodoro timer without a task
	// link. Every pomodoro start creates the link, so hitting this means
	// the slot invariant was broken elsewhere. Callers surface it, never
	// swallow it.
	ErrNoTimerTask = errors.New("running pomodoro has no linked task")
)
