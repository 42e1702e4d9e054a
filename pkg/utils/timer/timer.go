// Package timer provides duration tracking for multi-stage command runs.
package timer

import "time"

// Timer tracks the total runtime of a command and the runtime of its current stage.
type Timer interface {
	// Start begins tracking. Calling Start on a running timer resets it.
	Start()

	// NewStage marks the beginning of a new stage, resetting the stage clock.
	NewStage()

	// GetTiming returns the time elapsed since Start and since the last NewStage.
	GetTiming() (total time.Duration, stage time.Duration)
}

type clockTimer struct {
	started    time.Time
	stageStart time.Time
}

// New creates a Timer backed by the wall clock.
func New() Timer {
	return &clockTimer{}
}

func (t *clockTimer) Start() {
	now := time.Now()
	t.started = now
	t.stageStart = now
}

func (t *clockTimer) NewStage() {
	t.stageStart = time.Now()
}

func (t *clockTimer) GetTiming() (time.Duration, time.Duration) {
	if t.started.IsZero() {
		return 0, 0
	}

	now := time.Now()

	return now.Sub(t.started), now.Sub(t.stageStart)
}
