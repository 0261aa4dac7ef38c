package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Stage is a piece of per-tick logic.
type Stage interface {
	Step(TickContext) error
}

// StepFunc is the func form of Stage.
type StepFunc func(TickContext) error

// Step implements Stage.
func (f StepFunc) Step(tc TickContext) error {
	return f(tc)
}

// TimeSource provides the time for per-tick logic.
type TimeSource interface {
	Time() time.Time
}

// TickContext is the context of the current tick.
type TickContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// Tick is the sequence number of the tick, starting from 1.
	Tick() uint64
	// Interval is the nominal tick duration.
	Interval() time.Duration
	// Phase gets the phase being run.
	Phase() int
	// PostRun injects one-shot stages run after the current phase's
	// stages. If called from a post-run stage, they run in the next tick.
	PostRun(stages ...Stage)

	LoopControl
}

// Phases is the number of phases in a tick.
const Phases int = 4

// Phases run in order within a tick.
const (
	// PhaseSense collects the latest measurements.
	PhaseSense int = iota
	// PhaseControl computes commands.
	PhaseControl
	// PhaseActuate sends commands out.
	PhaseActuate
	// PhaseReport publishes status.
	PhaseReport
)

// LoopControl exposes access to the running loop.
type LoopControl interface {
	// PostRunAt injects one-shot post-run stages at the specified phase.
	PostRunAt(phase int, stages ...Stage)
	// Stop ends the loop after the current tick.
	Stop()
}
