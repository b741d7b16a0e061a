// Package systems schedules the per-tick work of a session. A frame runs the
// presentation phases once with the frame delta, then as many fixed steps as
// the accumulated time allows.
package systems

import (
	"time"
)

// System is one unit of per-tick work.
type System interface {
	Name() string
	Phase() ExecutionPhase
	Priority() Priority

	// Tick runs the system for dt seconds. Fixed phase systems always receive
	// the fixed delta.
	Tick(dt float32) error
}

// Priority orders systems within a phase; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase defines when a system runs. Phases run in declaration order.
type ExecutionPhase uint8

const (
	// PhasePose delivers backend poses and refreshes trackers.
	PhasePose ExecutionPhase = iota
	// PhaseInput evaluates button edges and proximity.
	PhaseInput
	// PhaseFixedInteract applies attach and force logic.
	PhaseFixedInteract
	// PhaseFixedCull runs the distance drop and out of bounds culls.
	PhaseFixedCull
	// PhaseFixedPhysics integrates the rigid bodies.
	PhaseFixedPhysics
	phaseCount
)

// Fixed reports whether the phase runs on the fixed simulation tick.
func (p ExecutionPhase) Fixed() bool {
	return p >= PhaseFixedInteract
}

func (p ExecutionPhase) String() string {
	switch p {
	case PhasePose:
		return "pose"
	case PhaseInput:
		return "input"
	case PhaseFixedInteract:
		return "fixed-interact"
	case PhaseFixedCull:
		return "fixed-cull"
	case PhaseFixedPhysics:
		return "fixed-physics"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount     uint64
	TotalExecutionTime time.Duration
	MaxExecutionTime   time.Duration
	LastExecutionTime  time.Duration
	ErrorCount         uint64
	LastError          error
}

// AverageExecutionTime is the mean tick duration.
func (m Metrics) AverageExecutionTime() time.Duration {
	if m.ExecutionCount == 0 {
		return 0
	}
	return m.TotalExecutionTime / time.Duration(m.ExecutionCount)
}

// Func adapts a function into a System.
type Func struct {
	name     string
	phase    ExecutionPhase
	priority Priority
	fn       func(dt float32) error
}

func NewFunc(name string, phase ExecutionPhase, priority Priority, fn func(dt float32) error) *Func {
	return &Func{name: name, phase: phase, priority: priority, fn: fn}
}

func (f *Func) Name() string          { return f.name }
func (f *Func) Phase() ExecutionPhase { return f.phase }
func (f *Func) Priority() Priority    { return f.priority }
func (f *Func) Tick(dt float32) error { return f.fn(dt) }
