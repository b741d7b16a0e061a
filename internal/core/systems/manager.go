package systems

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/grasp/internal/core/observability/log"
)

// DefaultMaxFixedSteps bounds the catch-up work of one frame.
const DefaultMaxFixedSteps = 8

type entry struct {
	sys     System
	order   int
	metrics Metrics
}

// Manager orchestrates all systems of a session on one logical thread.
type Manager struct {
	entries       []*entry
	phases        [phaseCount][]*entry
	nextOrder     int
	fixedDelta    float32
	accumulator   float32
	maxFixedSteps int
	frames        uint64
	fixedSteps    uint64
	logger        log.Log
}

func NewManager(fixedDelta float32, logger log.Log) (*Manager, error) {
	if fixedDelta <= 0 {
		return nil, ErrInvalidDelta
	}
	return &Manager{
		fixedDelta:    fixedDelta,
		maxFixedSteps: DefaultMaxFixedSteps,
		logger:        logger.Named("systems"),
	}, nil
}

// RegisterSystem adds s; names are unique.
func (m *Manager) RegisterSystem(s System) error {
	if m.HasSystem(s.Name()) {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	e := &entry{sys: s, order: m.nextOrder}
	m.nextOrder++
	m.entries = append(m.entries, e)
	m.rebuild()
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	i := slices.IndexFunc(m.entries, func(e *entry) bool { return e.sys.Name() == name })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	m.rebuild()
	return nil
}

func (m *Manager) HasSystem(name string) bool {
	return slices.ContainsFunc(m.entries, func(e *entry) bool { return e.sys.Name() == name })
}

func (m *Manager) rebuild() {
	for p := range m.phases {
		m.phases[p] = m.phases[p][:0]
	}
	for _, e := range m.entries {
		p := e.sys.Phase()
		if p >= phaseCount {
			continue
		}
		m.phases[p] = append(m.phases[p], e)
	}
	for p := range m.phases {
		slices.SortStableFunc(m.phases[p], func(a, b *entry) int {
			if a.sys.Priority() != b.sys.Priority() {
				return int(b.sys.Priority()) - int(a.sys.Priority())
			}
			return a.order - b.order
		})
	}
}

// GetExecutionOrder lists system names in the order one full tick runs them.
func (m *Manager) GetExecutionOrder() []string {
	var out []string
	for _, phase := range m.phases {
		for _, e := range phase {
			out = append(out, e.sys.Name())
		}
	}
	return out
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	for _, e := range m.entries {
		if e.sys.Name() == name {
			return e.metrics, true
		}
	}
	return Metrics{}, false
}

func (m *Manager) FixedDelta() float32 { return m.fixedDelta }

func (m *Manager) SetFixedDelta(dt float32) error {
	if dt <= 0 {
		return ErrInvalidDelta
	}
	m.fixedDelta = dt
	return nil
}

// SetMaxFixedSteps bounds how many fixed steps one frame may run.
func (m *Manager) SetMaxFixedSteps(n int) {
	if n > 0 {
		m.maxFixedSteps = n
	}
}

func (m *Manager) FrameCount() uint64 { return m.frames }

func (m *Manager) FixedStepCount() uint64 { return m.fixedSteps }

// Frame runs one presentation tick of dt seconds followed by the fixed steps
// that fit in the accumulated time. A system error is recorded and logged;
// the remaining systems still run. The joined errors are returned.
func (m *Manager) Frame(dt float32) error {
	if dt < 0 {
		dt = 0
	}
	m.frames++
	var all error
	for p := PhasePose; p < PhaseFixedInteract; p++ {
		all = errors.Join(all, m.runPhase(p, dt))
	}

	m.accumulator += dt
	steps := 0
	for m.accumulator >= m.fixedDelta && steps < m.maxFixedSteps {
		all = errors.Join(all, m.FixedStep())
		m.accumulator -= m.fixedDelta
		steps++
	}
	if steps == m.maxFixedSteps && m.accumulator >= m.fixedDelta {
		m.logger.Warn("dropping simulation time",
			log.Float32("behind", m.accumulator),
			log.Int("steps", steps))
		m.accumulator = 0
	}
	return all
}

// FixedStep runs the fixed phases once with the fixed delta.
func (m *Manager) FixedStep() error {
	m.fixedSteps++
	var all error
	for p := PhaseFixedInteract; p < phaseCount; p++ {
		all = errors.Join(all, m.runPhase(p, m.fixedDelta))
	}
	return all
}

func (m *Manager) runPhase(p ExecutionPhase, dt float32) error {
	var all error
	for _, e := range m.phases[p] {
		start := time.Now()
		err := e.sys.Tick(dt)
		dur := time.Since(start)

		e.metrics.ExecutionCount++
		e.metrics.TotalExecutionTime += dur
		e.metrics.LastExecutionTime = dur
		if dur > e.metrics.MaxExecutionTime {
			e.metrics.MaxExecutionTime = dur
		}
		if err != nil {
			e.metrics.ErrorCount++
			e.metrics.LastError = err
			m.logger.Error("system tick failed",
				log.String("system", e.sys.Name()),
				log.Stringer("phase", p),
				log.Error(err))
			all = errors.Join(all, fmt.Errorf("%s: %w", e.sys.Name(), err))
		}
	}
	return all
}
