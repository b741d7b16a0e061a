// Package oculus drives Oculus headsets. Poses arrive through the
// runtime's anchor callback, which the runtime invokes from Pump.
package oculus

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// Runtime is the Oculus plugin surface the backend needs.
type Runtime interface {
	XREnabled() bool
	SetXREnabled(enabled bool)
	// HmdPresent requires XR to be enabled.
	HmdPresent() bool
	Start() error
	Stop()
	// BoundaryDimensions is the outer play area, when the guardian is set up.
	BoundaryDimensions() (math32.Vector3, bool)
	// OnUpdatedAnchors sets the callback fired once per Pump with fresh poses.
	OnUpdatedAnchors(fn func(tracking.PoseFrame))
	// Pump lets the runtime update its camera rig and fire callbacks.
	Pump()
}

var _ backend.Backend = (*Backend)(nil)

type Backend struct {
	*backend.Base
	rt      Runtime
	started bool

	bounds    math32.Vector3
	hasBounds bool
}

func New(rt Runtime, cfg backend.Config, logger log.Log) *Backend {
	return &Backend{
		Base: backend.NewBase(backend.KindOculus, cfg, logger),
		rt:   rt,
	}
}

func (b *Backend) Initialize(rig backend.Rig) error {
	if b.rt == nil {
		return backend.ErrNoRuntime
	}
	if err := b.Begin(rig); err != nil {
		return err
	}
	b.CompleteAfter(b.Config().InitFrames, b.start)
	return nil
}

func (b *Backend) start() error {
	if !b.rt.XREnabled() {
		b.rt.SetXREnabled(true)
	}
	if err := b.rt.Start(); err != nil {
		return fmt.Errorf("oculus start: %w", err)
	}
	b.started = true
	b.rt.OnUpdatedAnchors(b.anchorsUpdated)
	return nil
}

func (b *Backend) anchorsUpdated(f tracking.PoseFrame) {
	b.DeliverFrame(f)
}

func (b *Backend) DeInitialize() {
	b.Base.DeInitialize()
	if b.started {
		b.rt.OnUpdatedAnchors(nil)
		b.rt.Stop()
		b.started = false
	}
	b.hasBounds = false
	b.bounds = math32.Vector3{}
}

// IsHmdPresent enables XR for the duration of the probe when it is off.
func (b *Backend) IsHmdPresent() bool {
	if b.rt == nil {
		return false
	}
	if b.rt.XREnabled() {
		return b.rt.HmdPresent()
	}
	b.rt.SetXREnabled(true)
	defer b.rt.SetXREnabled(false)
	return b.rt.HmdPresent()
}

// GetPlayspaceBounds caches the guardian dimensions after the first
// successful read.
func (b *Backend) GetPlayspaceBounds() math32.Vector3 {
	if !b.IsInit() {
		return math32.Vector3{}
	}
	if !b.hasBounds {
		dim, ok := b.rt.BoundaryDimensions()
		if !ok || dim.X <= 0 || dim.Z <= 0 {
			return math32.Vector3{}
		}
		b.bounds = math32.Vec3(dim.X, 1, dim.Z)
		b.hasBounds = true
	}
	return b.bounds
}

func (b *Backend) Update() {
	b.Base.Update()
	if b.started && b.IsInit() {
		b.rt.Pump()
	}
}
