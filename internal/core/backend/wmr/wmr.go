// Package wmr drives Windows Mixed Reality headsets.
package wmr

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// PlayspaceSize is the fixed room size reported while ready. Mixed Reality
// does not expose its boundary, so the extent is nominal.
const PlayspaceSize = 5

// Runtime is the holographic API surface the backend needs.
type Runtime interface {
	// IsDisplayOpaque distinguishes immersive headsets from see-through
	// devices and from no device at all.
	IsDisplayOpaque() bool
	Start() error
	Stop()
	// LatestPoses returns the most recent spatial sample, false when none
	// arrived since the last call.
	LatestPoses() (tracking.PoseFrame, bool)
}

var _ backend.Backend = (*Backend)(nil)

type Backend struct {
	*backend.Base
	rt      Runtime
	started bool
}

func New(rt Runtime, cfg backend.Config, logger log.Log) *Backend {
	b := &Backend{
		Base: backend.NewBase(backend.KindWMR, cfg, logger),
		rt:   rt,
	}
	b.SetPoller(b.poll)
	return b
}

func (b *Backend) Initialize(rig backend.Rig) error {
	if b.rt == nil {
		return backend.ErrNoRuntime
	}
	if err := b.Begin(rig); err != nil {
		return err
	}
	b.CompleteAfter(b.Config().InitFrames, func() error {
		if err := b.rt.Start(); err != nil {
			return fmt.Errorf("wmr start: %w", err)
		}
		b.started = true
		return nil
	})
	return nil
}

func (b *Backend) DeInitialize() {
	b.Base.DeInitialize()
	if b.started {
		b.rt.Stop()
		b.started = false
	}
}

func (b *Backend) IsHmdPresent() bool {
	return b.rt != nil && b.rt.IsDisplayOpaque()
}

func (b *Backend) GetPlayspaceBounds() math32.Vector3 {
	if !b.IsInit() {
		return math32.Vector3{}
	}
	return math32.Vec3(PlayspaceSize, 1, PlayspaceSize)
}

func (b *Backend) poll() {
	if f, ok := b.rt.LatestPoses(); ok {
		b.DeliverFrame(f)
	}
}
