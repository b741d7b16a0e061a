// Package openvr drives SteamVR headsets through an OpenVR runtime.
package openvr

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// Runtime is the slice of the OpenVR API the backend uses. The native
// binding lives outside this module.
type Runtime interface {
	// Init starts an OpenVR session.
	Init() error
	Shutdown()
	// IsHmdPresent is only reliable inside a session.
	IsHmdPresent() bool
	// PlayAreaSize reads the chaperone rectangle.
	PlayAreaSize() (width, depth float32, ok bool)
	// WaitGetPoses blocks until the compositor hands out the next poses.
	WaitGetPoses() (tracking.PoseFrame, error)
}

var _ backend.Backend = (*Backend)(nil)

type Backend struct {
	*backend.Base
	rt      Runtime
	session bool
}

func New(rt Runtime, cfg backend.Config, logger log.Log) *Backend {
	b := &Backend{
		Base: backend.NewBase(backend.KindOpenVR, cfg, logger),
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
	b.CompleteAfter(b.Config().InitFrames, b.start)
	return nil
}

func (b *Backend) start() error {
	if err := b.rt.Init(); err != nil {
		return fmt.Errorf("openvr init: %w", err)
	}
	b.session = true
	return nil
}

func (b *Backend) DeInitialize() {
	b.Base.DeInitialize()
	if b.session {
		b.rt.Shutdown()
		b.session = false
	}
}

// IsHmdPresent opens a temporary session when none is running and shuts it
// down again after asking.
func (b *Backend) IsHmdPresent() bool {
	if b.rt == nil {
		return false
	}
	if b.session {
		return b.rt.IsHmdPresent()
	}
	if err := b.rt.Init(); err != nil {
		b.Logger().Debug("openvr probe failed", log.Error(err))
		return false
	}
	defer b.rt.Shutdown()
	return b.rt.IsHmdPresent()
}

func (b *Backend) GetPlayspaceBounds() math32.Vector3 {
	if !b.IsInit() {
		return math32.Vector3{}
	}
	w, d, ok := b.rt.PlayAreaSize()
	if !ok || w <= 0 || d <= 0 {
		return math32.Vector3{}
	}
	return math32.Vec3(w, 1, d)
}

func (b *Backend) poll() {
	f, err := b.rt.WaitGetPoses()
	if err != nil {
		b.Logger().Warn("openvr poses unavailable", log.Error(err))
		return
	}
	b.DeliverFrame(f)
}
