// Package mock is the headless backend: it reports a configurable headset,
// and replays a scripted tracking frame every tick. It is also the fallback
// installed when no runtime is found.
package mock

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// DeviceName is what the mock headset reports as its XR device.
const DeviceName = "MockHMD"

type Config struct {
	// Present makes IsHmdPresent report a headset.
	Present bool `yaml:"present"`
	// PlayspaceWidth and PlayspaceDepth size the reported bounds. Zero
	// means unknown.
	PlayspaceWidth float32 `yaml:"playspace_width"`
	PlayspaceDepth float32 `yaml:"playspace_depth"`
}

func DefaultConfig() Config {
	return Config{Present: true, PlayspaceWidth: 2, PlayspaceDepth: 1.5}
}

var _ backend.Backend = (*Backend)(nil)

type Backend struct {
	*backend.Base
	cfg   Config
	frame tracking.PoseFrame
}

func New(cfg Config, bcfg backend.Config, logger log.Log) *Backend {
	b := &Backend{
		Base:  backend.NewBase(backend.KindMock, bcfg, logger),
		cfg:   cfg,
		frame: StandingFrame(),
	}
	b.SetPoller(b.poll)
	return b
}

// StandingFrame is a player standing at the origin with hands in front.
func StandingFrame() tracking.PoseFrame {
	id := tracking.IdentityQuat()
	return tracking.PoseFrame{
		Head:       tracking.NewPose(math32.Vec3(0, 1.7, 0), id),
		Left:       tracking.NewPose(math32.Vec3(-0.2, 1.2, -0.3), id),
		Right:      tracking.NewPose(math32.Vec3(0.2, 1.2, -0.3), id),
		HeadValid:  true,
		LeftValid:  true,
		RightValid: true,
	}
}

func (b *Backend) IsHmdPresent() bool { return b.cfg.Present }

func (b *Backend) GetPlayspaceBounds() math32.Vector3 {
	if !b.IsInit() || b.cfg.PlayspaceWidth <= 0 || b.cfg.PlayspaceDepth <= 0 {
		return math32.Vector3{}
	}
	return math32.Vec3(b.cfg.PlayspaceWidth, 1, b.cfg.PlayspaceDepth)
}

// SetFrame replaces the frame replayed on every following tick.
func (b *Backend) SetFrame(f tracking.PoseFrame) { b.frame = f }

// ScriptedFrame returns the frame being replayed.
func (b *Backend) ScriptedFrame() tracking.PoseFrame { return b.frame }

// SetHand moves one scripted hand.
func (b *Backend) SetHand(side tracking.Side, p tracking.Pose) {
	if side == tracking.Left {
		b.frame.Left, b.frame.LeftValid = p, true
		return
	}
	b.frame.Right, b.frame.RightValid = p, true
}

func (b *Backend) poll() {
	b.DeliverFrame(b.frame)
}
