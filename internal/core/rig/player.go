// Package rig composes the tracked head and hands with the live backend
// into the player the rest of a session talks to.
package rig

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/backend"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// HandDevice is what the player needs from a hand.
type HandDevice interface {
	Side() tracking.Side
	Tracker() *tracking.Tracker
	Colliders() []*physics.Collider
	IsInputDeviceInitialized() bool
}

// Config holds the playspace preview settings.
type Config struct {
	// PlayspaceOverride makes the preview ignore the backend bounds.
	PlayspaceOverride bool `yaml:"playspace_override"`
	// PlayspaceDefault is the preview width and depth used when the
	// backend does not know its bounds.
	PlayspaceDefault [2]float32 `yaml:"playspace_default"`
}

func DefaultConfig() Config {
	return Config{PlayspaceDefault: [2]float32{2, 1.5}}
}

var _ backend.Rig = (*Player)(nil)

// Player owns the head, both hands and the backend. The backend is torn
// down with the player.
type Player struct {
	head        *tracking.Tracker
	left, right HandDevice
	backend     backend.Backend
	cfg         Config
	logger      log.Log

	handByCollider map[*physics.Collider]HandDevice

	poseSub    backend.ListenerID
	subscribed bool
	closed     bool
}

func NewPlayer(head *tracking.Tracker, left, right HandDevice, b backend.Backend, cfg Config, logger log.Log) (*Player, error) {
	switch {
	case head == nil:
		return nil, ErrMissingHead
	case left == nil || right == nil || left.Tracker() == nil || right.Tracker() == nil:
		return nil, ErrMissingHand
	case b == nil:
		return nil, ErrMissingBackend
	}
	if left.Side() != tracking.Left || right.Side() != tracking.Right {
		return nil, fmt.Errorf("%w: got %s and %s", ErrMissingHand, left.Side(), right.Side())
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Player{
		head:           head,
		left:           left,
		right:          right,
		backend:        b,
		cfg:            cfg,
		logger:         logger.Named("player"),
		handByCollider: make(map[*physics.Collider]HandDevice),
	}, nil
}

func (p *Player) Head() *tracking.Tracker      { return p.head }
func (p *Player) LeftHand() *tracking.Tracker  { return p.left.Tracker() }
func (p *Player) RightHand() *tracking.Tracker { return p.right.Tracker() }

// Hands returns the hands in tick order, left first.
func (p *Player) Hands() []HandDevice { return []HandDevice{p.left, p.right} }

func (p *Player) Backend() backend.Backend { return p.backend }

// Initialize maps the hand colliders, subscribes to new poses and starts
// the backend bring-up. Ready is signalled through the backend's
// initialized listeners.
func (p *Player) Initialize() error {
	if p.closed {
		return ErrClosed
	}
	for _, h := range p.Hands() {
		p.RegisterHand(h)
	}
	if !p.subscribed {
		p.poseSub = p.backend.RegisterNewPoseCallback(p.refresh)
		p.subscribed = true
	}
	if err := p.backend.Initialize(p); err != nil {
		return fmt.Errorf("initialize %s backend: %w", p.backend.Kind(), err)
	}
	p.logger.Info("backend bring-up started", log.String("backend", string(p.backend.Kind())))
	return nil
}

// refresh resolves the tracking-space poses against the rig origin.
func (p *Player) refresh() {
	origin := p.backend.GetOrigin()
	p.head.Refresh(origin)
	p.left.Tracker().Refresh(origin)
	p.right.Tracker().Refresh(origin)
}

// RegisterHand maps every collider of h to it. A collider already mapped
// keeps its first owner.
func (p *Player) RegisterHand(h HandDevice) {
	for _, c := range h.Colliders() {
		if _, ok := p.handByCollider[c]; !ok {
			p.handByCollider[c] = h
		}
	}
}

// GetHand returns the hand owning c.
func (p *Player) GetHand(c *physics.Collider) (HandDevice, bool) {
	h, ok := p.handByCollider[c]
	return h, ok
}

// PlayspaceSize is the backend's playspace bounds, zero when unknown.
func (p *Player) PlayspaceSize() math32.Vector3 {
	return p.backend.GetPlayspaceBounds()
}

// PreviewScale is the extent a boundary preview should draw: the backend
// bounds, or the configured default when they are unknown or overridden.
// Height is always 1.
func (p *Player) PreviewScale() math32.Vector3 {
	size := math32.Vector3{}
	if !p.cfg.PlayspaceOverride {
		size = p.PlayspaceSize()
	}
	if size == (math32.Vector3{}) {
		size = math32.Vec3(p.cfg.PlayspaceDefault[0], 0, p.cfg.PlayspaceDefault[1])
	}
	size.Y = 1
	return size
}

// NumInitializedInputDevices counts the hands whose controller reports
// ready.
func (p *Player) NumInitializedInputDevices() int {
	n := 0
	for _, h := range p.Hands() {
		if h.IsInputDeviceInitialized() {
			n++
		}
	}
	return n
}

func (p *Player) IsIntegrationInitialized() bool { return p.backend.IsInit() }

// MoveTo places the rig origin and re-resolves the trackers.
func (p *Player) MoveTo(pos math32.Vector3, rot math32.Quat) {
	p.backend.MoveRigTo(pos, rot)
	if p.backend.IsInit() {
		p.refresh()
	}
}

// Close tears the backend down. Closing twice is a no-op.
func (p *Player) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.subscribed {
		p.backend.DeregisterNewPoseCallback(p.poseSub)
		p.subscribed = false
	}
	p.backend.DeInitialize()
	p.logger.Info("player closed", log.String("backend", string(p.backend.Kind())))
}

func (p *Player) Closed() bool { return p.closed }
