package backend

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// Config holds the geometry and timing every backend shares.
type Config struct {
	// IPD is the interpupillary distance in meters.
	IPD float32 `yaml:"ipd"`
	// FOV is the vertical field of view in degrees.
	FOV float32 `yaml:"fov"`
	// Aspect is the per-eye width over height.
	Aspect float32 `yaml:"aspect"`
	// InitFrames is how many Update ticks bring-up takes.
	InitFrames int `yaml:"init_frames"`
}

func DefaultConfig() Config {
	return Config{
		IPD:        0.064,
		FOV:        100,
		Aspect:     0.9,
		InitFrames: 1,
	}
}

var _ Backend = (*Base)(nil)

// Base implements the parts of Backend that do not depend on a native
// runtime: the bring-up state machine, listener lists, deferred callbacks,
// rig origin, software recentering and eye geometry. Implementations embed
// *Base and override what their runtime provides.
type Base struct {
	kind   Kind
	cfg    Config
	logger log.Log

	state State
	rig   Rig

	origin   tracking.Transform
	recenter tracking.Pose

	last     tracking.PoseFrame
	haveLast bool

	frame   uint64
	pending deferredQueue
	poller  func()

	onInit listeners
	onPose listeners
	onFail listeners
	err    error
}

func NewBase(kind Kind, cfg Config, logger log.Log) *Base {
	if cfg.InitFrames < 1 {
		cfg.InitFrames = 1
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Base{
		kind:     kind,
		cfg:      cfg,
		logger:   logger.With(log.String("backend", string(kind))),
		origin:   tracking.IdentityTransform(),
		recenter: tracking.IdentityPose(),
	}
}

func (b *Base) Kind() Kind { return b.kind }

func (b *Base) State() State { return b.state }

func (b *Base) IsInit() bool { return b.state == StateReady }

func (b *Base) Config() Config { return b.cfg }

func (b *Base) Logger() log.Log { return b.logger }

// Rig returns the rig passed to Initialize, nil before.
func (b *Base) Rig() Rig { return b.rig }

// Frame counts Update calls.
func (b *Base) Frame() uint64 { return b.frame }

// Initialize starts a bring-up that completes after Config.InitFrames ticks.
func (b *Base) Initialize(rig Rig) error {
	if err := b.Begin(rig); err != nil {
		return err
	}
	b.CompleteAfter(b.cfg.InitFrames, nil)
	return nil
}

// Begin validates the rig and enters StateInitializing. Implementations
// call it first from their own Initialize, then either CompleteAfter or,
// when an external signal ends bring-up, Complete.
func (b *Base) Begin(rig Rig) error {
	if b.state == StateInitializing || b.state == StateReady {
		return ErrAlreadyInitialized
	}
	if rig == nil || rig.Head() == nil || rig.LeftHand() == nil || rig.RightHand() == nil {
		return ErrIncompleteRig
	}
	b.rig = rig
	b.state = StateInitializing
	b.err = nil
	b.haveLast = false
	b.logger.Info("backend initializing", log.Int("init_frames", b.cfg.InitFrames))
	return nil
}

// CompleteAfter finishes bring-up on the given Update tick from now. A
// non-nil ready hook runs first; if it fails bring-up is abandoned and the
// backend returns to StateUninitialized without firing the event.
func (b *Base) CompleteAfter(frames int, ready func() error) {
	if frames < 1 {
		frames = 1
	}
	b.After(frames, func() {
		if b.state != StateInitializing {
			return
		}
		if ready != nil {
			if err := ready(); err != nil {
				b.Fail(err)
				return
			}
		}
		b.Complete()
	})
}

// Complete moves an initializing backend to StateReady and fires the
// Initialized listeners. In any other state it does nothing.
func (b *Base) Complete() {
	if b.state != StateInitializing {
		return
	}
	b.state = StateReady
	b.logger.Info("backend initialized", log.Uint64("frame", b.frame))
	b.onInit.fire()
}

// Fail abandons bring-up and notifies the failure listeners.
func (b *Base) Fail(err error) {
	b.pending.clear()
	b.state = StateUninitialized
	b.err = err
	b.logger.Warn("backend bring-up failed", log.Error(err))
	b.onFail.fire()
}

// Err is the error of the last failed bring-up.
func (b *Base) Err() error { return b.err }

// DeInitialize cancels pending work and tears the backend down. A backend
// that was never initialized is left untouched.
func (b *Base) DeInitialize() {
	if b.state == StateUninitialized || b.state == StateTornDown {
		return
	}
	prev := b.state
	b.pending.clear()
	b.state = StateTornDown
	b.haveLast = false
	b.logger.Info("backend torn down", log.Stringer("from", prev))
}

// After runs fn on the Update tick frames ticks from now.
func (b *Base) After(frames int, fn func()) {
	if frames < 1 {
		frames = 1
	}
	b.pending.schedule(b.frame+uint64(frames), fn)
}

// Pending reports how many deferred callbacks are queued.
func (b *Base) Pending() int { return b.pending.len() }

// SetPoller installs a per-tick hook that runs in Update while ready.
// Backends without a native pose callback use it to pull a frame.
func (b *Base) SetPoller(fn func()) { b.poller = fn }

func (b *Base) IsHmdPresent() bool { return false }

func (b *Base) GetPlayspaceBounds() math32.Vector3 { return math32.Vector3{} }

func (b *Base) RegisterNewPoseCallback(cb func()) ListenerID { return b.onPose.add(cb) }

func (b *Base) DeregisterNewPoseCallback(id ListenerID) { b.onPose.remove(id) }

func (b *Base) AddOnInitializedListener(cb func()) ListenerID { return b.onInit.add(cb) }

func (b *Base) RemoveOnInitializedListener(id ListenerID) { b.onInit.remove(id) }

func (b *Base) AddOnFailedListener(cb func(err error)) ListenerID {
	if cb == nil {
		return b.onFail.add(nil)
	}
	return b.onFail.add(func() { cb(b.err) })
}

func (b *Base) RemoveOnFailedListener(id ListenerID) { b.onFail.remove(id) }

// PoseListeners reports how many new-pose callbacks are registered.
func (b *Base) PoseListeners() int { return b.onPose.len() }

func (b *Base) MoveRig(origin tracking.Transform) {
	if b.rig == nil {
		return
	}
	if origin.Scale == (math32.Vector3{}) {
		origin.Scale = math32.Vec3(1, 1, 1)
	}
	origin.Pose = tracking.NewPose(origin.Pos, origin.Rot)
	b.origin = origin
}

func (b *Base) MoveRigTo(pos math32.Vector3, rot math32.Quat) {
	b.MoveRig(tracking.Transform{Pose: tracking.NewPose(pos, rot), Scale: b.origin.Scale})
}

func (b *Base) GetOrigin() tracking.Transform { return b.origin }

// GetEyeOffset is the eye position relative to the head.
func (b *Base) GetEyeOffset(eye tracking.Eye) math32.Vector3 {
	half := b.cfg.IPD / 2
	if eye == tracking.EyeLeft {
		return math32.Vec3(-half, 0, 0)
	}
	return math32.Vec3(half, 0, 0)
}

// GetEyeProjectionMatrix builds a symmetric perspective projection for the
// requested clip planes.
func (b *Base) GetEyeProjectionMatrix(_ tracking.Eye, near, far float32) math32.Matrix4 {
	var m math32.Matrix4
	m.SetPerspective(b.cfg.FOV, b.cfg.Aspect, near, far)
	return m
}

// Recenter makes the current head position the tracking origin on the
// floor plane and its heading the forward direction. Height is kept.
func (b *Base) Recenter() {
	if !b.haveLast {
		b.recenter = tracking.IdentityPose()
		return
	}
	head := b.last.Head
	fwd := math32.Vec3(0, 0, -1).MulQuat(tracking.NormalizeQuat(head.Rot))
	yaw := math32.Atan2(-fwd.X, -fwd.Z)
	heading := tracking.Pose{
		Pos: math32.Vec3(head.Pos.X, 0, head.Pos.Z),
		Rot: math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), yaw),
	}
	b.recenter = heading.Inverse()
	b.logger.Debug("recentered", log.Float32("yaw_deg", math32.RadToDeg(yaw)))
	if b.state == StateReady {
		b.apply(b.last)
		b.onPose.fire()
	}
}

// Update advances the tick counter, runs due deferred callbacks and, while
// ready, the poller.
func (b *Base) Update() {
	b.frame++
	b.pending.runDue(b.frame)
	if b.state == StateReady && b.poller != nil {
		b.poller()
	}
}

// DeliverFrame writes a raw tracking sample to the rig and fires the
// new-pose callbacks. Frames arriving before the backend is ready are
// dropped and DeliverFrame returns false.
func (b *Base) DeliverFrame(f tracking.PoseFrame) bool {
	if b.state != StateReady {
		return false
	}
	b.last = f
	b.haveLast = true
	b.apply(f)
	b.onPose.fire()
	return true
}

func (b *Base) apply(f tracking.PoseFrame) {
	b.rig.Head().SetLocal(b.recenter.Mul(f.Head), f.HeadValid)
	b.rig.LeftHand().SetLocal(b.recenter.Mul(f.Left), f.LeftValid)
	b.rig.RightHand().SetLocal(b.recenter.Mul(f.Right), f.RightValid)
}
