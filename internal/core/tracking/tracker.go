package tracking

// PoseFrame is one sample of every tracked device, in tracking space.
type PoseFrame struct {
	Head      Pose
	Left      Pose
	Right     Pose
	HeadValid bool
	LeftValid bool
	// RightValid reports whether the right controller is tracked this frame.
	RightValid bool
}

// Tracker is a tracked device: the HMD or a hand controller. Backends write
// the tracking-space pose, the player rig resolves it into world space.
type Tracker struct {
	name    string
	local   Pose
	world   Pose
	valid   bool
	updates uint64
}

func NewTracker(name string) *Tracker {
	return &Tracker{name: name, local: IdentityPose(), world: IdentityPose()}
}

func (t *Tracker) Name() string { return t.name }

// SetLocal stores a tracking-space pose. An invalid sample keeps the last
// known pose and marks the tracker as lost.
func (t *Tracker) SetLocal(p Pose, valid bool) {
	t.valid = valid
	if !valid {
		return
	}
	t.local = NewPose(p.Pos, p.Rot)
	t.updates++
}

func (t *Tracker) Local() Pose { return t.local }

func (t *Tracker) World() Pose { return t.world }

// SetWorld overrides the resolved pose. Used by simulations that drive the
// tracker directly instead of through a backend.
func (t *Tracker) SetWorld(p Pose) {
	t.world = NewPose(p.Pos, p.Rot)
}

// Refresh resolves the world pose against the rig origin.
func (t *Tracker) Refresh(origin Transform) {
	t.world = origin.Apply(t.local)
}

// Valid reports whether the last sample was tracked.
func (t *Tracker) Valid() bool { return t.valid }

// Updates counts the valid samples received so far.
func (t *Tracker) Updates() uint64 { return t.updates }
