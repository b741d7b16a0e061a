package physics

import (
	"math"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// State contains the dynamic state of a body: pose and velocities.
type State struct {

	// position of center of mass
	Pos math32.Vector3

	// rotation specified as a Quat
	Quat math32.Quat

	// linear velocity
	LinVel math32.Vector3

	// angular velocity, radians per second about each world axis
	AngVel math32.Vector3
}

// Defaults sets the rotation to identity if unset.
func (ps *State) Defaults() {
	ps.Quat = tracking.NormalizeQuat(ps.Quat)
}

// Pose returns the position and rotation.
func (ps *State) Pose() tracking.Pose {
	return tracking.NewPose(ps.Pos, ps.Quat)
}

// AngMotionMax is maximum angular motion that can be taken per update
const AngMotionMax = math.Pi / 4

// StepByAngVel steps the Quat rotation from angular velocity
func (ps *State) StepByAngVel(step float32) {
	ang := math32.Sqrt(ps.AngVel.Dot(ps.AngVel))

	// limit the angular motion
	if ang*step > AngMotionMax {
		ang = AngMotionMax / step
	}
	if ang < 1e-6 {
		return
	}
	axis := ps.AngVel.DivScalar(math32.Sqrt(ps.AngVel.Dot(ps.AngVel)))
	dq := math32.NewQuatAxisAngle(axis, ang*step)
	ps.Quat = tracking.NormalizeQuat(tracking.MulQuat(dq, tracking.NormalizeQuat(ps.Quat)))
}

// StepByLinVel steps the Pos from the linear velocity
func (ps *State) StepByLinVel(step float32) {
	ps.Pos = ps.Pos.Add(ps.LinVel.MulScalar(step))
}
