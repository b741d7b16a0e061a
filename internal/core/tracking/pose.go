// Package tracking holds the spatial types shared by backends, the player rig
// and the interaction layer: poses, transforms and tracked devices.
package tracking

import (
	"cogentcore.org/core/math32"
)

// Side identifies a hand. Iteration over hands is always Left then Right.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Eye selects one of the two HMD views.
type Eye uint8

const (
	EyeLeft Eye = iota
	EyeRight
)

func (e Eye) String() string {
	if e == EyeRight {
		return "right"
	}
	return "left"
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() math32.Quat {
	return math32.NewQuat(0, 0, 0, 1)
}

// NormalizeQuat returns q normalized, treating the zero quaternion as identity.
func NormalizeQuat(q math32.Quat) math32.Quat {
	if q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0 {
		return IdentityQuat()
	}
	q.Normalize()
	return q
}

// Conjugate is the inverse of a unit quaternion.
func Conjugate(q math32.Quat) math32.Quat {
	return math32.NewQuat(-q.X, -q.Y, -q.Z, q.W)
}

// MulQuat returns a*b: rotate by b, then by a.
func MulQuat(a, b math32.Quat) math32.Quat {
	return a.Mul(b)
}

// ToAngleAxis decomposes a unit quaternion into an angle in radians within
// [0, 2pi) and a unit axis. A near-identity rotation returns a zero angle and
// the X axis.
func ToAngleAxis(q math32.Quat) (float32, math32.Vector3) {
	q = NormalizeQuat(q)
	w := q.W
	if w > 1 {
		w = 1
	} else if w < -1 {
		w = -1
	}
	angle := 2 * math32.Acos(w)
	s := math32.Sqrt(1 - w*w)
	if s < 1e-5 {
		return 0, math32.Vec3(1, 0, 0)
	}
	return angle, math32.Vec3(q.X/s, q.Y/s, q.Z/s)
}

// AngleDeg is the smallest angle in degrees between two rotations.
func AngleDeg(a, b math32.Quat) float32 {
	a = NormalizeQuat(a)
	b = NormalizeQuat(b)
	dot := math32.Abs(a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W)
	if dot > 1 {
		dot = 1
	}
	return math32.RadToDeg(2 * math32.Acos(dot))
}

// Pose is a rigid position and orientation.
type Pose struct {
	Pos math32.Vector3
	Rot math32.Quat
}

// IdentityPose is the origin with no rotation.
func IdentityPose() Pose {
	return Pose{Rot: IdentityQuat()}
}

// NewPose builds a pose, normalizing the rotation.
func NewPose(pos math32.Vector3, rot math32.Quat) Pose {
	return Pose{Pos: pos, Rot: NormalizeQuat(rot)}
}

// Mul composes p with a child pose expressed in p's frame.
func (p Pose) Mul(child Pose) Pose {
	rot := NormalizeQuat(p.Rot)
	crot := NormalizeQuat(child.Rot)
	return Pose{
		Pos: p.Pos.Add(child.Pos.MulQuat(rot)),
		Rot: MulQuat(rot, crot),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := Conjugate(NormalizeQuat(p.Rot))
	return Pose{
		Pos: p.Pos.Negate().MulQuat(inv),
		Rot: inv,
	}
}

// TransformPoint maps a point from p's local frame into the parent frame.
func (p Pose) TransformPoint(v math32.Vector3) math32.Vector3 {
	return p.Pos.Add(v.MulQuat(NormalizeQuat(p.Rot)))
}

// InverseTransformPoint maps a parent-frame point into p's local frame.
func (p Pose) InverseTransformPoint(v math32.Vector3) math32.Vector3 {
	return v.Sub(p.Pos).MulQuat(Conjugate(NormalizeQuat(p.Rot)))
}

// Transform is a pose with a scale, used for the rig origin.
type Transform struct {
	Pose
	Scale math32.Vector3
}

// IdentityTransform has unit scale and no offset.
func IdentityTransform() Transform {
	return Transform{Pose: IdentityPose(), Scale: math32.Vec3(1, 1, 1)}
}

// Apply maps a pose in this transform's space into the parent space.
func (t Transform) Apply(local Pose) Pose {
	scale := t.Scale
	if scale == (math32.Vector3{}) {
		scale = math32.Vec3(1, 1, 1)
	}
	scaled := Pose{Pos: local.Pos.Mul(scale), Rot: local.Rot}
	return t.Pose.Mul(scaled)
}
