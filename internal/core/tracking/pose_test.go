package tracking

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-4

func assertVec(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol)
	assert.InDelta(t, want.Y, got.Y, tol)
	assert.InDelta(t, want.Z, got.Z, tol)
}

func yaw(deg float32) math32.Quat {
	return math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), math32.DegToRad(deg))
}

func TestPoseMulAndInverse(t *testing.T) {
	parent := NewPose(math32.Vec3(1, 0, 0), yaw(90))
	child := NewPose(math32.Vec3(0, 0, 1), IdentityQuat())

	world := parent.Mul(child)
	// +Z rotated 90 degrees about Y lands on +X.
	assertVec(t, math32.Vec3(2, 0, 0), world.Pos)

	back := parent.Inverse().Mul(world)
	assertVec(t, child.Pos, back.Pos)
	assert.InDelta(t, 0, AngleDeg(back.Rot, child.Rot), 0.01)
}

func TestTransformPointRoundTrip(t *testing.T) {
	p := NewPose(math32.Vec3(0, 2, -3), yaw(30))
	v := math32.Vec3(0.5, -1, 2)
	assertVec(t, v, p.InverseTransformPoint(p.TransformPoint(v)))
}

func TestAngleDeg(t *testing.T) {
	assert.InDelta(t, 0, AngleDeg(IdentityQuat(), math32.Quat{}), 0.01)
	assert.InDelta(t, 90, AngleDeg(IdentityQuat(), yaw(90)), 0.01)
	assert.InDelta(t, 90, AngleDeg(IdentityQuat(), yaw(-90)), 0.01)
}

func TestToAngleAxis(t *testing.T) {
	angle, axis := ToAngleAxis(yaw(60))
	assert.InDelta(t, math32.DegToRad(60), angle, tol)
	assertVec(t, math32.Vec3(0, 1, 0), axis)

	angle, _ = ToAngleAxis(IdentityQuat())
	assert.Zero(t, angle)
}

func TestTransformApplyScale(t *testing.T) {
	origin := IdentityTransform()
	origin.Pos = math32.Vec3(10, 0, 0)
	origin.Scale = math32.Vec3(2, 2, 2)

	w := origin.Apply(NewPose(math32.Vec3(1, 1, 0), IdentityQuat()))
	assertVec(t, math32.Vec3(12, 2, 0), w.Pos)
}

func TestTrackerKeepsLastPoseWhenLost(t *testing.T) {
	tr := NewTracker("left")
	tr.SetLocal(NewPose(math32.Vec3(0, 1, 0), IdentityQuat()), true)
	tr.SetLocal(NewPose(math32.Vec3(5, 5, 5), IdentityQuat()), false)

	assert.False(t, tr.Valid())
	assert.Equal(t, uint64(1), tr.Updates())
	assertVec(t, math32.Vec3(0, 1, 0), tr.Local().Pos)

	tr.Refresh(IdentityTransform())
	assertVec(t, math32.Vec3(0, 1, 0), tr.World().Pos)
}
