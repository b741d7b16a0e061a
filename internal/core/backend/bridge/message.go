package bridge

import (
	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// Message types sent by a companion tracker.
const (
	TypeHello  = "hello"
	TypePose   = "pose"
	TypeBounds = "bounds"
)

// Message is one JSON frame from the tracker. A pose message leaves a
// device nil when it is not tracked.
type Message struct {
	Type   string      `json:"type"`
	Device string      `json:"device,omitempty"`
	Head   *WirePose   `json:"head,omitempty"`
	Left   *WirePose   `json:"left,omitempty"`
	Right  *WirePose   `json:"right,omitempty"`
	Bounds *[2]float32 `json:"bounds,omitempty"`
}

// WirePose is a position and an x, y, z, w quaternion.
type WirePose struct {
	Pos [3]float32 `json:"pos"`
	Rot [4]float32 `json:"rot"`
}

func FromPose(p tracking.Pose) *WirePose {
	return &WirePose{
		Pos: [3]float32{p.Pos.X, p.Pos.Y, p.Pos.Z},
		Rot: [4]float32{p.Rot.X, p.Rot.Y, p.Rot.Z, p.Rot.W},
	}
}

func (w *WirePose) pose() (tracking.Pose, bool) {
	if w == nil {
		return tracking.IdentityPose(), false
	}
	return tracking.NewPose(
		math32.Vec3(w.Pos[0], w.Pos[1], w.Pos[2]),
		math32.NewQuat(w.Rot[0], w.Rot[1], w.Rot[2], w.Rot[3]),
	), true
}

// Frame converts a pose message into a tracking frame.
func (m Message) Frame() tracking.PoseFrame {
	var f tracking.PoseFrame
	f.Head, f.HeadValid = m.Head.pose()
	f.Left, f.LeftValid = m.Left.pose()
	f.Right, f.RightValid = m.Right.pose()
	return f
}
