package backend

import "github.com/zeusync/grasp/internal/core/tracking"

// TrackerRig is a Rig made of three bare trackers. It serves headless
// tools and tests that need a rig without a player.
type TrackerRig struct {
	head, left, right *tracking.Tracker
}

func NewTrackerRig() *TrackerRig {
	return &TrackerRig{
		head:  tracking.NewTracker("head"),
		left:  tracking.NewTracker("left"),
		right: tracking.NewTracker("right"),
	}
}

func (r *TrackerRig) Head() *tracking.Tracker      { return r.head }
func (r *TrackerRig) LeftHand() *tracking.Tracker  { return r.left }
func (r *TrackerRig) RightHand() *tracking.Tracker { return r.right }
