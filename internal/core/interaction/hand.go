package interaction

import (
	"slices"

	"cogentcore.org/core/math32"
	"github.com/zeusync/grasp/internal/core/events"
	"github.com/zeusync/grasp/internal/core/observability/log"
	"github.com/zeusync/grasp/internal/core/systems/physics"
	"github.com/zeusync/grasp/internal/core/tracking"
)

// HandConfig tunes a hand.
type HandConfig struct {
	Style InteractionStyle `yaml:"interaction_style"`
	// VelocityHistorySteps is how many fixed ticks the throw estimate spans.
	VelocityHistorySteps int `yaml:"velocity_history_steps"`
	// TriggerRadius sizes the grab volume around the tracked point.
	TriggerRadius float32 `yaml:"trigger_radius"`
}

func DefaultHandConfig() HandConfig {
	return HandConfig{Style: Hold, VelocityHistorySteps: 3, TriggerRadius: 0.05}
}

type hover struct {
	target Interactable
	since  float32
}

type sample struct {
	pos math32.Vector3
	rot math32.Quat
	dt  float32
}

// Hand turns button edges and proximity into attach and detach calls. The
// hand owns a kinematic trigger body that follows its tracker.
type Hand struct {
	side    tracking.Side
	tracker *tracking.Tracker
	input   InputDevice
	cfg     HandConfig
	body    *physics.Body
	logger  log.Log

	scene   *Scene
	current Interactable
	hovered []hover

	hold, use ButtonState

	history []sample
}

func NewHand(side tracking.Side, tracker *tracking.Tracker, input InputDevice, cfg HandConfig, logger log.Log) *Hand {
	if cfg.VelocityHistorySteps < 2 {
		cfg.VelocityHistorySteps = 2
	}
	if cfg.TriggerRadius <= 0 {
		cfg.TriggerRadius = DefaultHandConfig().TriggerRadius
	}
	if logger == nil {
		logger = log.NewNop()
	}
	body := physics.NewBody(side.String()+"_hand", 1)
	body.Kinematic = true
	body.UseGravity = false
	body.AddCollider(physics.NewSphereTrigger(side.String()+"_grab", math32.Vector3{}, cfg.TriggerRadius))
	return &Hand{
		side:    side,
		tracker: tracker,
		input:   input,
		cfg:     cfg,
		body:    body,
		logger:  logger.With(log.Stringer("hand", side)),
	}
}

func (h *Hand) Side() tracking.Side { return h.side }

func (h *Hand) Tracker() *tracking.Tracker { return h.tracker }

func (h *Hand) Body() *physics.Body { return h.body }

func (h *Hand) Colliders() []*physics.Collider { return h.body.Colliders() }

func (h *Hand) Style() InteractionStyle { return h.cfg.Style }

func (h *Hand) SetStyle(s InteractionStyle) { h.cfg.Style = s }

func (h *Hand) IsInputDeviceInitialized() bool {
	return h.input != nil && h.input.IsInitialized()
}

// Position is the hand's world position.
func (h *Hand) Position() math32.Vector3 { return h.tracker.World().Pos }

func (h *Hand) Pose() tracking.Pose { return h.tracker.World() }

// CurrentlyInteracting is the held object, nil when empty.
func (h *Hand) CurrentlyInteracting() Interactable { return h.current }

func (h *Hand) IsInteracting() bool { return h.current != nil }

// Hovering returns the hovered objects in the order they were entered.
func (h *Hand) Hovering() []Interactable {
	out := make([]Interactable, len(h.hovered))
	for k, hv := range h.hovered {
		out[k] = hv.target
	}
	return out
}

func (h *Hand) HoldButtonDown() bool { return h.hold.PressDown }
func (h *Hand) HoldButtonUp() bool   { return h.hold.PressUp }
func (h *Hand) UseButtonDown() bool  { return h.use.PressDown }
func (h *Hand) UseButtonUp() bool    { return h.use.PressUp }

// Update runs on the presentation tick after poses were refreshed: it
// moves the grab volume, samples buttons, refreshes hover targets and then
// attaches or releases.
func (h *Hand) Update(dt float32) {
	h.body.SetPose(h.tracker.World())
	h.sampleInput()
	h.updateHover(dt)

	switch h.cfg.Style {
	case Toggle:
		if h.hold.PressDown {
			if h.current == nil {
				h.pickupClosest()
			} else {
				h.EndInteraction(nil)
			}
		}
	default:
		if h.hold.PressDown && h.current == nil {
			h.pickupClosest()
		}
		if h.hold.PressUp && h.current != nil {
			h.EndInteraction(nil)
		}
	}

	if h.current != nil {
		h.current.InteractingUpdate(h)
	}
	for _, hv := range slices.Clone(h.hovered) {
		hv.target.HoveringUpdate(h, hv.since)
	}
}

func (h *Hand) sampleInput() {
	h.hold, h.use = ButtonState{}, ButtonState{}
	if h.input == nil || !h.input.IsInitialized() {
		return
	}
	if s, ok := h.input.(Sampler); ok {
		s.Sample()
	}
	h.hold = h.input.Button(ButtonHold)
	h.use = h.input.Button(ButtonUse)
}

// updateHover diffs the interactables overlapping the grab volume against
// the last tick and fires grasp-target transitions.
func (h *Hand) updateHover(dt float32) {
	var found []Interactable
	if h.scene != nil {
		box := h.body.Bounds()
		for _, c := range h.scene.world.Overlapping(box, h.body, nil) {
			i, ok := h.scene.registry.Lookup(c)
			if !ok || i.Core().destroyed || slices.Contains(found, i) {
				continue
			}
			found = append(found, i)
		}
	}

	kept := h.hovered[:0]
	var left []Interactable
	for _, hv := range h.hovered {
		if slices.Contains(found, hv.target) {
			hv.since += dt
			kept = append(kept, hv)
			continue
		}
		left = append(left, hv.target)
	}
	h.hovered = kept
	for _, i := range left {
		i.GraspTargetEnd(h)
		h.scene.publish(events.GraspTargetEnd, i, h)
	}
	for _, i := range found {
		if h.isHovering(i) {
			continue
		}
		h.hovered = append(h.hovered, hover{target: i})
		i.GraspTargetBegin(h)
		h.scene.publish(events.GraspTargetBegin, i, h)
	}
}

func (h *Hand) isHovering(i Interactable) bool {
	return slices.ContainsFunc(h.hovered, func(hv hover) bool { return hv.target == i })
}

// pickupClosest attaches the free hovered object nearest the hand. Ties
// keep hover order. Objects held by the other hand are skipped.
func (h *Hand) pickupClosest() bool {
	pos := h.Position()
	var best Interactable
	bestDist := math32.Inf(1)
	for _, hv := range h.hovered {
		core := hv.target.Core()
		if core.attached != nil || !core.CanAttach {
			continue
		}
		if d := distanceToColliders(pos, core.colliders); d < bestDist {
			best, bestDist = hv.target, d
		}
	}
	if best == nil {
		return false
	}
	return h.BeginInteraction(best)
}

// BeginInteraction attaches i to the hand. A hand already holding
// something releases it first, unless i cannot be attached.
func (h *Hand) BeginInteraction(i Interactable) bool {
	if i == nil || i == h.current || !i.Core().Attachable() {
		return false
	}
	if h.current != nil {
		h.EndInteraction(nil)
	}
	if !i.BeginInteraction(h) {
		return false
	}
	h.current = i
	h.logger.Debug("attached", log.String("interactable", i.Core().Name))
	if h.scene != nil {
		h.scene.publish(events.InteractableAttached, i, h)
	}
	return true
}

// EndInteraction releases i, or whatever is held when i is nil.
func (h *Hand) EndInteraction(i Interactable) {
	if i == nil {
		i = h.current
	}
	if i == nil {
		return
	}
	if h.current == i {
		h.current = nil
	}
	if i.Core().attached == h {
		i.EndInteraction()
		h.logger.Debug("detached", log.String("interactable", i.Core().Name))
		if h.scene != nil {
			h.scene.publish(events.InteractableDetached, i, h)
		}
	}
}

// ForceRelease drops whatever the hand holds.
func (h *Hand) ForceRelease() { h.EndInteraction(nil) }

// DeregisterInteractable forgets i without touching its state.
func (h *Hand) DeregisterInteractable(i Interactable) {
	h.forget(i)
	h.hovered = slices.DeleteFunc(h.hovered, func(hv hover) bool { return hv.target == i })
}

func (h *Hand) forget(i Interactable) {
	if h.current == i {
		h.current = nil
	}
}

// recordMotion appends a fixed-tick sample to the velocity history.
func (h *Hand) recordMotion(dt float32) {
	p := h.tracker.World()
	h.history = append(h.history, sample{pos: p.Pos, rot: p.Rot, dt: dt})
	if n := len(h.history) - h.cfg.VelocityHistorySteps; n > 0 {
		h.history = slices.Delete(h.history, 0, n)
	}
}

// VelocityEstimate is the mean linear velocity over the history window.
func (h *Hand) VelocityEstimate() math32.Vector3 {
	first, last, span, ok := h.window()
	if !ok {
		return math32.Vector3{}
	}
	return last.pos.Sub(first.pos).DivScalar(span)
}

// AngularVelocityEstimate is the mean angular velocity in radians per
// second over the history window.
func (h *Hand) AngularVelocityEstimate() math32.Vector3 {
	first, last, span, ok := h.window()
	if !ok {
		return math32.Vector3{}
	}
	delta := tracking.MulQuat(last.rot, tracking.Conjugate(first.rot))
	angle, axis := tracking.ToAngleAxis(delta)
	if angle > math32.Pi {
		angle -= 2 * math32.Pi
	}
	return axis.MulScalar(angle / span)
}

func (h *Hand) window() (first, last sample, span float32, ok bool) {
	if len(h.history) < 2 {
		return sample{}, sample{}, 0, false
	}
	for _, s := range h.history[1:] {
		span += s.dt
	}
	if span <= 0 {
		return sample{}, sample{}, 0, false
	}
	return h.history[0], h.history[len(h.history)-1], span, true
}

func distanceToColliders(p math32.Vector3, colliders []*physics.Collider) float32 {
	best := math32.Inf(1)
	for _, c := range colliders {
		best = math32.Min(best, p.DistanceTo(c.ClosestPointOnBounds(p)))
	}
	return best
}
