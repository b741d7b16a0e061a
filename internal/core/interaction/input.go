package interaction

import (
	"fmt"
	"strings"
)

// Button is a logical controller button.
type Button uint8

const (
	// ButtonHold grabs and releases.
	ButtonHold Button = iota
	// ButtonUse is forwarded to the held object.
	ButtonUse
)

func (b Button) String() string {
	if b == ButtonUse {
		return "use"
	}
	return "hold"
}

// ButtonState is one button's edges and levels for the current tick.
type ButtonState struct {
	PressDown bool
	PressUp   bool
	TouchDown bool
	TouchUp   bool
	Pressed   bool
	Touched   bool
}

// InputDevice is the platform controller polling a hand reads. It is
// sampled once per presentation tick.
type InputDevice interface {
	IsInitialized() bool
	Button(b Button) ButtonState
}

// Sampler is implemented by devices that derive edges when sampled. A hand
// calls Sample once per tick before reading buttons.
type Sampler interface {
	Sample()
}

// InteractionStyle selects how the hold button maps to attachment.
type InteractionStyle uint8

const (
	// Hold keeps the object while the button is down.
	Hold InteractionStyle = iota
	// Toggle picks up on one press and releases on the next.
	Toggle
)

func (s InteractionStyle) String() string {
	if s == Toggle {
		return "toggle"
	}
	return "hold"
}

func (s InteractionStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *InteractionStyle) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "hold":
		*s = Hold
	case "toggle":
		*s = Toggle
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStyle, text)
	}
	return nil
}

// ScriptedInput is an InputDevice driven by code: press and release set
// the level, and edges are derived when the hand samples it.
var (
	_ InputDevice = (*ScriptedInput)(nil)
	_ Sampler     = (*ScriptedInput)(nil)
)

type ScriptedInput struct {
	initialized bool
	level       [2]ButtonState
	prev        [2]ButtonState
	latched     [2]ButtonState
}

func NewScriptedInput() *ScriptedInput {
	return &ScriptedInput{initialized: true}
}

func (s *ScriptedInput) SetInitialized(ok bool) { s.initialized = ok }

func (s *ScriptedInput) IsInitialized() bool { return s.initialized }

// Press sets the button down and touched.
func (s *ScriptedInput) Press(b Button) {
	s.level[b].Pressed = true
	s.level[b].Touched = true
}

// Release lets the button go.
func (s *ScriptedInput) Release(b Button) {
	s.level[b].Pressed = false
	s.level[b].Touched = false
}

// Sample computes this tick's edges.
func (s *ScriptedInput) Sample() {
	for i := range s.level {
		cur, prev := s.level[i], s.prev[i]
		s.latched[i] = ButtonState{
			PressDown: cur.Pressed && !prev.Pressed,
			PressUp:   !cur.Pressed && prev.Pressed,
			TouchDown: cur.Touched && !prev.Touched,
			TouchUp:   !cur.Touched && prev.Touched,
			Pressed:   cur.Pressed,
			Touched:   cur.Touched,
		}
		s.prev[i] = cur
	}
}

func (s *ScriptedInput) Button(b Button) ButtonState {
	if int(b) >= len(s.latched) {
		return ButtonState{}
	}
	return s.latched[b]
}
