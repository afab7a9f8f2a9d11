// Package event defines the platform-independent event vocabulary that
// native window notifications are normalised into.
package event

import "fmt"

// Event is one unified input event. The concrete types below are the only
// implementations.
type Event interface {
	isEvent()
}

// ElementState represents the state of a key or mouse button.
type ElementState uint8

const (
	Pressed ElementState = iota
	Released
)

func (s ElementState) String() string {
	switch s {
	case Pressed:
		return "Pressed"
	case Released:
		return "Released"
	default:
		return fmt.Sprintf("ElementState(%d)", uint8(s))
	}
}

// MouseButton identifies a mouse button. Values above ButtonMiddle are
// additional buttons numbered by the platform.
type MouseButton uint8

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	default:
		return fmt.Sprintf("Other(%d)", uint8(b))
	}
}

// TouchPhase describes where a continuous gesture is in its lifetime.
type TouchPhase uint8

const (
	PhaseStarted TouchPhase = iota
	PhaseMoved
	PhaseEnded
	PhaseCancelled
)

func (p TouchPhase) String() string {
	switch p {
	case PhaseStarted:
		return "Started"
	case PhaseMoved:
		return "Moved"
	case PhaseEnded:
		return "Ended"
	case PhaseCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("TouchPhase(%d)", uint8(p))
	}
}

// ScrollDelta is a scroll amount. Lines are used for notched wheels, pixels
// for precise devices such as trackpads.
type ScrollDelta struct {
	Pixels bool
	X      float32
	Y      float32
}

func (d ScrollDelta) String() string {
	if d.Pixels {
		return fmt.Sprintf("PixelDelta(%g, %g)", d.X, d.Y)
	}
	return fmt.Sprintf("LineDelta(%g, %g)", d.X, d.Y)
}

// MouseInput is a mouse button transition.
type MouseInput struct {
	State  ElementState
	Button MouseButton
}

// MouseMoved reports the cursor position in top-left origin pixel units.
type MouseMoved struct {
	X int32
	Y int32
}

// MouseEntered is sent when the cursor enters the window.
type MouseEntered struct{}

// MouseLeft is sent when the cursor leaves the window.
type MouseLeft struct{}

// MouseWheel is a scroll wheel or trackpad scroll.
type MouseWheel struct {
	Delta ScrollDelta
	Phase TouchPhase
}

// KeyboardInput is a key transition. ScanCode is the raw platform code;
// Key is only meaningful when HasKey is set.
type KeyboardInput struct {
	State    ElementState
	ScanCode uint8
	Key      VirtualKey
	HasKey   bool
}

// ReceivedCharacter carries one decoded Unicode scalar of text input.
type ReceivedCharacter struct {
	Char rune
}

// TouchpadPressure reports force-touch pressure and click stage.
type TouchpadPressure struct {
	Pressure float32
	Stage    int64
}

// Awakened is produced when a Proxy wakes a waiting consumer.
type Awakened struct{}

func (MouseInput) isEvent()        {}
func (MouseMoved) isEvent()        {}
func (MouseEntered) isEvent()      {}
func (MouseLeft) isEvent()         {}
func (MouseWheel) isEvent()        {}
func (KeyboardInput) isEvent()     {}
func (ReceivedCharacter) isEvent() {}
func (TouchpadPressure) isEvent()  {}
func (Awakened) isEvent()          {}

func (e MouseInput) String() string {
	return fmt.Sprintf("MouseInput(%s, %s)", e.State, e.Button)
}

func (e MouseMoved) String() string {
	return fmt.Sprintf("MouseMoved(%d, %d)", e.X, e.Y)
}

func (MouseEntered) String() string { return "MouseEntered" }
func (MouseLeft) String() string    { return "MouseLeft" }

func (e MouseWheel) String() string {
	return fmt.Sprintf("MouseWheel(%s, %s)", e.Delta, e.Phase)
}

func (e KeyboardInput) String() string {
	if !e.HasKey {
		return fmt.Sprintf("KeyboardInput(%s, %#02x, None)", e.State, e.ScanCode)
	}
	return fmt.Sprintf("KeyboardInput(%s, %#02x, %s)", e.State, e.ScanCode, e.Key)
}

func (e ReceivedCharacter) String() string {
	return fmt.Sprintf("ReceivedCharacter(%q)", e.Char)
}

func (e TouchpadPressure) String() string {
	return fmt.Sprintf("TouchpadPressure(%g, %d)", e.Pressure, e.Stage)
}

func (Awakened) String() string { return "Awakened" }

// Key builds a KeyboardInput for a mapped key.
func Key(state ElementState, scanCode uint8, key VirtualKey) KeyboardInput {
	return KeyboardInput{State: state, ScanCode: scanCode, Key: key, HasKey: true}
}
