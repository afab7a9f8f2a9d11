// Package translate converts decoded native notifications into unified
// events.
package translate

import (
	"math"

	"github.com/tinyrange/plugview/internal/event"
	"github.com/tinyrange/plugview/internal/modifier"
)

// Keymap maps a native key code to a VirtualKey.
type Keymap func(code uint16) (event.VirtualKey, bool)

// Forwarder hands a raw native event to the platform's default processing
// (input methods, key equivalents).
type Forwarder interface {
	Forward(ev NativeEvent)
}

// ForwarderFunc adapts a function to Forwarder.
type ForwarderFunc func(ev NativeEvent)

func (f ForwarderFunc) Forward(ev NativeEvent) { f(ev) }

// Translator translates native events for a single window. It is not safe
// for concurrent use; a window's notifications are delivered on one thread.
type Translator struct {
	Keymap    Keymap
	Forwarder Forwarder

	// Latch tracks modifier state for ClassFlagsChanged.
	Latch modifier.Latch
}

// Translate returns the unified events for ev, or nil when ev has no
// unified equivalent.
func (t *Translator) Translate(ev NativeEvent) []event.Event {
	switch ev.Class {
	case ClassLeftMouseDown:
		return one(event.MouseInput{State: event.Pressed, Button: event.ButtonLeft})
	case ClassLeftMouseUp:
		return one(event.MouseInput{State: event.Released, Button: event.ButtonLeft})
	case ClassRightMouseDown:
		return one(event.MouseInput{State: event.Pressed, Button: event.ButtonRight})
	case ClassRightMouseUp:
		return one(event.MouseInput{State: event.Released, Button: event.ButtonRight})
	case ClassOtherMouseDown:
		return one(event.MouseInput{State: event.Pressed, Button: otherButton(ev.ButtonNumber)})
	case ClassOtherMouseUp:
		return one(event.MouseInput{State: event.Released, Button: otherButton(ev.ButtonNumber)})

	case ClassMouseEntered:
		return one(event.MouseEntered{})
	case ClassMouseExited:
		return one(event.MouseLeft{})

	case ClassMouseMoved, ClassLeftMouseDragged, ClassRightMouseDragged, ClassOtherMouseDragged:
		return one(motion(ev))

	case ClassKeyDown:
		// Input methods must see the key before it is decoded.
		if t.Forwarder != nil {
			t.Forwarder.Forward(ev)
		}
		var out []event.Event
		for _, r := range ev.Characters {
			out = append(out, event.ReceivedCharacter{Char: r})
		}
		return append(out, t.key(event.Pressed, ev))
	case ClassKeyUp:
		return one(t.key(event.Released, ev))
	case ClassCharacter:
		var out []event.Event
		for _, r := range ev.Characters {
			out = append(out, event.ReceivedCharacter{Char: r})
		}
		return out
	case ClassFlagsChanged:
		return t.Latch.Update(ev.Flags)

	case ClassScrollWheel:
		return one(wheel(ev))
	case ClassPressure:
		return one(event.TouchpadPressure{Pressure: ev.Pressure, Stage: ev.Stage})

	case ClassApplicationDefined:
		if ev.Subtype == SubtypeWake {
			return one(event.Awakened{})
		}
		return nil
	}
	return nil
}

func one(ev event.Event) []event.Event {
	return []event.Event{ev}
}

func (t *Translator) key(state event.ElementState, ev NativeEvent) event.Event {
	out := event.KeyboardInput{State: state, ScanCode: ev.ScanCode}
	if t.Keymap != nil {
		out.Key, out.HasKey = t.Keymap(ev.KeyCode)
	}
	return out
}

func otherButton(n int) event.MouseButton {
	if n <= int(event.ButtonMiddle) || n > math.MaxUint8 {
		return event.ButtonMiddle
	}
	return event.MouseButton(n)
}

func scale(ev NativeEvent) float64 {
	if ev.Scale <= 0 {
		return 1
	}
	return ev.Scale
}

// motion converts a pointer location into top-left origin pixels.
func motion(ev NativeEvent) event.MouseMoved {
	s := scale(ev)
	y := ev.Y
	if ev.Origin == OriginBottomLeft {
		y = ev.ViewHeight - ev.Y
	}
	return event.MouseMoved{X: int32(ev.X * s), Y: int32(y * s)}
}

func wheel(ev NativeEvent) event.MouseWheel {
	s := float32(scale(ev))
	delta := event.ScrollDelta{
		Pixels: ev.Precise,
		X:      s * float32(ev.DeltaX),
		Y:      s * float32(ev.DeltaY),
	}
	var phase event.TouchPhase
	switch {
	case ev.Phase&(ScrollPhaseMayBegin|ScrollPhaseBegan) != 0:
		phase = event.PhaseStarted
	case ev.Phase&ScrollPhaseEnded != 0:
		phase = event.PhaseEnded
	default:
		phase = event.PhaseMoved
	}
	return event.MouseWheel{Delta: delta, Phase: phase}
}
