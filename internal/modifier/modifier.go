// Package modifier turns raw modifier-flag snapshots into key transitions.
package modifier

import "github.com/tinyrange/plugview/internal/event"

// Flags is a raw modifier bitmask using the NSEventModifierFlags layout.
// https://developer.apple.com/documentation/appkit/nseventmodifierflags
type Flags uint64

const (
	Shift   Flags = 1 << 17
	Control Flags = 1 << 18
	Option  Flags = 1 << 19
	Command Flags = 1 << 20
)

// Scan codes reported for the synthesised transitions (macOS kVK_* values
// of the left-hand keys).
const (
	scanShift   = 0x38
	scanControl = 0x3b
	scanCommand = 0x37
	scanOption  = 0x3a
)

// Latch holds the last observed state of the tracked modifiers. The zero
// value has every modifier released. Each window owns its own Latch.
type Latch struct {
	Shift bool
	Ctrl  bool
	Meta  bool
	Alt   bool
}

type tracked struct {
	flag Flags
	scan uint8
	key  event.VirtualKey
	get  func(*Latch) *bool
}

// Emission order is fixed.
var order = [...]tracked{
	{Shift, scanShift, event.LShift, func(l *Latch) *bool { return &l.Shift }},
	{Control, scanControl, event.LControl, func(l *Latch) *bool { return &l.Ctrl }},
	{Command, scanCommand, event.LWin, func(l *Latch) *bool { return &l.Meta }},
	{Option, scanOption, event.LAlt, func(l *Latch) *bool { return &l.Alt }},
}

// Update compares flags against the latch, flips every modifier whose bit
// changed and returns one KeyboardInput per flip. Raw flags do not tell left
// from right, so the left-hand key is always reported.
func (l *Latch) Update(flags Flags) []event.Event {
	var out []event.Event
	for _, m := range order {
		latched := m.get(l)
		down := flags&m.flag != 0
		if down == *latched {
			continue
		}
		*latched = down
		state := event.Released
		if down {
			state = event.Pressed
		}
		out = append(out, event.Key(state, m.scan, m.key))
	}
	return out
}

// Flags returns the latch encoded as a raw bitmask.
func (l Latch) Flags() Flags {
	var f Flags
	if l.Shift {
		f |= Shift
	}
	if l.Ctrl {
		f |= Control
	}
	if l.Meta {
		f |= Command
	}
	if l.Alt {
		f |= Option
	}
	return f
}

// Reset releases every modifier without emitting events.
func (l *Latch) Reset() {
	*l = Latch{}
}
