// Package keycode maps native key codes to event.VirtualKey values.
//
// Native codes are not portable: each table here follows one platform's
// documented code space and must not be reused for another.
package keycode

import "github.com/tinyrange/plugview/internal/event"

const none = 0xff

// macTable is indexed by macOS virtual key code (kVK_*). Entries equal to
// none are reserved or have no cross-platform equivalent.
//
// Keycode reference:
// https://developer.apple.com/library/archive/technotes/tn2450/_index.html
var macTable = [0x80]event.VirtualKey{
	0x00: event.A,
	0x01: event.S,
	0x02: event.D,
	0x03: event.F,
	0x04: event.H,
	0x05: event.G,
	0x06: event.Z,
	0x07: event.X,
	0x08: event.C,
	0x09: event.V,
	0x0a: none, // ISO section
	0x0b: event.B,
	0x0c: event.Q,
	0x0d: event.W,
	0x0e: event.E,
	0x0f: event.R,
	0x10: event.Y,
	0x11: event.T,
	0x12: event.Key1,
	0x13: event.Key2,
	0x14: event.Key3,
	0x15: event.Key4,
	0x16: event.Key6,
	0x17: event.Key5,
	0x18: event.Equals,
	0x19: event.Key9,
	0x1a: event.Key7,
	0x1b: event.Minus,
	0x1c: event.Key8,
	0x1d: event.Key0,
	0x1e: event.RBracket,
	0x1f: event.O,
	0x20: event.U,
	0x21: event.LBracket,
	0x22: event.I,
	0x23: event.P,
	0x24: event.Return,
	0x25: event.L,
	0x26: event.J,
	0x27: event.Apostrophe,
	0x28: event.K,
	0x29: event.Semicolon,
	0x2a: event.Backslash,
	0x2b: event.Comma,
	0x2c: event.Slash,
	0x2d: event.N,
	0x2e: event.M,
	0x2f: event.Period,
	0x30: event.Tab,
	0x31: event.Space,
	0x32: event.Grave,
	0x33: event.Back,
	0x34: none,
	0x35: event.Escape,
	0x36: event.RWin,
	0x37: event.LWin,
	0x38: event.LShift,
	0x39: none, // caps lock
	0x3a: none, // left option
	0x3b: event.LControl,
	0x3c: event.RShift,
	0x3d: none, // right option
	0x3e: event.RControl,
	0x3f: none, // fn
	0x40: none, // F17
	0x41: event.Decimal,
	0x42: none,
	0x43: event.Multiply,
	0x44: none,
	0x45: event.Add,
	0x46: none,
	0x47: event.Numlock,
	0x48: none, // keypad clear
	0x49: event.VolumeUp,
	0x4a: event.VolumeDown,
	0x4b: event.Divide,
	0x4c: event.NumpadEnter,
	0x4d: none,
	0x4e: event.Subtract,
	0x4f: none, // F18
	0x50: none, // F19
	0x51: event.NumpadEquals,
	0x52: event.Numpad0,
	0x53: event.Numpad1,
	0x54: event.Numpad2,
	0x55: event.Numpad3,
	0x56: event.Numpad4,
	0x57: event.Numpad5,
	0x58: event.Numpad6,
	0x59: event.Numpad7,
	0x5a: none, // F20
	0x5b: event.Numpad8,
	0x5c: event.Numpad9,
	0x5d: none,
	0x5e: none,
	0x5f: none,
	0x60: event.F5,
	0x61: event.F6,
	0x62: event.F7,
	0x63: event.F3,
	0x64: event.F8,
	0x65: event.F9,
	0x66: none,
	0x67: event.F11,
	0x68: none,
	0x69: event.F13,
	0x6a: none, // F16
	0x6b: event.F14,
	0x6c: none,
	0x6d: event.F10,
	0x6e: none,
	0x6f: event.F12,
	0x70: none,
	0x71: event.F15,
	0x72: event.Insert,
	0x73: event.Home,
	0x74: event.PageUp,
	0x75: event.Delete,
	0x76: event.F4,
	0x77: event.End,
	0x78: event.F2,
	0x79: event.PageDown,
	0x7a: event.F1,
	0x7b: event.Left,
	0x7c: event.Right,
	0x7d: event.Down,
	0x7e: event.Up,
	0x7f: none,
}

// FromMac maps a macOS virtual key code (NSEvent keyCode) to a VirtualKey.
func FromMac(code uint16) (event.VirtualKey, bool) {
	if int(code) >= len(macTable) {
		return 0, false
	}
	k := macTable[code]
	if k == none {
		return 0, false
	}
	return k, true
}
