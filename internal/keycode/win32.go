package keycode

import "github.com/tinyrange/plugview/internal/event"

// windowsTable maps Win32 virtual key codes (VK_*) to VirtualKey values.
// Generic VK_SHIFT/VK_CONTROL/VK_MENU are reported as the left-hand key.
var windowsTable = map[uint16]event.VirtualKey{
	0x08: event.Back,     // VK_BACK
	0x09: event.Tab,      // VK_TAB
	0x0D: event.Return,   // VK_RETURN
	0x10: event.LShift,   // VK_SHIFT
	0x11: event.LControl, // VK_CONTROL
	0x12: event.LAlt,     // VK_MENU
	0x13: event.Pause,    // VK_PAUSE
	0x14: event.Capital,  // VK_CAPITAL
	0x1B: event.Escape,   // VK_ESCAPE
	0x20: event.Space,    // VK_SPACE
	0x21: event.PageUp,   // VK_PRIOR
	0x22: event.PageDown, // VK_NEXT
	0x23: event.End,      // VK_END
	0x24: event.Home,     // VK_HOME
	0x25: event.Left,     // VK_LEFT
	0x26: event.Up,       // VK_UP
	0x27: event.Right,    // VK_RIGHT
	0x28: event.Down,     // VK_DOWN
	0x2C: event.Snapshot, // VK_SNAPSHOT
	0x2D: event.Insert,   // VK_INSERT
	0x2E: event.Delete,   // VK_DELETE

	0x30: event.Key0,
	0x31: event.Key1,
	0x32: event.Key2,
	0x33: event.Key3,
	0x34: event.Key4,
	0x35: event.Key5,
	0x36: event.Key6,
	0x37: event.Key7,
	0x38: event.Key8,
	0x39: event.Key9,

	0x41: event.A,
	0x42: event.B,
	0x43: event.C,
	0x44: event.D,
	0x45: event.E,
	0x46: event.F,
	0x47: event.G,
	0x48: event.H,
	0x49: event.I,
	0x4A: event.J,
	0x4B: event.K,
	0x4C: event.L,
	0x4D: event.M,
	0x4E: event.N,
	0x4F: event.O,
	0x50: event.P,
	0x51: event.Q,
	0x52: event.R,
	0x53: event.S,
	0x54: event.T,
	0x55: event.U,
	0x56: event.V,
	0x57: event.W,
	0x58: event.X,
	0x59: event.Y,
	0x5A: event.Z,

	0x5B: event.LWin, // VK_LWIN
	0x5C: event.RWin, // VK_RWIN
	0x5D: event.Apps, // VK_APPS

	0x60: event.Numpad0,
	0x61: event.Numpad1,
	0x62: event.Numpad2,
	0x63: event.Numpad3,
	0x64: event.Numpad4,
	0x65: event.Numpad5,
	0x66: event.Numpad6,
	0x67: event.Numpad7,
	0x68: event.Numpad8,
	0x69: event.Numpad9,
	0x6A: event.Multiply, // VK_MULTIPLY
	0x6B: event.Add,      // VK_ADD
	0x6D: event.Subtract, // VK_SUBTRACT
	0x6E: event.Decimal,  // VK_DECIMAL
	0x6F: event.Divide,   // VK_DIVIDE

	0x70: event.F1,
	0x71: event.F2,
	0x72: event.F3,
	0x73: event.F4,
	0x74: event.F5,
	0x75: event.F6,
	0x76: event.F7,
	0x77: event.F8,
	0x78: event.F9,
	0x79: event.F10,
	0x7A: event.F11,
	0x7B: event.F12,
	0x7C: event.F13,
	0x7D: event.F14,
	0x7E: event.F15,

	0x90: event.Numlock, // VK_NUMLOCK
	0x91: event.Scroll,  // VK_SCROLL
	0x92: event.NumpadEquals,

	0xA0: event.LShift,   // VK_LSHIFT
	0xA1: event.RShift,   // VK_RSHIFT
	0xA2: event.LControl, // VK_LCONTROL
	0xA3: event.RControl, // VK_RCONTROL
	0xA4: event.LAlt,     // VK_LMENU
	0xA5: event.RAlt,     // VK_RMENU

	0xAD: event.Mute,       // VK_VOLUME_MUTE
	0xAE: event.VolumeDown, // VK_VOLUME_DOWN
	0xAF: event.VolumeUp,   // VK_VOLUME_UP

	0xBA: event.Semicolon,  // VK_OEM_1
	0xBB: event.Equals,     // VK_OEM_PLUS
	0xBC: event.Comma,      // VK_OEM_COMMA
	0xBD: event.Minus,      // VK_OEM_MINUS
	0xBE: event.Period,     // VK_OEM_PERIOD
	0xBF: event.Slash,      // VK_OEM_2
	0xC0: event.Grave,      // VK_OEM_3
	0xDB: event.LBracket,   // VK_OEM_4
	0xDC: event.Backslash,  // VK_OEM_5
	0xDD: event.RBracket,   // VK_OEM_6
	0xDE: event.Apostrophe, // VK_OEM_7
}

// FromWindows maps a Win32 virtual key code (WM_KEYDOWN wParam) to a
// VirtualKey.
func FromWindows(vk uint16) (event.VirtualKey, bool) {
	k, ok := windowsTable[vk]
	return k, ok
}
