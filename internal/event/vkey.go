package event

import "fmt"

// VirtualKey is the symbolic identity of a key, independent of keyboard
// layout and platform scan codes.
type VirtualKey uint8

const (
	// Digits on the main row.
	Key1 VirtualKey = iota
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0

	// Letters
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z

	// Control and whitespace
	Escape
	Back
	Return
	Tab
	Space

	// Function keys
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15

	// Navigation
	Snapshot
	Scroll
	Pause
	Insert
	Home
	Delete
	End
	PageDown
	PageUp
	Left
	Up
	Right
	Down

	// Numpad
	Numlock
	Numpad0
	Numpad1
	Numpad2
	Numpad3
	Numpad4
	Numpad5
	Numpad6
	Numpad7
	Numpad8
	Numpad9
	Add
	Subtract
	Multiply
	Divide
	Decimal
	NumpadEnter
	NumpadEquals

	// Punctuation
	Apostrophe
	Backslash
	Comma
	Equals
	Grave
	LBracket
	Minus
	Period
	RBracket
	Semicolon
	Slash

	// Modifiers
	Capital
	LAlt
	LControl
	LShift
	LWin
	RAlt
	RControl
	RShift
	RWin
	Apps

	// Media
	Mute
	VolumeDown
	VolumeUp

	numVirtualKeys
)

var virtualKeyNames = [numVirtualKeys]string{
	Key1: "Key1", Key2: "Key2", Key3: "Key3", Key4: "Key4", Key5: "Key5",
	Key6: "Key6", Key7: "Key7", Key8: "Key8", Key9: "Key9", Key0: "Key0",

	A: "A", B: "B", C: "C", D: "D", E: "E", F: "F", G: "G", H: "H", I: "I",
	J: "J", K: "K", L: "L", M: "M", N: "N", O: "O", P: "P", Q: "Q", R: "R",
	S: "S", T: "T", U: "U", V: "V", W: "W", X: "X", Y: "Y", Z: "Z",

	Escape: "Escape", Back: "Back", Return: "Return", Tab: "Tab", Space: "Space",

	F1: "F1", F2: "F2", F3: "F3", F4: "F4", F5: "F5", F6: "F6", F7: "F7",
	F8: "F8", F9: "F9", F10: "F10", F11: "F11", F12: "F12", F13: "F13",
	F14: "F14", F15: "F15",

	Snapshot: "Snapshot", Scroll: "Scroll", Pause: "Pause", Insert: "Insert",
	Home: "Home", Delete: "Delete", End: "End", PageDown: "PageDown",
	PageUp: "PageUp", Left: "Left", Up: "Up", Right: "Right", Down: "Down",

	Numlock: "Numlock", Numpad0: "Numpad0", Numpad1: "Numpad1",
	Numpad2: "Numpad2", Numpad3: "Numpad3", Numpad4: "Numpad4",
	Numpad5: "Numpad5", Numpad6: "Numpad6", Numpad7: "Numpad7",
	Numpad8: "Numpad8", Numpad9: "Numpad9", Add: "Add", Subtract: "Subtract",
	Multiply: "Multiply", Divide: "Divide", Decimal: "Decimal",
	NumpadEnter: "NumpadEnter", NumpadEquals: "NumpadEquals",

	Apostrophe: "Apostrophe", Backslash: "Backslash", Comma: "Comma",
	Equals: "Equals", Grave: "Grave", LBracket: "LBracket", Minus: "Minus",
	Period: "Period", RBracket: "RBracket", Semicolon: "Semicolon",
	Slash: "Slash",

	Capital: "Capital", LAlt: "LAlt", LControl: "LControl", LShift: "LShift",
	LWin: "LWin", RAlt: "RAlt", RControl: "RControl", RShift: "RShift",
	RWin: "RWin", Apps: "Apps",

	Mute: "Mute", VolumeDown: "VolumeDown", VolumeUp: "VolumeUp",
}

func (k VirtualKey) String() string {
	if k < numVirtualKeys {
		return virtualKeyNames[k]
	}
	return fmt.Sprintf("VirtualKey(%d)", uint8(k))
}

// Valid reports whether k is a member of the enumeration.
func (k VirtualKey) Valid() bool {
	return k < numVirtualKeys
}
