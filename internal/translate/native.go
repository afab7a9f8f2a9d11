package translate

import "github.com/tinyrange/plugview/internal/modifier"

// Class is the kind of a native notification. Backends decode their own
// message codes into one of these before translation.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassLeftMouseDown
	ClassLeftMouseUp
	ClassRightMouseDown
	ClassRightMouseUp
	ClassOtherMouseDown
	ClassOtherMouseUp
	ClassMouseEntered
	ClassMouseExited
	ClassMouseMoved
	ClassLeftMouseDragged
	ClassRightMouseDragged
	ClassOtherMouseDragged
	ClassKeyDown
	ClassKeyUp
	ClassCharacter
	ClassFlagsChanged
	ClassScrollWheel
	ClassPressure
	ClassApplicationDefined
	ClassTimer
)

// SubtypeWake is the application-defined subtype that wakes a waiting
// consumer (NSEventSubtypeApplicationActivated).
const SubtypeWake int16 = 1

// Origin is the corner a native coordinate space is anchored to.
type Origin uint8

const (
	OriginTopLeft Origin = iota
	OriginBottomLeft
)

// ScrollPhase mirrors NSEventPhase.
type ScrollPhase uint32

const (
	ScrollPhaseNone       ScrollPhase = 0
	ScrollPhaseBegan      ScrollPhase = 1 << 0
	ScrollPhaseStationary ScrollPhase = 1 << 1
	ScrollPhaseChanged    ScrollPhase = 1 << 2
	ScrollPhaseEnded      ScrollPhase = 1 << 3
	ScrollPhaseCancelled  ScrollPhase = 1 << 4
	ScrollPhaseMayBegin   ScrollPhase = 1 << 5
)

// NativeEvent is one decoded native notification. Only the fields relevant
// to Class are set.
type NativeEvent struct {
	Class   Class
	Subtype int16

	// Keyboard. KeyCode selects the VirtualKey through the translator's
	// Keymap; ScanCode is what gets reported.
	KeyCode    uint16
	ScanCode   uint8
	Characters string
	Flags      modifier.Flags

	// Pointer location in the native coordinate space.
	X, Y       float64
	Origin     Origin
	ViewHeight float64
	Scale      float64

	// Other mouse buttons report their platform number (2 = middle).
	ButtonNumber int

	// Scroll.
	DeltaX, DeltaY float64
	Precise        bool
	Phase          ScrollPhase

	// Force touch.
	Pressure float32
	Stage    int64

	// Raw is the platform object (NSEvent *, MSG *) for forwarding.
	Raw uintptr
}
