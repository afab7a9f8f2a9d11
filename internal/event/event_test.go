package event

import "testing"

func TestVirtualKeyNames(t *testing.T) {
	for k := VirtualKey(0); k < numVirtualKeys; k++ {
		if virtualKeyNames[k] == "" {
			t.Errorf("VirtualKey(%d) has no name", uint8(k))
		}
		if !k.Valid() {
			t.Errorf("%s reported invalid", k)
		}
	}
	if numVirtualKeys.Valid() {
		t.Error("sentinel reported valid")
	}
	if got := VirtualKey(250).String(); got != "VirtualKey(250)" {
		t.Errorf("String() = %q", got)
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{MouseInput{State: Pressed, Button: ButtonLeft}, "MouseInput(Pressed, Left)"},
		{MouseInput{State: Released, Button: MouseButton(4)}, "MouseInput(Released, Other(4))"},
		{MouseMoved{X: 10, Y: -2}, "MouseMoved(10, -2)"},
		{MouseEntered{}, "MouseEntered"},
		{MouseLeft{}, "MouseLeft"},
		{Key(Pressed, 0x03, F), "KeyboardInput(Pressed, 0x03, F)"},
		{KeyboardInput{State: Released, ScanCode: 0x0a}, "KeyboardInput(Released, 0x0a, None)"},
		{ReceivedCharacter{Char: 'f'}, "ReceivedCharacter('f')"},
		{MouseWheel{Delta: ScrollDelta{Pixels: true, X: 1, Y: 2.5}, Phase: PhaseMoved}, "MouseWheel(PixelDelta(1, 2.5), Moved)"},
		{TouchpadPressure{Pressure: 0.5, Stage: 1}, "TouchpadPressure(0.5, 1)"},
		{Awakened{}, "Awakened"},
	}
	for _, tt := range tests {
		s, ok := tt.ev.(interface{ String() string })
		if !ok {
			t.Fatalf("%T has no String method", tt.ev)
		}
		if got := s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
