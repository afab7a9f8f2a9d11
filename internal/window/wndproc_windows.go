//go:build windows

package window

import (
	"unsafe"

	"github.com/tinyrange/plugview/internal/registry"
	"github.com/tinyrange/plugview/internal/translate"
)

// wndProc is the window procedure of every window this process creates.
// It runs on the thread that owns hwnd.
func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	h := registry.Handle(hwnd)
	switch message {
	case wmMouseMove, wmMouseLeave,
		wmLButtonDown, wmLButtonUp, wmRButtonDown, wmRButtonUp,
		wmMButtonDown, wmMButtonUp, wmXButtonDown, wmXButtonUp,
		wmMouseWheel, wmMouseHWheel,
		wmKeyDown, wmSysKeyDown, wmKeyUp, wmSysKeyUp, wmChar,
		wmSize, wmGetMinMaxInfo, wmDestroy:
	default:
		return defWindowProc(hwnd, message, wParam, lParam)
	}

	ctx := threads.Route(h)
	if ctx == nil {
		return defWindowProc(hwnd, message, wParam, lParam)
	}

	switch message {
	case wmMouseMove:
		if ctx.SetPointerInside(true) {
			tme := trackMouseEvent{dwFlags: tmeLeave, hwndTrack: hwnd}
			tme.cbSize = uint32(unsafe.Sizeof(tme))
			procTrackMouseEvent.Call(uintptr(unsafe.Pointer(&tme)))
			ctx.Deliver(translate.NativeEvent{Class: translate.ClassMouseEntered})
		}
		ctx.Deliver(translate.NativeEvent{
			Class:  translate.ClassMouseMoved,
			X:      float64(int16(loword(lParam))),
			Y:      float64(int16(hiword(lParam))),
			Origin: translate.OriginTopLeft,
			Scale:  1,
		})
		return 0

	case wmMouseLeave:
		ctx.SetPointerInside(false)
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassMouseExited})
		return 0

	case wmLButtonDown:
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassLeftMouseDown})
		return 0
	case wmLButtonUp:
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassLeftMouseUp})
		return 0
	case wmRButtonDown:
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassRightMouseDown})
		return 0
	case wmRButtonUp:
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassRightMouseUp})
		return 0
	case wmMButtonDown:
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassOtherMouseDown, ButtonNumber: 2})
		return 0
	case wmMButtonUp:
		ctx.Deliver(translate.NativeEvent{Class: translate.ClassOtherMouseUp, ButtonNumber: 2})
		return 0
	case wmXButtonDown, wmXButtonUp:
		// XBUTTON1 is button 3, XBUTTON2 button 4.
		class := translate.ClassOtherMouseDown
		if message == wmXButtonUp {
			class = translate.ClassOtherMouseUp
		}
		ctx.Deliver(translate.NativeEvent{Class: class, ButtonNumber: 2 + int(hiword(wParam))})
		return 1

	case wmMouseWheel, wmMouseHWheel:
		delta := float64(int16(hiword(wParam))) / wheelDelta
		ne := translate.NativeEvent{Class: translate.ClassScrollWheel, Scale: 1}
		if message == wmMouseWheel {
			ne.DeltaY = delta
		} else {
			ne.DeltaX = delta
		}
		ctx.Deliver(ne)
		return 0

	case wmKeyDown, wmSysKeyDown, wmKeyUp, wmSysKeyUp:
		class := translate.ClassKeyDown
		if message == wmKeyUp || message == wmSysKeyUp {
			class = translate.ClassKeyUp
		}
		ctx.Deliver(translate.NativeEvent{
			Class:    class,
			KeyCode:  uint16(wParam),
			ScanCode: uint8(lParam >> 16),
		})
		if message == wmSysKeyDown || message == wmSysKeyUp {
			// Keep Alt+F4 and the system menu working.
			return defWindowProc(hwnd, message, wParam, lParam)
		}
		return 0

	case wmChar:
		if r, ok := character(h, uint16(wParam)); ok {
			ctx.Deliver(translate.NativeEvent{Class: translate.ClassCharacter, Characters: string(r)})
		}
		return 0

	case wmSize:
		w, hgt := uint32(loword(lParam)), uint32(hiword(lParam))
		if fn := ctx.Attributes.Snapshot().OnResize; fn != nil {
			fn(w, hgt)
		}
		return 0

	case wmGetMinMaxInfo:
		a := ctx.Attributes.Snapshot()
		info := (*minMaxInfo)(unsafe.Pointer(lParam))
		if a.MinDimensions != nil {
			info.minTrackSize = point{int32(a.MinDimensions.Width), int32(a.MinDimensions.Height)}
		}
		if a.MaxDimensions != nil {
			info.maxTrackSize = point{int32(a.MaxDimensions.Width), int32(a.MaxDimensions.Height)}
		}
		return 0

	case wmDestroy:
		// A standalone window owns its thread's message loop; a child must
		// never stop the host's.
		if ctx.Attributes.Snapshot().Parent == 0 {
			procPostQuitMessage.Call(0)
		}
		return 0
	}
	return defWindowProc(hwnd, message, wParam, lParam)
}

func defWindowProc(hwnd, message, wParam, lParam uintptr) uintptr {
	r, _, _ := procDefWindowProc.Call(hwnd, message, wParam, lParam)
	return r
}
