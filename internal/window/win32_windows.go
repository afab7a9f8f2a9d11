//go:build windows

package window

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unicode"
	"unicode/utf16"
	"unsafe"

	"github.com/tinyrange/plugview/internal/attrs"
	"github.com/tinyrange/plugview/internal/keycode"
	"github.com/tinyrange/plugview/internal/registry"
	"github.com/tinyrange/plugview/internal/translate"
	"golang.org/x/sys/windows"
)

const (
	csOwnDC   = 0x0020
	csHRedraw = 0x0002
	csVRedraw = 0x0001

	wsOverlappedWindow = 0x00CF0000
	wsPopup            = 0x80000000
	wsChild            = 0x40000000
	wsVisible          = 0x10000000
	wsClipSiblings     = 0x04000000
	wsClipChildren     = 0x02000000

	wsExAppWindow   = 0x00040000
	wsExWindowEdge  = 0x00000100
	wsExAcceptFiles = 0x00000010

	cwUseDefault = 0x80000000

	wmDestroy       = 0x0002
	wmSize          = 0x0005
	wmGetMinMaxInfo = 0x0024
	wmKeyDown       = 0x0100
	wmKeyUp         = 0x0101
	wmChar          = 0x0102
	wmSysKeyDown    = 0x0104
	wmSysKeyUp      = 0x0105
	wmMouseMove     = 0x0200
	wmLButtonDown   = 0x0201
	wmLButtonUp     = 0x0202
	wmRButtonDown   = 0x0204
	wmRButtonUp     = 0x0205
	wmMButtonDown   = 0x0207
	wmMButtonUp     = 0x0208
	wmMouseWheel    = 0x020A
	wmXButtonDown   = 0x020B
	wmXButtonUp     = 0x020C
	wmMouseHWheel   = 0x020E
	wmMouseLeave    = 0x02A3
	wmQuit          = 0x0012
	wmApp           = 0x8000

	// Posted to a window to unblock a waiting Next; never translated.
	wmInterrupt = wmApp
	// Posted to a standalone window to stop its pump.
	wmStopPump = wmApp + 1

	pmRemove = 0x0001

	tmeLeave  = 0x00000002
	tmeCancel = 0x80000000

	wheelDelta = 120

	dmBitsPerPel = 0x00040000
	dmPelsWidth  = 0x00080000
	dmPelsHeight = 0x00100000

	cdsFullscreen          = 0x00000004
	dispChangeSuccessful   = 0
	dwmBBEnable            = 0x00000001
	errorClassAlreadyExist = 1410
)

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

type point struct {
	x int32
	y int32
}

type rect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

type msg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type minMaxInfo struct {
	reserved     point
	maxSize      point
	maxPosition  point
	minTrackSize point
	maxTrackSize point
}

type trackMouseEvent struct {
	cbSize      uint32
	dwFlags     uint32
	hwndTrack   uintptr
	dwHoverTime uint32
}

type blurBehind struct {
	dwFlags                uint32
	fEnable                int32
	hRgnBlur               uintptr
	fTransitionOnMaximized int32
}

// Mirrors DEVMODEW for display devices (must be 220 bytes).
type devMode struct {
	deviceName       [32]uint16
	specVersion      uint16
	driverVersion    uint16
	size             uint16
	driverExtra      uint16
	fields           uint32
	position         point
	orientation      uint32
	fixedOutput      uint32
	color            int16
	duplex           int16
	yResolution      int16
	ttOption         int16
	collate          int16
	formName         [32]uint16
	logPixels        uint16
	bitsPerPel       uint32
	pelsWidth        uint32
	pelsHeight       uint32
	displayFlags     uint32
	displayFrequency uint32
	icmMethod        uint32
	icmIntent        uint32
	mediaType        uint32
	ditherType       uint32
	reserved1        uint32
	reserved2        uint32
	panningWidth     uint32
	panningHeight    uint32
}

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procRegisterClassEx         = user32.NewProc("RegisterClassExW")
	procCreateWindowEx          = user32.NewProc("CreateWindowExW")
	procDefWindowProc           = user32.NewProc("DefWindowProcW")
	procDestroyWindow           = user32.NewProc("DestroyWindow")
	procAdjustWindowRectEx      = user32.NewProc("AdjustWindowRectEx")
	procGetClientRect           = user32.NewProc("GetClientRect")
	procGetMessage              = user32.NewProc("GetMessageW")
	procPeekMessage             = user32.NewProc("PeekMessageW")
	procTranslateMessage        = user32.NewProc("TranslateMessage")
	procDispatchMessage         = user32.NewProc("DispatchMessageW")
	procPostMessage             = user32.NewProc("PostMessageW")
	procPostQuitMessage         = user32.NewProc("PostQuitMessage")
	procGetDC                   = user32.NewProc("GetDC")
	procReleaseDC               = user32.NewProc("ReleaseDC")
	procTrackMouseEvent         = user32.NewProc("TrackMouseEvent")
	procSetForegroundWindow     = user32.NewProc("SetForegroundWindow")
	procChangeDisplaySettingsEx = user32.NewProc("ChangeDisplaySettingsExW")

	procDwmEnableBlurBehindWindow = dwmapi.NewProc("DwmEnableBlurBehindWindow")
)

var (
	// Unique per process so a host loading several copies never collides.
	windowClassName = fmt.Sprintf("PlugviewWindow_%d", os.Getpid())

	classOnce sync.Once
	classErr  error
	wndProcCb uintptr
)

func winErr(op string, err error) error {
	var errno windows.Errno
	if errors.As(err, &errno) && errno != 0 {
		return fmt.Errorf("%s failed: %w", op, errno)
	}
	return fmt.Errorf("%s failed", op)
}

func loword(v uintptr) uint16 { return uint16(v) }
func hiword(v uintptr) uint16 { return uint16(v >> 16) }

type win32Window struct {
	dc      uintptr
	adapter *uint16 // display switched to fullscreen, restored on Destroy
	high    uint16  // pending UTF-16 high surrogate from WM_CHAR
}

// live holds per-window native state shared by the backend and the
// window procedure.
var live = struct {
	sync.Mutex
	m map[registry.Handle]*win32Window
}{m: make(map[registry.Handle]*win32Window)}

func liveWindow(h registry.Handle) *win32Window {
	live.Lock()
	defer live.Unlock()
	return live.m[h]
}

// win32 creates windows with the Win32 API. Embedded windows are WS_CHILD
// of the host window; standalone windows are top-level.
type win32 struct {
	log      *slog.Logger
	instance windows.Handle
}

// Native returns the Win32 backend.
func Native(log *slog.Logger) (Platform, error) {
	var instance windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &instance); err != nil {
		return nil, fmt.Errorf("GetModuleHandleEx: %w", err)
	}
	return &win32{log: log, instance: instance}, nil
}

func (p *win32) RequiresParent() bool { return false }

func (p *win32) RegisterClass() error {
	classOnce.Do(func() {
		name, err := windows.UTF16PtrFromString(windowClassName)
		if err != nil {
			classErr = err
			return
		}
		wndProcCb = windows.NewCallback(wndProc)
		wc := wndClassEx{
			cbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
			style:         csHRedraw | csVRedraw | csOwnDC,
			lpfnWndProc:   wndProcCb,
			hInstance:     p.instance,
			lpszClassName: name,
		}
		r, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
		if r == 0 {
			var errno windows.Errno
			if errors.As(err, &errno) && errno == errorClassAlreadyExist {
				return
			}
			classErr = winErr("RegisterClassExW", err)
		}
	})
	return classErr
}

// styles computes the window style and extended style.
func styles(a attrs.Attributes) (ex, style uint32) {
	if a.Monitor != nil || !a.Decorations {
		ex = wsExAppWindow
		if a.Parent != 0 {
			// WS_POPUP cannot be combined with WS_CHILD.
			style = wsClipSiblings | wsClipChildren
		} else {
			style = wsPopup | wsClipSiblings | wsClipChildren
		}
		return ex, style
	}
	return wsExAppWindow | wsExWindowEdge, wsOverlappedWindow | wsClipSiblings | wsClipChildren
}

func (p *win32) CreateWindow(a attrs.Attributes) (registry.Handle, error) {
	w, h := a.Size()
	r := rect{right: int32(w), bottom: int32(h)}
	fullscreen := a.Monitor != nil && a.Parent == 0
	if fullscreen {
		r.left += a.Monitor.X
		r.right += a.Monitor.X
		r.top += a.Monitor.Y
		r.bottom += a.Monitor.Y
	}

	ex, style := styles(a)
	procAdjustWindowRectEx.Call(uintptr(unsafe.Pointer(&r)), uintptr(style), 0, uintptr(ex))

	x, y := uintptr(cwUseDefault), uintptr(cwUseDefault)
	width, height := uintptr(cwUseDefault), uintptr(cwUseDefault)
	if fullscreen || a.Dimensions != nil {
		width, height = uintptr(r.right-r.left), uintptr(r.bottom-r.top)
	}
	if fullscreen {
		x, y = uintptr(r.left), uintptr(r.top)
	}
	if a.Visible {
		style |= wsVisible
	}
	if a.Parent != 0 {
		style |= wsChild
		x, y = 0, 0
	}

	title, err := windows.UTF16PtrFromString(a.Title)
	if err != nil {
		return 0, err
	}
	class, err := windows.UTF16PtrFromString(windowClassName)
	if err != nil {
		return 0, err
	}
	hwnd, _, err := procCreateWindowEx.Call(
		uintptr(ex|wsExAcceptFiles),
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(title)),
		uintptr(style|wsClipSiblings|wsClipChildren),
		x, y, width, height,
		a.Parent,
		0,
		uintptr(p.instance),
		0,
	)
	if hwnd == 0 {
		return 0, winErr("CreateWindowExW", err)
	}

	if a.Transparent {
		bb := blurBehind{dwFlags: dwmBBEnable, fEnable: 1}
		if hr, _, _ := procDwmEnableBlurBehindWindow.Call(hwnd, uintptr(unsafe.Pointer(&bb))); hr != 0 {
			p.log.Warn("DwmEnableBlurBehindWindow failed", slog.Uint64("hresult", uint64(hr)))
		}
	}

	live.Lock()
	live.m[registry.Handle(hwnd)] = &win32Window{}
	live.Unlock()
	return registry.Handle(hwnd), nil
}

func (p *win32) AcquireDC(h registry.Handle) error {
	dc, _, err := procGetDC.Call(uintptr(h))
	if dc == 0 {
		return winErr("GetDC", err)
	}
	if w := liveWindow(h); w != nil {
		w.dc = dc
	}
	return nil
}

// SwitchFullscreen changes the monitor's display mode to the window's
// client size and brings the window to the foreground.
func (p *win32) SwitchFullscreen(h registry.Handle, m attrs.Monitor) error {
	var r rect
	procGetClientRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))

	adapter, err := windows.UTF16PtrFromString(m.Adapter)
	if err != nil {
		return err
	}
	dm := devMode{
		fields:     dmBitsPerPel | dmPelsWidth | dmPelsHeight,
		bitsPerPel: 32,
		pelsWidth:  uint32(r.right - r.left),
		pelsHeight: uint32(r.bottom - r.top),
	}
	dm.size = uint16(unsafe.Sizeof(dm))
	res, _, _ := procChangeDisplaySettingsEx.Call(
		uintptr(unsafe.Pointer(adapter)),
		uintptr(unsafe.Pointer(&dm)),
		0,
		cdsFullscreen,
		0,
	)
	if int32(res) != dispChangeSuccessful {
		return fmt.Errorf("ChangeDisplaySettingsExW failed: %d", int32(res))
	}
	if w := liveWindow(h); w != nil {
		w.adapter = adapter
	}
	procSetForegroundWindow.Call(uintptr(h))
	return nil
}

func (p *win32) Next(block bool) (Message, bool) {
	var m msg
	if block {
		r, _, err := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case -1:
			p.log.Error("GetMessageW failed", slog.Any("err", err))
			return Message{}, false
		case 0:
			// Leave WM_QUIT for an enclosing loop.
			procPostQuitMessage.Call(m.wParam)
			return Message{}, false
		}
	} else {
		r, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if r == 0 {
			return Message{}, false
		}
		if m.message == wmQuit {
			procPostQuitMessage.Call(m.wParam)
			return Message{}, false
		}
	}
	if m.message == wmStopPump {
		return Message{}, false
	}
	return Message{
		Handle: registry.Handle(m.hwnd),
		ID:     m.message,
		WParam: m.wParam,
		LParam: m.lParam,
	}, true
}

func (p *win32) Dispatch(m Message) {
	if m.ID == wmInterrupt {
		return
	}
	w := msg{hwnd: uintptr(m.Handle), message: m.ID, wParam: m.WParam, lParam: m.LParam}
	procTranslateMessage.Call(uintptr(unsafe.Pointer(&w)))
	procDispatchMessage.Call(uintptr(unsafe.Pointer(&w)))
}

func (p *win32) post(h registry.Handle, id uint32) error {
	r, _, err := procPostMessage.Call(uintptr(h), uintptr(id), 0, 0)
	if r == 0 {
		return winErr("PostMessageW", err)
	}
	return nil
}

func (p *win32) Interrupt(h registry.Handle) error { return p.post(h, wmInterrupt) }
func (p *win32) Quit(h registry.Handle) error      { return p.post(h, wmStopPump) }

func (p *win32) Detach(h registry.Handle) {
	tme := trackMouseEvent{dwFlags: tmeCancel | tmeLeave, hwndTrack: uintptr(h)}
	tme.cbSize = uint32(unsafe.Sizeof(tme))
	procTrackMouseEvent.Call(uintptr(unsafe.Pointer(&tme)))
}

func (p *win32) Destroy(h registry.Handle) {
	live.Lock()
	w := live.m[h]
	delete(live.m, h)
	live.Unlock()

	if w != nil && w.dc != 0 {
		procReleaseDC.Call(uintptr(h), w.dc)
	}
	procDestroyWindow.Call(uintptr(h))
	if w != nil && w.adapter != nil {
		procChangeDisplaySettingsEx.Call(uintptr(unsafe.Pointer(w.adapter)), 0, 0, 0, 0)
	}
}

func (p *win32) Keymap() translate.Keymap { return keycode.FromWindows }

// Forwarder returns nil; TranslateMessage already turns key messages into
// WM_CHAR for the window procedure.
func (p *win32) Forwarder(h registry.Handle) translate.Forwarder { return nil }

// character assembles UTF-16 code units from WM_CHAR into runes.
func character(h registry.Handle, unit uint16) (rune, bool) {
	w := liveWindow(h)
	r := rune(unit)
	switch {
	case w == nil || !utf16.IsSurrogate(r):
		return r, true
	case unit < 0xDC00:
		w.high = unit
		return 0, false
	}
	r = utf16.DecodeRune(rune(w.high), r)
	w.high = 0
	return r, r != unicode.ReplacementChar
}
