//go:build darwin

package window

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
	"github.com/tinyrange/plugview/internal/attrs"
	"github.com/tinyrange/plugview/internal/keycode"
	"github.com/tinyrange/plugview/internal/modifier"
	"github.com/tinyrange/plugview/internal/registry"
	"github.com/tinyrange/plugview/internal/translate"
)

type nsPoint struct {
	X float64
	Y float64
}

type nsSize struct {
	W float64
	H float64
}

type nsRect struct {
	Origin nsPoint
	Size   nsSize
}

// https://developer.apple.com/documentation/appkit/nsevent/eventtype
const (
	nsEventTypeLeftMouseDown      = 1
	nsEventTypeLeftMouseUp        = 2
	nsEventTypeRightMouseDown     = 3
	nsEventTypeRightMouseUp       = 4
	nsEventTypeMouseMoved         = 5
	nsEventTypeLeftMouseDragged   = 6
	nsEventTypeRightMouseDragged  = 7
	nsEventTypeMouseEntered       = 8
	nsEventTypeMouseExited        = 9
	nsEventTypeKeyDown            = 10
	nsEventTypeKeyUp              = 11
	nsEventTypeFlagsChanged       = 12
	nsEventTypeApplicationDefined = 15
	nsEventTypePeriodic           = 16
	nsEventTypeScrollWheel        = 22
	nsEventTypeOtherMouseDown     = 25
	nsEventTypeOtherMouseUp       = 26
	nsEventTypeOtherMouseDragged  = 27
	nsEventTypePressure           = 34

	nsEventMaskAny = ^uint64(0)

	// Application-defined subtypes posted to NSApp. Quit stops a blocking
	// Next; interrupt only unblocks it and is never translated.
	subtypeQuit      int16 = 2
	subtypeInterrupt int16 = 3

	nsViewWidthSizable  = 1 << 1
	nsViewHeightSizable = 1 << 4

	nsTrackingMouseEnteredAndExited = 0x01
	nsTrackingMouseMoved            = 0x02
	nsTrackingActiveAlways          = 0x80
	nsTrackingInVisibleRect         = 0x200
)

var classes = map[uint64]translate.Class{
	nsEventTypeLeftMouseDown:      translate.ClassLeftMouseDown,
	nsEventTypeLeftMouseUp:        translate.ClassLeftMouseUp,
	nsEventTypeRightMouseDown:     translate.ClassRightMouseDown,
	nsEventTypeRightMouseUp:       translate.ClassRightMouseUp,
	nsEventTypeMouseMoved:         translate.ClassMouseMoved,
	nsEventTypeLeftMouseDragged:   translate.ClassLeftMouseDragged,
	nsEventTypeRightMouseDragged:  translate.ClassRightMouseDragged,
	nsEventTypeMouseEntered:       translate.ClassMouseEntered,
	nsEventTypeMouseExited:        translate.ClassMouseExited,
	nsEventTypeKeyDown:            translate.ClassKeyDown,
	nsEventTypeKeyUp:              translate.ClassKeyUp,
	nsEventTypeFlagsChanged:       translate.ClassFlagsChanged,
	nsEventTypeApplicationDefined: translate.ClassApplicationDefined,
	nsEventTypePeriodic:           translate.ClassTimer,
	nsEventTypeScrollWheel:        translate.ClassScrollWheel,
	nsEventTypeOtherMouseDown:     translate.ClassOtherMouseDown,
	nsEventTypeOtherMouseUp:       translate.ClassOtherMouseUp,
	nsEventTypeOtherMouseDragged:  translate.ClassOtherMouseDragged,
	nsEventTypePressure:           translate.ClassPressure,
}

const responderClassName = "PlugviewResponderView"

var (
	runtimeOnce sync.Once
	runtimeErr  error

	classOnce      sync.Once
	classErr       error
	responderClass objc.Class

	defaultMode *idRef

	selAlloc                 objc.SEL
	selInit                  objc.SEL
	selRetain                objc.SEL
	selRelease               objc.SEL
	selDrain                 objc.SEL
	selSharedApplication     objc.SEL
	selNextEventMatchingMask objc.SEL
	selSendEvent             objc.SEL
	selPostEvent             objc.SEL
	selDistantPast           objc.SEL
	selDistantFuture         objc.SEL
	selStringWithUTF8String  objc.SEL
	selUTF8String            objc.SEL
	selOtherEvent            objc.SEL

	selInitWithFrame       objc.SEL
	selBounds              objc.SEL
	selAddSubview          objc.SEL
	selRemoveFromSuperview objc.SEL
	selSetAutoresizingMask objc.SEL
	selWindow              objc.SEL
	selMakeFirstResponder  objc.SEL
	selBackingScaleFactor  objc.SEL
	selConvertPointFrom    objc.SEL
	selInterpretKeyEvents  objc.SEL
	selArrayWithObject     objc.SEL
	selInsertText          objc.SEL
	selDoCommandBySelector objc.SEL

	selInitTrackingArea      objc.SEL
	selAddTrackingArea       objc.SEL
	selRemoveTrackingArea    objc.SEL
	selAcceptsFirstResponder objc.SEL
	selAcceptsFirstMouse     objc.SEL

	selEventType        objc.SEL
	selEventSubtype     objc.SEL
	selEventKeyCode     objc.SEL
	selEventCharacters  objc.SEL
	selEventFlags       objc.SEL
	selEventLocation    objc.SEL
	selEventButtonNum   objc.SEL
	selEventScrollDX    objc.SEL
	selEventScrollDY    objc.SEL
	selEventPrecise     objc.SEL
	selEventPhase       objc.SEL
	selEventPressure    objc.SEL
	selEventStage       objc.SEL
	selResponderActions []objc.SEL
)

func ensureRuntime() error {
	runtimeOnce.Do(func() {
		if _, err := purego.Dlopen("/usr/lib/libobjc.A.dylib", purego.RTLD_GLOBAL); err != nil {
			runtimeErr = err
			return
		}
		if _, err := purego.Dlopen("/System/Library/Frameworks/AppKit.framework/AppKit", purego.RTLD_GLOBAL); err != nil {
			runtimeErr = err
			return
		}
		loadSelectors()
		defaultMode = retainID(nsString("kCFRunLoopDefaultMode"))
	})
	return runtimeErr
}

func loadSelectors() {
	selAlloc = objc.RegisterName("alloc")
	selInit = objc.RegisterName("init")
	selRetain = objc.RegisterName("retain")
	selRelease = objc.RegisterName("release")
	selDrain = objc.RegisterName("drain")
	selSharedApplication = objc.RegisterName("sharedApplication")
	selNextEventMatchingMask = objc.RegisterName("nextEventMatchingMask:untilDate:inMode:dequeue:")
	selSendEvent = objc.RegisterName("sendEvent:")
	selPostEvent = objc.RegisterName("postEvent:atStart:")
	selDistantPast = objc.RegisterName("distantPast")
	selDistantFuture = objc.RegisterName("distantFuture")
	selStringWithUTF8String = objc.RegisterName("stringWithUTF8String:")
	selUTF8String = objc.RegisterName("UTF8String")
	selOtherEvent = objc.RegisterName("otherEventWithType:location:modifierFlags:timestamp:windowNumber:context:subtype:data1:data2:")

	selInitWithFrame = objc.RegisterName("initWithFrame:")
	selBounds = objc.RegisterName("bounds")
	selAddSubview = objc.RegisterName("addSubview:")
	selRemoveFromSuperview = objc.RegisterName("removeFromSuperview")
	selSetAutoresizingMask = objc.RegisterName("setAutoresizingMask:")
	selWindow = objc.RegisterName("window")
	selMakeFirstResponder = objc.RegisterName("makeFirstResponder:")
	selBackingScaleFactor = objc.RegisterName("backingScaleFactor")
	selConvertPointFrom = objc.RegisterName("convertPoint:fromView:")
	selInterpretKeyEvents = objc.RegisterName("interpretKeyEvents:")
	selArrayWithObject = objc.RegisterName("arrayWithObject:")
	selInsertText = objc.RegisterName("insertText:")
	selDoCommandBySelector = objc.RegisterName("doCommandBySelector:")

	selInitTrackingArea = objc.RegisterName("initWithRect:options:owner:userInfo:")
	selAddTrackingArea = objc.RegisterName("addTrackingArea:")
	selRemoveTrackingArea = objc.RegisterName("removeTrackingArea:")
	selAcceptsFirstResponder = objc.RegisterName("acceptsFirstResponder")
	selAcceptsFirstMouse = objc.RegisterName("acceptsFirstMouse:")

	selEventType = objc.RegisterName("type")
	selEventSubtype = objc.RegisterName("subtype")
	selEventKeyCode = objc.RegisterName("keyCode")
	selEventCharacters = objc.RegisterName("characters")
	selEventFlags = objc.RegisterName("modifierFlags")
	selEventLocation = objc.RegisterName("locationInWindow")
	selEventButtonNum = objc.RegisterName("buttonNumber")
	selEventScrollDX = objc.RegisterName("scrollingDeltaX")
	selEventScrollDY = objc.RegisterName("scrollingDeltaY")
	selEventPrecise = objc.RegisterName("hasPreciseScrollingDeltas")
	selEventPhase = objc.RegisterName("phase")
	selEventPressure = objc.RegisterName("pressure")
	selEventStage = objc.RegisterName("stage")

	for _, name := range []string{
		"mouseDown:", "mouseUp:", "rightMouseDown:", "rightMouseUp:",
		"otherMouseDown:", "otherMouseUp:",
		"mouseMoved:", "mouseDragged:", "rightMouseDragged:", "otherMouseDragged:",
		"mouseEntered:", "mouseExited:",
		"keyDown:", "keyUp:", "flagsChanged:",
		"scrollWheel:", "pressureChangeWithEvent:",
	} {
		selResponderActions = append(selResponderActions, objc.RegisterName(name))
	}
}

// registerResponder creates the NSView subclass whose action methods feed
// the registry. It is registered once per process.
func registerResponder() error {
	classOnce.Do(func() {
		methods := []objc.MethodDef{
			{Cmd: selAcceptsFirstResponder, Fn: acceptsFirstResponder},
			{Cmd: selAcceptsFirstMouse, Fn: acceptsFirstMouse},
			{Cmd: selInsertText, Fn: insertText},
			{Cmd: selDoCommandBySelector, Fn: doCommandBySelector},
		}
		for _, sel := range selResponderActions {
			methods = append(methods, objc.MethodDef{Cmd: sel, Fn: responderEvent})
		}
		responderClass, classErr = objc.RegisterClass(
			responderClassName,
			objc.GetClass("NSView"),
			nil,
			nil,
			methods,
		)
		if classErr == nil && responderClass == 0 {
			classErr = errors.New("objc_allocateClassPair returned nil")
		}
	})
	return classErr
}

func acceptsFirstResponder(self objc.ID, _cmd objc.SEL) bool {
	return true
}

func acceptsFirstMouse(self objc.ID, _cmd objc.SEL, ev objc.ID) bool {
	return true
}

// insertText and doCommandBySelector receive the output of the key
// bindings run by interpretKeyEvents:. Characters are taken from the
// NSEvent itself, and unhandled commands must not travel up the responder
// chain, where NSWindow beeps.
func insertText(self objc.ID, _cmd objc.SEL, text objc.ID) {}

func doCommandBySelector(self objc.ID, _cmd objc.SEL, cmd objc.SEL) {}

// responderEvent is the single entry point for every input selector of the
// responder view.
func responderEvent(self objc.ID, _cmd objc.SEL, ev objc.ID) {
	ctx := threads.Route(registry.Handle(self))
	if ctx == nil {
		return
	}
	ne := decodeEvent(self, ev)
	switch ne.Class {
	case translate.ClassMouseEntered:
		ctx.SetPointerInside(true)
	case translate.ClassMouseExited:
		ctx.SetPointerInside(false)
	}
	ctx.Deliver(ne)
}

// decodeEvent copies the fields of an NSEvent addressed to view.
func decodeEvent(view, ev objc.ID) translate.NativeEvent {
	typ := objc.Send[uint64](ev, selEventType)
	ne := translate.NativeEvent{
		Class:  classes[typ],
		Origin: translate.OriginBottomLeft,
		Scale:  1,
		Raw:    uintptr(ev),
	}

	bounds := objc.Send[nsRect](view, selBounds)
	ne.ViewHeight = bounds.Size.H
	if win := view.Send(selWindow); win != 0 {
		ne.Scale = objc.Send[float64](win, selBackingScaleFactor)
	}

	switch ne.Class {
	case translate.ClassKeyDown, translate.ClassKeyUp:
		ne.KeyCode = uint16(objc.Send[uint64](ev, selEventKeyCode))
		ne.ScanCode = uint8(ne.KeyCode)
		ne.Flags = modifier.Flags(objc.Send[uint64](ev, selEventFlags))
		if ne.Class == translate.ClassKeyDown {
			ne.Characters = goString(ev.Send(selEventCharacters))
		}
	case translate.ClassFlagsChanged:
		ne.KeyCode = uint16(objc.Send[uint64](ev, selEventKeyCode))
		ne.Flags = modifier.Flags(objc.Send[uint64](ev, selEventFlags))
	case translate.ClassScrollWheel:
		ne.DeltaX = objc.Send[float64](ev, selEventScrollDX)
		ne.DeltaY = objc.Send[float64](ev, selEventScrollDY)
		ne.Precise = objc.Send[bool](ev, selEventPrecise)
		ne.Phase = translate.ScrollPhase(objc.Send[uint64](ev, selEventPhase))
	case translate.ClassPressure:
		ne.Pressure = objc.Send[float32](ev, selEventPressure)
		ne.Stage = objc.Send[int64](ev, selEventStage)
	case translate.ClassApplicationDefined:
		ne.Subtype = objc.Send[int16](ev, selEventSubtype)
	case translate.ClassUnknown, translate.ClassTimer:
	default:
		ne.ButtonNumber = int(objc.Send[int64](ev, selEventButtonNum))
		loc := objc.Send[nsPoint](ev, selEventLocation)
		p := objc.Send[nsPoint](view, selConvertPointFrom, loc, objc.ID(0))
		ne.X, ne.Y = p.X, p.Y
	}
	return ne
}

func nsString(v string) objc.ID {
	return objc.ID(objc.GetClass("NSString")).Send(selStringWithUTF8String, v+"\x00")
}

func goString(s objc.ID) string {
	if s == 0 {
		return ""
	}
	p := objc.Send[*byte](s, selUTF8String)
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

type cocoaView struct {
	view     *idRef
	tracking *idRef
}

// cocoa embeds responder views in a host NSView. The host owns the run
// loop, so only embedded windows are supported.
type cocoa struct {
	log   *slog.Logger
	app   objc.ID
	views map[registry.Handle]*cocoaView
}

// Native returns the Cocoa backend.
func Native(log *slog.Logger) (Platform, error) {
	if err := ensureRuntime(); err != nil {
		return nil, fmt.Errorf("load cocoa: %w", err)
	}
	app := objc.ID(objc.GetClass("NSApplication")).Send(selSharedApplication)
	if app == 0 {
		return nil, errors.New("nsapplication unavailable")
	}
	return &cocoa{log: log, app: app, views: make(map[registry.Handle]*cocoaView)}, nil
}

func (c *cocoa) RequiresParent() bool { return true }

func (c *cocoa) RegisterClass() error {
	return registerResponder()
}

func (c *cocoa) CreateWindow(a attrs.Attributes) (registry.Handle, error) {
	parent := objc.ID(a.Parent)
	frame := objc.Send[nsRect](parent, selBounds)
	if a.Dimensions != nil {
		frame.Size = nsSize{W: float64(a.Dimensions.Width), H: float64(a.Dimensions.Height)}
	}

	view := adoptID(objc.ID(responderClass).Send(selAlloc).Send(selInitWithFrame, frame))
	if view.ID() == 0 {
		return 0, errors.New("initWithFrame: returned nil")
	}
	view.ID().Send(selSetAutoresizingMask, uint64(nsViewWidthSizable|nsViewHeightSizable))
	parent.Send(selAddSubview, view.ID())

	opts := uint64(nsTrackingMouseEnteredAndExited | nsTrackingMouseMoved |
		nsTrackingActiveAlways | nsTrackingInVisibleRect)
	area := adoptID(objc.ID(objc.GetClass("NSTrackingArea")).Send(selAlloc).
		Send(selInitTrackingArea, frame, opts, view.ID(), objc.ID(0)))
	view.ID().Send(selAddTrackingArea, area.ID())

	if win := view.ID().Send(selWindow); win != 0 {
		win.Send(selMakeFirstResponder, view.ID())
	}

	h := registry.Handle(view.ID())
	c.views[h] = &cocoaView{view: view, tracking: area}
	return h, nil
}

// AcquireDC is a no-op; a view draws through its own layer.
func (c *cocoa) AcquireDC(h registry.Handle) error { return nil }

func (c *cocoa) SwitchFullscreen(h registry.Handle, m attrs.Monitor) error {
	return errors.New("fullscreen needs a standalone window")
}

func (c *cocoa) Next(block bool) (Message, bool) {
	date := objc.ID(objc.GetClass("NSDate")).Send(selDistantPast)
	if block {
		date = objc.ID(objc.GetClass("NSDate")).Send(selDistantFuture)
	}
	for {
		ev := c.app.Send(selNextEventMatchingMask, nsEventMaskAny, date, defaultMode.ID(), true)
		if ev == 0 {
			if block {
				continue
			}
			return Message{}, false
		}
		if objc.Send[uint64](ev, selEventType) == nsEventTypeApplicationDefined &&
			objc.Send[int16](ev, selEventSubtype) == subtypeQuit {
			return Message{}, false
		}
		return Message{Ref: uintptr(retainID(ev).ID())}, true
	}
}

func (c *cocoa) Dispatch(m Message) {
	ev := adoptID(objc.ID(m.Ref))
	defer ev.Release()

	if objc.Send[uint64](ev.ID(), selEventType) == nsEventTypeApplicationDefined &&
		objc.Send[int16](ev.ID(), selEventSubtype) == subtypeInterrupt {
		return
	}
	c.app.Send(selSendEvent, ev.ID())
}

// post queues an application-defined event for h. It is safe from any
// thread.
func (c *cocoa) post(h registry.Handle, subtype int16) error {
	pool := objc.ID(objc.GetClass("NSAutoreleasePool")).Send(selAlloc).Send(selInit)
	defer pool.Send(selDrain)

	ev := objc.ID(objc.GetClass("NSEvent")).Send(selOtherEvent,
		uint64(nsEventTypeApplicationDefined), nsPoint{}, uint64(0), float64(0),
		int64(0), objc.ID(0), subtype, int64(h), int64(0))
	if ev == 0 {
		return errors.New("otherEventWithType: returned nil")
	}
	c.app.Send(selPostEvent, ev, false)
	return nil
}

func (c *cocoa) Interrupt(h registry.Handle) error {
	return c.post(h, subtypeInterrupt)
}

func (c *cocoa) Quit(h registry.Handle) error {
	return c.post(h, subtypeQuit)
}

func (c *cocoa) Detach(h registry.Handle) {
	v, ok := c.views[h]
	if !ok {
		return
	}
	v.view.ID().Send(selRemoveTrackingArea, v.tracking.ID())
	v.tracking.Release()
}

func (c *cocoa) Destroy(h registry.Handle) {
	v, ok := c.views[h]
	if !ok {
		return
	}
	delete(c.views, h)
	v.tracking.Release()
	v.view.ID().Send(selRemoveFromSuperview)
	v.view.Release()
}

func (c *cocoa) Keymap() translate.Keymap { return keycode.FromMac }

// Forwarder runs key-down events through the view's key bindings so input
// methods and dead keys see them.
func (c *cocoa) Forwarder(h registry.Handle) translate.Forwarder {
	view := objc.ID(h)
	return translate.ForwarderFunc(func(ne translate.NativeEvent) {
		if ne.Raw == 0 {
			return
		}
		pool := objc.ID(objc.GetClass("NSAutoreleasePool")).Send(selAlloc).Send(selInit)
		defer pool.Send(selDrain)

		events := objc.ID(objc.GetClass("NSArray")).Send(selArrayWithObject, objc.ID(ne.Raw))
		view.Send(selInterpretKeyEvents, events)
	})
}
