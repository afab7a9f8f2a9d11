// Package attrs holds the window configuration captured at creation time.
package attrs

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultTitle is used when no title is configured.
const DefaultTitle = "plugview window"

// Default client size when Dimensions is unset and the platform has no
// default of its own.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// Monitor identifies a display for fullscreen windows.
type Monitor struct {
	Name    string `yaml:"name"`
	Adapter string `yaml:"adapter"` // e.g. \\.\DISPLAY1
	X       int32  `yaml:"x"`
	Y       int32  `yaml:"y"`
	Width   uint32 `yaml:"width"`
	Height  uint32 `yaml:"height"`
}

// ResizeFunc is called with the new client size after a resize.
type ResizeFunc func(width, height uint32)

// Attributes is the requested configuration of a window.
type Attributes struct {
	Dimensions    *Size    `yaml:"dimensions,omitempty"`
	MinDimensions *Size    `yaml:"minDimensions,omitempty"`
	MaxDimensions *Size    `yaml:"maxDimensions,omitempty"`
	Monitor       *Monitor `yaml:"monitor,omitempty"`
	Title         string   `yaml:"title"`
	Visible       bool     `yaml:"visible"`
	Transparent   bool     `yaml:"transparent"`
	Decorations   bool     `yaml:"decorations"`
	Multitouch    bool     `yaml:"multitouch"`

	// MaxPendingEvents bounds the pending event queue; 0 is unbounded.
	MaxPendingEvents int `yaml:"maxPendingEvents,omitempty"`

	// Parent is the native view or window to embed into. Zero creates a
	// standalone window.
	Parent uintptr `yaml:"-"`

	OnResize ResizeFunc `yaml:"-"`
}

// Default returns visible, decorated attributes with the default title.
func Default() Attributes {
	return Attributes{
		Title:       DefaultTitle,
		Visible:     true,
		Decorations: true,
	}
}

func (a *Attributes) normalize() {
	if a.Title == "" {
		a.Title = DefaultTitle
	}
}

// Clone returns a deep copy, so the creator never races with later
// caller-side mutation.
func (a Attributes) Clone() Attributes {
	out := a
	if a.Dimensions != nil {
		d := *a.Dimensions
		out.Dimensions = &d
	}
	if a.MinDimensions != nil {
		d := *a.MinDimensions
		out.MinDimensions = &d
	}
	if a.MaxDimensions != nil {
		d := *a.MaxDimensions
		out.MaxDimensions = &d
	}
	if a.Monitor != nil {
		m := *a.Monitor
		out.Monitor = &m
	}
	return out
}

// Size returns the requested client size or the defaults.
func (a Attributes) Size() (width, height uint32) {
	if a.Dimensions != nil {
		return a.Dimensions.Width, a.Dimensions.Height
	}
	return DefaultWidth, DefaultHeight
}

// Parse decodes YAML window attributes on top of Default().
func Parse(data []byte) (Attributes, error) {
	a := Default()
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Attributes{}, err
	}
	a.normalize()
	return a, nil
}

// Load reads YAML window attributes from path.
func Load(path string) (Attributes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attributes{}, fmt.Errorf("read %s: %w", path, err)
	}
	a, err := Parse(data)
	if err != nil {
		return Attributes{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return a, nil
}

// Shared is the mutable attribute record shared between a window and its
// native callback context.
type Shared struct {
	mu sync.RWMutex
	a  Attributes
}

// NewShared wraps a.
func NewShared(a Attributes) *Shared {
	return &Shared{a: a}
}

// Snapshot returns a copy of the current attributes.
func (s *Shared) Snapshot() Attributes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Clone()
}

// Update applies fn under the write lock.
func (s *Shared) Update(fn func(*Attributes)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.a)
}
