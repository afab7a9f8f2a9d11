package attrs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	a, err := Parse([]byte(`
title: synth editor
visible: false
dimensions:
  width: 640
  height: 480
monitor:
  name: primary
  adapter: \\.\DISPLAY1
  x: 1920
maxPendingEvents: 4096
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Attributes{
		Title:            "synth editor",
		Visible:          false,
		Decorations:      true,
		Dimensions:       &Size{Width: 640, Height: 480},
		Monitor:          &Monitor{Name: "primary", Adapter: `\\.\DISPLAY1`, X: 1920},
		MaxPendingEvents: 4096,
	}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	a, err := Parse([]byte(`title: ""`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.Title != DefaultTitle || !a.Visible || !a.Decorations {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if w, h := a.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Fatalf("Size() = %dx%d", w, h)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "window.yaml")
	if err := os.WriteFile(path, []byte("title: from disk\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Title != "from disk" {
		t.Fatalf("Title = %q", a.Title)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded")
	}
	if err := os.WriteFile(path, []byte("title: [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of invalid YAML succeeded")
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := Default()
	a.Dimensions = &Size{Width: 1, Height: 2}
	a.Monitor = &Monitor{Name: "m"}
	c := a.Clone()
	a.Dimensions.Width = 99
	a.Monitor.Name = "changed"
	if c.Dimensions.Width != 1 || c.Monitor.Name != "m" {
		t.Fatalf("Clone shares memory with its source: %+v %+v", c.Dimensions, c.Monitor)
	}
}

func TestShared(t *testing.T) {
	s := NewShared(Default())
	snap := s.Snapshot()
	s.Update(func(a *Attributes) { a.Title = "renamed" })
	if snap.Title != DefaultTitle {
		t.Fatalf("snapshot changed to %q", snap.Title)
	}
	if got := s.Snapshot().Title; got != "renamed" {
		t.Fatalf("Title = %q after Update", got)
	}
}
