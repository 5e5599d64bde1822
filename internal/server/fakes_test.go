package server

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/capture"
	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/platform"
)

// fakeDevice records input events and tracks the pointer.
type fakeDevice struct {
	mu        sync.Mutex
	pos       model.Point
	events    []string
	clipboard []string

	// onMove, when set, runs inside Move before the position changes.
	onMove func()
}

func (d *fakeDevice) record(ev string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *fakeDevice) Move(p model.Point) error {
	if d.onMove != nil {
		d.onMove()
	}
	d.mu.Lock()
	d.pos = p
	d.mu.Unlock()
	d.record("move")
	return nil
}

func (d *fakeDevice) MouseDown(p model.Point) error {
	d.record("down")
	return nil
}

func (d *fakeDevice) MouseUp(p model.Point) error {
	d.record("up")
	return nil
}

func (d *fakeDevice) KeyDown(key string, mods []input.Modifier) error {
	d.record("keydown:" + combo(key, mods))
	return nil
}

func (d *fakeDevice) KeyUp(key string, mods []input.Modifier) error {
	d.record("keyup:" + combo(key, mods))
	return nil
}

func combo(key string, mods []input.Modifier) string {
	parts := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, string(m))
	}
	return strings.Join(append(parts, key), "+")
}

func (d *fakeDevice) Location() (model.Point, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos, nil
}

func (d *fakeDevice) MainScreen() (model.Screen, error) {
	return model.Screen{Width: 1920, Height: 1080, Scale: 2}, nil
}

func (d *fakeDevice) SetClipboard(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clipboard = append(d.clipboard, text)
	return nil
}

func (d *fakeDevice) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

// fakeStream delivers a frame on Start unless silent.
type fakeStream struct {
	handler capture.FrameHandler
	frame   image.Image
	silent  bool
}

func (s *fakeStream) Start() error {
	if !s.silent {
		go s.handler(s.frame)
	}
	return nil
}

func (s *fakeStream) Stop() error { return nil }

type fakeSource struct {
	silent bool
}

func (f *fakeSource) Displays(context.Context) ([]capture.Display, error) {
	return []capture.Display{{ID: 1, Width: 8, Height: 6, Scale: 1}}, nil
}

func (f *fakeSource) Open(d capture.Display, cfg capture.StreamConfig, h capture.FrameHandler) (capture.Stream, error) {
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	return &fakeStream{handler: h, frame: img, silent: f.silent}, nil
}

// fakeElement is a static accessibility node.
type fakeElement struct {
	key      uint64
	attrs    map[string]model.Value
	children []*fakeElement
	window   *fakeElement
	number   int
	pid      int
	invalid  bool
}

func (f *fakeElement) Attribute(name string) (model.Value, error) {
	if f.invalid {
		return model.Unsupported, ax.ErrInvalidElement
	}
	v, ok := f.attrs[name]
	if !ok {
		return model.Unsupported, ax.ErrNoValue
	}
	return v, nil
}

func (f *fakeElement) Children() ([]ax.Element, error) {
	out := make([]ax.Element, len(f.children))
	for i, c := range f.children {
		out[i] = c
	}
	return out, nil
}

func (f *fakeElement) Window() (ax.Element, error) {
	if f.window == nil {
		return nil, ax.ErrNoWindow
	}
	return f.window, nil
}

func (f *fakeElement) WindowNumber() (int, error) { return f.number, nil }
func (f *fakeElement) PID() (int, error)          { return f.pid, nil }
func (f *fakeElement) Key() uint64                { return f.key }

func window(key uint64, title string, pid int) *fakeElement {
	return &fakeElement{
		key:    key,
		pid:    pid,
		number: int(key),
		attrs: map[string]model.Value{
			ax.AttrRole:  model.StringValue(ax.RoleWindow),
			ax.AttrTitle: model.StringValue(title),
		},
		children: []*fakeElement{{
			key:   key*100 + 1,
			pid:   pid,
			attrs: map[string]model.Value{ax.AttrRole: model.StringValue("AXButton")},
		}},
	}
}

type fakeSystem struct {
	focused ax.Element
	windows map[int][]ax.Element
}

func (s *fakeSystem) FocusedElement() (ax.Element, error) {
	if s.focused == nil {
		return nil, ax.ErrNoFocus
	}
	return s.focused, nil
}

func (s *fakeSystem) ApplicationWindows(pid int) ([]ax.Element, error) {
	wins, ok := s.windows[pid]
	if !ok {
		return nil, errors.New("no such process")
	}
	return wins, nil
}

type fakeNames map[int]string

func (n fakeNames) AppName(pid int) (string, error) {
	if name, ok := n[pid]; ok {
		return name, nil
	}
	return "", errors.New("unknown pid")
}

type fakeLister []model.Window

func (l fakeLister) OnScreenWindows() ([]model.Window, error) { return l, nil }

type fakeCatalog struct {
	apps     []model.App
	mu       sync.Mutex
	launched []string
}

func (c *fakeCatalog) Apps() ([]model.App, error) {
	return platform.SortApps(c.apps), nil
}

func (c *fakeCatalog) Launch(_ context.Context, bundleID string) error {
	if !platform.HasBundleID(c.apps, bundleID) {
		return platform.ErrAppNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.launched = append(c.launched, bundleID)
	return nil
}
