package input

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// recorder is a Device that logs every event in order.
type recorder struct {
	mu        sync.Mutex
	events    []string
	pos       model.Point
	clipboard string
	failOn    string
}

func (r *recorder) log(format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := fmt.Sprintf(format, args...)
	if r.failOn != "" && strings.HasPrefix(ev, r.failOn) {
		return errors.New("event rejected")
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) Move(p model.Point) error {
	if err := r.log("move %g,%g", p.X, p.Y); err != nil {
		return err
	}
	r.mu.Lock()
	r.pos = p
	r.mu.Unlock()
	return nil
}

func (r *recorder) MouseDown(p model.Point) error { return r.log("down %g,%g", p.X, p.Y) }
func (r *recorder) MouseUp(p model.Point) error   { return r.log("up %g,%g", p.X, p.Y) }

func (r *recorder) KeyDown(key string, mods []Modifier) error {
	return r.log("keydown %s %v", key, mods)
}

func (r *recorder) KeyUp(key string, mods []Modifier) error {
	return r.log("keyup %s %v", key, mods)
}

func (r *recorder) Location() (model.Point, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pos, nil
}

func (r *recorder) MainScreen() (model.Screen, error) {
	return model.Screen{Width: 1920, Height: 1080, Scale: 2}, nil
}

func (r *recorder) SetClipboard(text string) error {
	if err := r.log("clipboard %s", text); err != nil {
		return err
	}
	r.mu.Lock()
	r.clipboard = text
	r.mu.Unlock()
	return nil
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func equalEvents(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("events:\n got  %q\n want %q", got, want)
	}
}

func TestClick_PressThenReleaseAtSamePoint(t *testing.T) {
	r := &recorder{}
	in := &Injector{Device: r}
	if err := in.Click(model.Point{X: 100, Y: 200}); err != nil {
		t.Fatal(err)
	}
	equalEvents(t, r.Events(), []string{"down 100,200", "up 100,200"})
}

func TestClick_DownFailureSkipsUp(t *testing.T) {
	r := &recorder{failOn: "down"}
	in := &Injector{Device: r}
	if err := in.Click(model.Point{X: 1, Y: 1}); err == nil {
		t.Fatal("expected error")
	}
	if len(r.Events()) != 0 {
		t.Errorf("no events expected, got %q", r.Events())
	}
}

func TestClickAtCursor(t *testing.T) {
	r := &recorder{pos: model.Point{X: 5, Y: 6}}
	in := &Injector{Device: r}
	if err := in.ClickAtCursor(); err != nil {
		t.Fatal(err)
	}
	equalEvents(t, r.Events(), []string{"down 5,6", "up 5,6"})
}

func TestPressKeysWithModifiers(t *testing.T) {
	r := &recorder{}
	in := &Injector{Device: r}
	if err := in.PressKeysWithModifiers([]Modifier{ModCommand, ModShift}, "T"); err != nil {
		t.Fatal(err)
	}
	equalEvents(t, r.Events(), []string{"keydown t [command shift]", "keyup t [command shift]"})

	if err := in.PressKey("nosuchkey"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("got %v, want ErrUnknownKey", err)
	}
}

func TestPaste_StagesBeforeShortcut(t *testing.T) {
	r := &recorder{}
	in := &Injector{Device: r, PasteSettle: 20 * time.Millisecond, PasteModifier: ModCommand}

	start := time.Now()
	if err := in.Paste(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("paste returned after %s, want at least the settle delay", elapsed)
	}
	equalEvents(t, r.Events(), []string{"clipboard hello", "keydown v [command]", "keyup v [command]"})
}

func TestPaste_CancelledDuringSettle(t *testing.T) {
	r := &recorder{}
	in := &Injector{Device: r, PasteSettle: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := in.Paste(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	equalEvents(t, r.Events(), []string{"clipboard x"})
}

func TestPaste_ClipboardFailure(t *testing.T) {
	r := &recorder{failOn: "clipboard"}
	in := &Injector{Device: r}
	if err := in.Paste(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if len(r.Events()) != 0 {
		t.Errorf("shortcut must not be sent when staging fails, got %q", r.Events())
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	r := &recorder{}
	in := &Injector{Device: r}
	if err := in.MoveCursor(model.Point{X: 960, Y: 540}); err != nil {
		t.Fatal(err)
	}
	c, err := in.Cursor()
	if err != nil {
		t.Fatal(err)
	}
	if c.X != 960 || c.Y != 540 {
		t.Errorf("got (%d, %d), want (960, 540)", c.X, c.Y)
	}
	if c.Screen.Scale != 2 {
		t.Errorf("scale: got %g, want 2", c.Screen.Scale)
	}
}

func TestNoDevice(t *testing.T) {
	in := &Injector{}
	if err := in.MoveCursor(model.Point{}); err == nil {
		t.Error("expected error without a device")
	}
	if _, err := in.Cursor(); err == nil {
		t.Error("expected error without a device")
	}
}
