// Package input synthesizes pointer and keyboard events.
package input

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// DefaultPasteSettle is the pause between staging the clipboard and sending
// the paste shortcut, so slow receivers see the new contents.
const DefaultPasteSettle = 500 * time.Millisecond

// Device posts raw input events. Coordinates are logical screen units with
// the origin at the top-left of the main display.
type Device interface {
	Move(p model.Point) error
	MouseDown(p model.Point) error
	MouseUp(p model.Point) error
	KeyDown(key string, mods []Modifier) error
	KeyUp(key string, mods []Modifier) error
	Location() (model.Point, error)
	MainScreen() (model.Screen, error)
	SetClipboard(text string) error
}

// Injector turns high-level requests into ordered device events. It holds
// no locks: concurrent callers interleave at the OS level.
type Injector struct {
	Device        Device
	PasteSettle   time.Duration
	PasteModifier Modifier
}

var errNoDevice = errors.New("input device is not available")

// MoveCursor posts a single positional event.
func (in *Injector) MoveCursor(p model.Point) error {
	if in.Device == nil {
		return errNoDevice
	}
	if err := in.Device.Move(p); err != nil {
		return fmt.Errorf("move cursor to (%g, %g): %w", p.X, p.Y, err)
	}
	return nil
}

// Click presses and releases the primary button at p.
func (in *Injector) Click(p model.Point) error {
	if in.Device == nil {
		return errNoDevice
	}
	if err := in.Device.MouseDown(p); err != nil {
		return fmt.Errorf("mouse down at (%g, %g): %w", p.X, p.Y, err)
	}
	if err := in.Device.MouseUp(p); err != nil {
		return fmt.Errorf("mouse up at (%g, %g): %w", p.X, p.Y, err)
	}
	return nil
}

// ClickAtCursor clicks wherever the pointer currently is.
func (in *Injector) ClickAtCursor() error {
	if in.Device == nil {
		return errNoDevice
	}
	p, err := in.Device.Location()
	if err != nil {
		return fmt.Errorf("read cursor: %w", err)
	}
	return in.Click(p)
}

// PressKey presses and releases key with no modifiers.
func (in *Injector) PressKey(key string) error {
	return in.PressKeysWithModifiers(nil, key)
}

// PressKeysWithModifiers presses and releases key; both events carry mods.
func (in *Injector) PressKeysWithModifiers(mods []Modifier, key string) error {
	if in.Device == nil {
		return errNoDevice
	}
	k, err := ParseKey(key)
	if err != nil {
		return err
	}
	if err := in.Device.KeyDown(k, mods); err != nil {
		return fmt.Errorf("key down %q: %w", k, err)
	}
	if err := in.Device.KeyUp(k, mods); err != nil {
		return fmt.Errorf("key up %q: %w", k, err)
	}
	return nil
}

// Paste stages text on the clipboard, waits for the settle delay, then
// sends the paste shortcut. The clipboard is not restored afterwards.
func (in *Injector) Paste(ctx context.Context, text string) error {
	if in.Device == nil {
		return errNoDevice
	}
	if err := in.Device.SetClipboard(text); err != nil {
		return fmt.Errorf("stage clipboard: %w", err)
	}

	settle := in.PasteSettle
	if settle < 0 {
		settle = 0
	}
	if settle > 0 {
		t := time.NewTimer(settle)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
	return in.PressKeysWithModifiers([]Modifier{in.pasteModifier()}, "v")
}

func (in *Injector) pasteModifier() Modifier {
	if in.PasteModifier != "" {
		return in.PasteModifier
	}
	return DefaultPasteModifier()
}

// DefaultPasteModifier is command on macOS and control elsewhere.
func DefaultPasteModifier() Modifier {
	if runtime.GOOS == "darwin" {
		return ModCommand
	}
	return ModControl
}

// Cursor reports the pointer position and the main screen it is on.
func (in *Injector) Cursor() (model.Cursor, error) {
	if in.Device == nil {
		return model.Cursor{}, errNoDevice
	}
	p, err := in.Device.Location()
	if err != nil {
		return model.Cursor{}, fmt.Errorf("read cursor: %w", err)
	}
	screen, err := in.Device.MainScreen()
	if err != nil {
		return model.Cursor{}, fmt.Errorf("read screen: %w", err)
	}
	return model.Cursor{
		X:      int(math.Round(p.X)),
		Y:      int(math.Round(p.Y)),
		Screen: screen,
	}, nil
}
