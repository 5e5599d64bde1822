//go:build cgo

package robot

import (
	"fmt"
	"math"

	"github.com/go-vgo/robotgo"
	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/platform"
)

func init() {
	platform.RegisterBackend("robotgo", func(p *platform.Provider, _ platform.Options) error {
		p.Input = NewDevice()
		return nil
	})
}

// Device implements input.Device with robotgo.
type Device struct{}

var _ input.Device = (*Device)(nil)

// NewDevice creates a robotgo-backed input device.
func NewDevice() *Device {
	return &Device{}
}

func toPixel(v float64) int {
	return int(math.Round(v))
}

func (d *Device) Move(p model.Point) error {
	robotgo.Move(toPixel(p.X), toPixel(p.Y))
	return nil
}

func (d *Device) MouseDown(p model.Point) error {
	robotgo.Move(toPixel(p.X), toPixel(p.Y))
	if err := robotgo.Toggle("left"); err != nil {
		return fmt.Errorf("left button down: %w", err)
	}
	return nil
}

func (d *Device) MouseUp(p model.Point) error {
	robotgo.Move(toPixel(p.X), toPixel(p.Y))
	if err := robotgo.Toggle("left", "up"); err != nil {
		return fmt.Errorf("left button up: %w", err)
	}
	return nil
}

func (d *Device) KeyDown(key string, mods []input.Modifier) error {
	return d.toggle(key, "down", mods)
}

func (d *Device) KeyUp(key string, mods []input.Modifier) error {
	return d.toggle(key, "up", mods)
}

func (d *Device) toggle(key, dir string, mods []input.Modifier) error {
	args := []interface{}{dir}
	for _, m := range mods {
		args = append(args, modifierName(m))
	}
	if err := robotgo.KeyToggle(key, args...); err != nil {
		return fmt.Errorf("key %s %s: %w", key, dir, err)
	}
	return nil
}

// modifierName maps a modifier to robotgo's key name.
func modifierName(m input.Modifier) string {
	switch m {
	case input.ModCommand:
		return "cmd"
	case input.ModControl:
		return "ctrl"
	case input.ModOption:
		return "alt"
	default:
		return string(m)
	}
}

func (d *Device) Location() (model.Point, error) {
	x, y := robotgo.Location()
	return model.Point{X: float64(x), Y: float64(y)}, nil
}

func (d *Device) MainScreen() (model.Screen, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return model.Screen{}, fmt.Errorf("main screen size unavailable")
	}
	scale := robotgo.ScaleF()
	if scale <= 0 {
		scale = 1
	}
	return model.Screen{Width: w, Height: h, Scale: scale}, nil
}

func (d *Device) SetClipboard(text string) error {
	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
