//go:build cgo

package screen

import (
	"github.com/go-vgo/robotgo"
	"github.com/mj1618/desktop-pilot/internal/platform"
)

func init() {
	platform.RegisterBackend("screenshot", func(p *platform.Provider, opts platform.Options) error {
		src := NewSource(opts.FrameInterval, opts.Logger)
		src.ScaleOf = func(display int) float64 {
			return robotgo.ScaleF(display)
		}
		p.Screen = src
		return nil
	})
}
