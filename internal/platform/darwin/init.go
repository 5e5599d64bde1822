//go:build darwin && cgo

package darwin

import (
	"log/slog"

	"github.com/mj1618/desktop-pilot/internal/platform"
	"github.com/mj1618/desktop-pilot/internal/platform/bundles"
)

func init() {
	platform.RequestPermissionsFunc = requestPermissions
	platform.RegisterBackend("darwin", func(p *platform.Provider, opts platform.Options) error {
		warnIfUntrusted(opts.Logger, CheckAccessibilityPermission)
		sys := NewSystem()
		p.Accessibility = sys
		p.Windows = NewWindowList()
		p.Apps = bundles.NewCatalog(nil)
		// The accessibility title is the user-facing app name; it is asked
		// before any process-table namer.
		p.Names = append(platform.NameChain{sys}, p.Names...)
		return nil
	})
}

// warnIfUntrusted logs once at startup when accessibility access is
// missing. Tree exports and focus lookups still run and come back empty.
func warnIfUntrusted(logger *slog.Logger, check func() error) bool {
	if err := check(); err != nil {
		logger.Warn("accessibility permission not granted; window trees and focus will be empty",
			"error", err)
		return false
	}
	return true
}
