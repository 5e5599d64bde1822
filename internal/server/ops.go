package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/platform"
)

// The operations below are shared by the HTTP handlers and MCP tools.
// Each validates its input before touching the OS.

var errNoApps = errors.New("application catalog is not supported on this platform")

func (s *Server) moveCursor(x, y float64) (string, error) {
	if err := checkPoint(model.Point{X: x, Y: y}); err != nil {
		return "", err
	}
	if err := s.injector.MoveCursor(model.Point{X: x, Y: y}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Moved cursor to (%g, %g)", x, y), nil
}

func checkPoint(p model.Point) error {
	for _, c := range []float64{p.X, p.Y} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return badRequest("coordinates must be finite, got (%g, %g)", p.X, p.Y)
		}
	}
	return nil
}

// click clicks at p, or at the current pointer location when p is nil.
func (s *Server) click(p *model.Point) (string, error) {
	if p == nil {
		if err := s.injector.ClickAtCursor(); err != nil {
			return "", err
		}
		return "Clicked at cursor", nil
	}
	if err := checkPoint(*p); err != nil {
		return "", err
	}
	if err := s.injector.Click(*p); err != nil {
		return "", err
	}
	return fmt.Sprintf("Clicked at (%g, %g)", p.X, p.Y), nil
}

func (s *Server) paste(ctx context.Context, text *string) (string, error) {
	if text == nil {
		return "", badRequest("missing required field: text")
	}
	if err := s.injector.Paste(ctx, *text); err != nil {
		return "", err
	}
	return "Pasted text", nil
}

func (s *Server) pressKeys(key string, modifiers []string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", badRequest("missing required field: key")
	}
	mods, err := input.ParseModifiers(modifiers)
	if err != nil {
		return "", err
	}
	if err := s.injector.PressKeysWithModifiers(mods, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("Pressed %s", describeCombo(mods, key)), nil
}

// pressCombo presses a "+"-joined combo such as "cmd+shift+t".
func (s *Server) pressCombo(combo string) (string, error) {
	key, mods, err := input.ParseCombo(strings.Split(combo, "+"))
	if err != nil {
		if errors.Is(err, input.ErrUnknownKey) {
			return "", err
		}
		return "", badRequest("%v", err)
	}
	if err := s.injector.PressKeysWithModifiers(mods, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("Pressed %s", describeCombo(mods, key)), nil
}

func describeCombo(mods []input.Modifier, key string) string {
	parts := make([]string, 0, len(mods)+1)
	for _, m := range mods {
		parts = append(parts, string(m))
	}
	return strings.Join(append(parts, key), "+")
}

func (s *Server) screenshot(ctx context.Context) ([]byte, error) {
	return s.capture.CaptureJPEG(ctx, s.cfg.Capture.JPEGQuality)
}

func (s *Server) execute(ctx context.Context, command string, args []string) (model.CommandResult, error) {
	if !s.cfg.Execute.Enabled {
		return model.CommandResult{}, fmt.Errorf("%w: command execution is disabled", errForbidden)
	}
	if command == "" {
		return model.CommandResult{}, badRequest("missing required field: command")
	}
	res := s.runner.Run(ctx, command, args)
	if !res.Spawned() {
		s.logger.Warn("command did not start", "command", command, "error", res.Error)
	}
	return res, nil
}

func (s *Server) listApps() ([]model.App, error) {
	if s.apps == nil {
		return nil, errNoApps
	}
	apps, err := s.apps.Apps()
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	if apps == nil {
		apps = []model.App{}
	}
	return apps, nil
}

// launchApp opens an app by bundle identifier or, failing that, by
// case-insensitive display name.
func (s *Server) launchApp(ctx context.Context, bundleID, appName string) (string, error) {
	if bundleID == "" && appName == "" {
		return "", badRequest("either bundleId or appName is required")
	}
	if s.apps == nil {
		return "", errNoApps
	}
	if bundleID == "" {
		apps, err := s.listApps()
		if err != nil {
			return "", err
		}
		if bundleID, err = platform.ResolveBundleID(apps, appName); err != nil {
			return "", err
		}
	}
	if err := s.apps.Launch(ctx, bundleID); err != nil {
		return "", err
	}
	s.logger.Info("launched application", "bundleId", bundleID)
	return "Application launch request received", nil
}

func (s *Server) listWindows() ([]model.Window, error) {
	wins, err := s.windows.ListWindows(s.cfg.Windows.MinOwnerPID)
	if err != nil {
		return nil, err
	}
	return wins, nil
}

// windowTree exports the first window of pid, or the focused window when
// pid is nil.
func (s *Server) windowTree(pid *int) (model.AccessibilityNode, error) {
	var root ax.Element
	var err error
	if pid != nil {
		if *pid <= 0 {
			return model.AccessibilityNode{}, badRequest("pid must be positive, got %d", *pid)
		}
		root, err = s.windows.FirstWindow(*pid)
	} else {
		root, err = s.resolver.FocusedWindow()
	}
	if err != nil {
		return model.AccessibilityNode{}, err
	}
	node, err := s.exporter.Export(root)
	if err != nil {
		return node, err
	}
	s.logger.Debug("exported window tree", "nodes", node.Count())
	return node, nil
}

func (s *Server) focus() model.FocusInfo {
	return s.resolver.ResolveFocus()
}
