package ax

import (
	"fmt"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// Resolver answers questions about the current input focus.
type Resolver struct {
	System System
	Names  AppNamer
}

// ResolveFocus reports the process, application name and window that own
// keyboard focus. Lookups that fail degrade to the NoFocus sentinels; the
// absence of focus is a normal state, not an error.
func (r Resolver) ResolveFocus() model.FocusInfo {
	if r.System == nil {
		return model.NoFocus()
	}
	el, err := r.System.FocusedElement()
	if err != nil || el == nil {
		return model.NoFocus()
	}
	pid, err := el.PID()
	if err != nil || pid <= 0 {
		return model.NoFocus()
	}

	info := model.FocusInfo{PID: pid, AppName: model.UnknownApp}
	if r.Names != nil {
		if name, err := r.Names.AppName(pid); err == nil && name != "" {
			info.AppName = name
		}
	}
	if win, err := focusWindow(el); err == nil {
		if id, err := win.WindowNumber(); err == nil && id > 0 {
			info.WindowID = id
		}
	}
	return info
}

// FocusedWindow returns the window that owns the focused element.
func (r Resolver) FocusedWindow() (Element, error) {
	if r.System == nil {
		return nil, ErrUnavailable
	}
	el, err := r.System.FocusedElement()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFocus, err)
	}
	if el == nil {
		return nil, ErrNoFocus
	}
	win, err := focusWindow(el)
	if err != nil {
		return nil, fmt.Errorf("focused element: %w", err)
	}
	return win, nil
}

// focusWindow returns el's window, or el itself when it is a window.
func focusWindow(el Element) (Element, error) {
	win, err := el.Window()
	if err == nil && win != nil {
		return win, nil
	}
	if role, rerr := el.Attribute(AttrRole); rerr == nil && role.Kind == model.KindString && role.String == RoleWindow {
		return el, nil
	}
	if err == nil {
		err = ErrNoWindow
	}
	return nil, err
}
