// Package windows enumerates on-screen windows and picks the window that
// represents a process.
package windows

import (
	"errors"
	"fmt"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/model"
)

// DefaultMinOwnerPID excludes low-numbered system and background processes.
const DefaultMinOwnerPID = 1000

var (
	// ErrNoWindow is returned when a process owns no windows.
	ErrNoWindow = errors.New("no window found")

	// ErrUnavailable is returned when no window list backend is wired.
	ErrUnavailable = errors.New("window listing is not supported on this platform")
)

// Lister reads the system window list.
type Lister interface {
	// OnScreenWindows returns on-screen, non-desktop windows front to back.
	OnScreenWindows() ([]model.Window, error)
}

// Enumerator combines the system window list with application-scoped
// accessibility windows.
type Enumerator struct {
	Lister Lister
	System ax.System
}

// ListWindows returns windows whose owner pid is at least minOwnerPID, in
// the order the system reported them.
func (e Enumerator) ListWindows(minOwnerPID int) ([]model.Window, error) {
	if e.Lister == nil {
		return nil, ErrUnavailable
	}
	all, err := e.Lister.OnScreenWindows()
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return FilterByOwnerPID(all, minOwnerPID), nil
}

// FilterByOwnerPID drops windows owned by processes below floor and keeps
// the relative order of the rest.
func FilterByOwnerPID(all []model.Window, floor int) []model.Window {
	out := make([]model.Window, 0, len(all))
	for _, w := range all {
		if w.PID < floor {
			continue
		}
		out = append(out, w)
	}
	return out
}

// WindowsForProcess returns the accessibility windows of pid.
func (e Enumerator) WindowsForProcess(pid int) ([]ax.Element, error) {
	if e.System == nil {
		return nil, ax.ErrUnavailable
	}
	wins, err := e.System.ApplicationWindows(pid)
	if err != nil {
		return nil, fmt.Errorf("windows for pid %d: %w", pid, err)
	}
	return wins, nil
}

// FirstWindow returns the first window pid reports. Applications list
// their windows in a stable order, so repeated calls agree while that order
// does not change.
func (e Enumerator) FirstWindow(pid int) (ax.Element, error) {
	wins, err := e.WindowsForProcess(pid)
	if errors.Is(err, ax.ErrUnavailable) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoWindow, err)
	}
	for _, w := range wins {
		if w != nil {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w for pid %d", ErrNoWindow, pid)
}
