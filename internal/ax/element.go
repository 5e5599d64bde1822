// Package ax materializes accessibility trees from live UI elements and
// resolves the element that currently holds keyboard focus.
package ax

import (
	"errors"

	"github.com/mj1618/desktop-pilot/internal/model"
)

var (
	// ErrInvalidElement is returned when an element handle can no longer be
	// queried at all, for example because its window has closed.
	ErrInvalidElement = errors.New("accessibility element is invalid")

	// ErrNoValue is returned when an element does not support an attribute
	// or has no value for it.
	ErrNoValue = errors.New("attribute has no value")

	// ErrNoFocus is returned when no element holds keyboard focus.
	ErrNoFocus = errors.New("no focused element")

	// ErrNoWindow is returned when an element is not owned by a window.
	ErrNoWindow = errors.New("element has no window")

	// ErrUnavailable is returned when no accessibility backend is wired.
	ErrUnavailable = errors.New("accessibility is not supported on this platform")
)

// Element is a handle to one node of the OS accessibility graph.
type Element interface {
	// Attribute returns the value of a named attribute from Attributes.
	Attribute(name string) (model.Value, error)

	// Children returns the element's children in platform order.
	Children() ([]Element, error)

	// Window returns the window element that owns this element.
	Window() (Element, error)

	// WindowNumber returns the system window identifier of a window element.
	WindowNumber() (int, error)

	// PID returns the owning process id.
	PID() (int, error)

	// Key identifies the underlying UI object. Two handles to the same
	// object return the same key. Zero means identity is unknown.
	Key() uint64
}

// System is the entry point into the accessibility graph.
type System interface {
	// FocusedElement returns the system-wide focused element.
	FocusedElement() (Element, error)

	// ApplicationWindows returns the windows of the application with pid,
	// in the order the application reports them.
	ApplicationWindows(pid int) ([]Element, error)
}

// AppNamer maps a process id to a display name.
type AppNamer interface {
	AppName(pid int) (string, error)
}

// Attribute names queried for every node, in query order.
const (
	AttrRole            = "role"
	AttrSubrole         = "subrole"
	AttrRoleDescription = "roleDescription"
	AttrTitle           = "title"
	AttrValue           = "value"
	AttrDescription     = "description"
	AttrHelp            = "help"
	AttrEnabled         = "enabled"
	AttrFocused         = "focused"
	AttrPosition        = "position"
	AttrSize            = "size"
	AttrWindow          = "window"
	AttrSelected        = "selected"
	AttrExpanded        = "expanded"
	AttrIdentifier      = "identifier"
	AttrURL             = "url"
	AttrIndex           = "index"
	AttrText            = "text"
	AttrPlaceholder     = "placeholder"
	AttrIsEditable      = "isEditable"
	AttrIsMain          = "isMain"
	AttrIsMinimized     = "isMinimized"
	AttrIsModal         = "isModal"
)

// RoleWindow is the role value reported by window elements.
const RoleWindow = "AXWindow"

// Attributes is the fixed, ordered attribute list queried on each node.
var Attributes = []string{
	AttrRole,
	AttrSubrole,
	AttrRoleDescription,
	AttrTitle,
	AttrValue,
	AttrDescription,
	AttrHelp,
	AttrEnabled,
	AttrFocused,
	AttrPosition,
	AttrSize,
	AttrWindow,
	AttrSelected,
	AttrExpanded,
	AttrIdentifier,
	AttrURL,
	AttrIndex,
	AttrText,
	AttrPlaceholder,
	AttrIsEditable,
	AttrIsMain,
	AttrIsMinimized,
	AttrIsModal,
}
