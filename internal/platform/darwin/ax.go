//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

extern AXError _AXUIElementGetWindow(AXUIElementRef element, CGWindowID *out);

enum {
    AXV_UNSUPPORTED = 0,
    AXV_STRING = 1,
    AXV_BOOL = 2,
    AXV_NUMBER = 3,
    AXV_POINT = 4,
    AXV_SIZE = 5,
    AXV_ELEMENT = 6,
};

typedef struct {
    int kind;
    char *str;
    int boolean;
    double number;
    double a;
    double b;
} ax_value;

static char *cfstring_to_utf8(CFStringRef s) {
    CFIndex len = CFStringGetLength(s);
    CFIndex max = CFStringGetMaximumSizeForEncoding(len, kCFStringEncodingUTF8) + 1;
    char *buf = malloc(max);
    if (!buf) return NULL;
    if (!CFStringGetCString(s, buf, max, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static void ax_release(AXUIElementRef el) { CFRelease(el); }
static unsigned long ax_hash(AXUIElementRef el) { return (unsigned long)CFHash(el); }

static AXError ax_copy_value(AXUIElementRef el, const char *attr, ax_value *out) {
    memset(out, 0, sizeof(*out));
    CFStringRef name = CFStringCreateWithCString(NULL, attr, kCFStringEncodingUTF8);
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, name, &value);
    CFRelease(name);
    if (err != kAXErrorSuccess) return err;
    if (value == NULL) return kAXErrorNoValue;

    CFTypeID t = CFGetTypeID(value);
    if (t == CFStringGetTypeID()) {
        out->str = cfstring_to_utf8((CFStringRef)value);
        out->kind = out->str ? AXV_STRING : AXV_UNSUPPORTED;
    } else if (t == CFBooleanGetTypeID()) {
        out->kind = AXV_BOOL;
        out->boolean = CFBooleanGetValue((CFBooleanRef)value) ? 1 : 0;
    } else if (t == CFNumberGetTypeID()) {
        out->kind = AXV_NUMBER;
        CFNumberGetValue((CFNumberRef)value, kCFNumberDoubleType, &out->number);
    } else if (t == CFURLGetTypeID()) {
        CFStringRef s = CFURLGetString((CFURLRef)value);
        out->str = s ? cfstring_to_utf8(s) : NULL;
        out->kind = out->str ? AXV_STRING : AXV_UNSUPPORTED;
    } else if (t == AXValueGetTypeID()) {
        AXValueType vt = AXValueGetType((AXValueRef)value);
        if (vt == kAXValueCGPointType) {
            CGPoint p;
            if (AXValueGetValue((AXValueRef)value, kAXValueCGPointType, &p)) {
                out->kind = AXV_POINT;
                out->a = p.x;
                out->b = p.y;
            }
        } else if (vt == kAXValueCGSizeType) {
            CGSize s;
            if (AXValueGetValue((AXValueRef)value, kAXValueCGSizeType, &s)) {
                out->kind = AXV_SIZE;
                out->a = s.width;
                out->b = s.height;
            }
        }
    } else if (t == AXUIElementGetTypeID()) {
        out->kind = AXV_ELEMENT;
    }
    CFRelease(value);
    return kAXErrorSuccess;
}

// ax_copy_element returns a retained element-valued attribute.
static AXError ax_copy_element(AXUIElementRef el, const char *attr, AXUIElementRef *out) {
    *out = NULL;
    CFStringRef name = CFStringCreateWithCString(NULL, attr, kCFStringEncodingUTF8);
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, name, &value);
    CFRelease(name);
    if (err != kAXErrorSuccess) return err;
    if (value == NULL) return kAXErrorNoValue;
    if (CFGetTypeID(value) != AXUIElementGetTypeID()) {
        CFRelease(value);
        return kAXErrorNoValue;
    }
    *out = (AXUIElementRef)value;
    return kAXErrorSuccess;
}

// ax_copy_elements returns a malloc'd array of retained elements.
static AXError ax_copy_elements(AXUIElementRef el, const char *attr, AXUIElementRef **out, int *count) {
    *out = NULL;
    *count = 0;
    CFStringRef name = CFStringCreateWithCString(NULL, attr, kCFStringEncodingUTF8);
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, name, &value);
    CFRelease(name);
    if (err != kAXErrorSuccess) return err;
    if (value == NULL) return kAXErrorNoValue;
    if (CFGetTypeID(value) != CFArrayGetTypeID()) {
        CFRelease(value);
        return kAXErrorNoValue;
    }
    CFArrayRef arr = (CFArrayRef)value;
    CFIndex n = CFArrayGetCount(arr);
    if (n == 0) {
        CFRelease(value);
        return kAXErrorSuccess;
    }
    AXUIElementRef *items = malloc(sizeof(AXUIElementRef) * n);
    int kept = 0;
    for (CFIndex i = 0; i < n; i++) {
        CFTypeRef item = CFArrayGetValueAtIndex(arr, i);
        if (item && CFGetTypeID(item) == AXUIElementGetTypeID()) {
            CFRetain(item);
            items[kept++] = (AXUIElementRef)item;
        }
    }
    CFRelease(value);
    *out = items;
    *count = kept;
    return kAXErrorSuccess;
}

static AXUIElementRef ax_element_at(AXUIElementRef *items, int i) { return items[i]; }

static AXError ax_pid(AXUIElementRef el, int *pid) {
    pid_t p = 0;
    AXError err = AXUIElementGetPid(el, &p);
    *pid = (int)p;
    return err;
}

static AXError ax_window_number(AXUIElementRef el, int *out) {
    CGWindowID id = 0;
    AXError err = _AXUIElementGetWindow(el, &id);
    *out = (int)id;
    return err;
}

static AXUIElementRef ax_system_wide(void) { return AXUIElementCreateSystemWide(); }
static AXUIElementRef ax_application(int pid) { return AXUIElementCreateApplication((pid_t)pid); }
*/
import "C"
import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/model"
)

// axNames maps attribute keys to macOS accessibility attribute names.
var axNames = map[string]string{
	ax.AttrRole:            "AXRole",
	ax.AttrSubrole:         "AXSubrole",
	ax.AttrRoleDescription: "AXRoleDescription",
	ax.AttrTitle:           "AXTitle",
	ax.AttrValue:           "AXValue",
	ax.AttrDescription:     "AXDescription",
	ax.AttrHelp:            "AXHelp",
	ax.AttrEnabled:         "AXEnabled",
	ax.AttrFocused:         "AXFocused",
	ax.AttrPosition:        "AXPosition",
	ax.AttrSize:            "AXSize",
	ax.AttrWindow:          "AXWindow",
	ax.AttrSelected:        "AXSelected",
	ax.AttrExpanded:        "AXExpanded",
	ax.AttrIdentifier:      "AXIdentifier",
	ax.AttrURL:             "AXURL",
	ax.AttrIndex:           "AXIndex",
	ax.AttrText:            "AXText",
	ax.AttrPlaceholder:     "AXPlaceholderValue",
	ax.AttrIsEditable:      "AXIsEditable",
	ax.AttrIsMain:          "AXMain",
	ax.AttrIsMinimized:     "AXMinimized",
	ax.AttrIsModal:         "AXModal",
}

// axError converts an AXError code into a Go error.
func axError(code C.AXError, what string) error {
	switch code {
	case C.kAXErrorSuccess:
		return nil
	case C.kAXErrorInvalidUIElement:
		return fmt.Errorf("%s: %w", what, ax.ErrInvalidElement)
	case C.kAXErrorAttributeUnsupported, C.kAXErrorNoValue, C.kAXErrorNotImplemented:
		return fmt.Errorf("%s: %w", what, ax.ErrNoValue)
	case C.kAXErrorAPIDisabled:
		return fmt.Errorf("%s: %w", what, ErrAccessibilityDisabled)
	default:
		return fmt.Errorf("%s: AXError %d", what, int(code))
	}
}

// Element wraps a retained AXUIElementRef.
type Element struct {
	ref C.AXUIElementRef
}

var _ ax.Element = (*Element)(nil)

// wrap takes ownership of a retained reference.
func wrap(ref C.AXUIElementRef) *Element {
	el := &Element{ref: ref}
	runtime.SetFinalizer(el, func(e *Element) { C.ax_release(e.ref) })
	return el
}

func (e *Element) Attribute(name string) (model.Value, error) {
	axName, ok := axNames[name]
	if !ok {
		return model.Unsupported, fmt.Errorf("attribute %q: %w", name, ax.ErrNoValue)
	}
	cName := C.CString(axName)
	defer C.free(unsafe.Pointer(cName))

	var v C.ax_value
	code := C.ax_copy_value(e.ref, cName, &v)
	runtime.KeepAlive(e)
	if err := axError(code, axName); err != nil {
		return model.Unsupported, err
	}
	if v.str != nil {
		defer C.free(unsafe.Pointer(v.str))
	}

	switch v.kind {
	case C.AXV_STRING:
		return model.StringValue(C.GoString(v.str)), nil
	case C.AXV_BOOL:
		return model.BoolValue(v.boolean != 0), nil
	case C.AXV_NUMBER:
		return model.NumberValue(float64(v.number)), nil
	case C.AXV_POINT:
		return model.PointValue(model.Point{X: float64(v.a), Y: float64(v.b)}), nil
	case C.AXV_SIZE:
		return model.SizeValue(model.Size{Width: float64(v.a), Height: float64(v.b)}), nil
	case C.AXV_ELEMENT:
		return model.ElementValue(), nil
	default:
		return model.Unsupported, fmt.Errorf("%s: %w", axName, ax.ErrNoValue)
	}
}

func (e *Element) Children() ([]ax.Element, error) {
	return copyElements(e.ref, "AXChildren")
}

func (e *Element) Window() (ax.Element, error) {
	cName := C.CString("AXWindow")
	defer C.free(unsafe.Pointer(cName))

	var ref C.AXUIElementRef
	code := C.ax_copy_element(e.ref, cName, &ref)
	runtime.KeepAlive(e)
	if err := axError(code, "AXWindow"); err != nil {
		return nil, err
	}
	return wrap(ref), nil
}

func (e *Element) WindowNumber() (int, error) {
	var id C.int
	code := C.ax_window_number(e.ref, &id)
	runtime.KeepAlive(e)
	if err := axError(code, "window number"); err != nil {
		return 0, err
	}
	return int(id), nil
}

func (e *Element) PID() (int, error) {
	var pid C.int
	code := C.ax_pid(e.ref, &pid)
	runtime.KeepAlive(e)
	if err := axError(code, "pid"); err != nil {
		return 0, err
	}
	return int(pid), nil
}

// Key is the CoreFoundation hash of the element. Equal elements hash
// equally, so a revisited UI object is recognized across handles.
func (e *Element) Key() uint64 {
	k := uint64(C.ax_hash(e.ref))
	runtime.KeepAlive(e)
	return k
}

func copyElements(ref C.AXUIElementRef, attr string) ([]ax.Element, error) {
	cName := C.CString(attr)
	defer C.free(unsafe.Pointer(cName))

	var items *C.AXUIElementRef
	var count C.int
	code := C.ax_copy_elements(ref, cName, &items, &count)
	if err := axError(code, attr); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, nil
	}
	defer C.free(unsafe.Pointer(items))

	out := make([]ax.Element, 0, int(count))
	for i := 0; i < int(count); i++ {
		out = append(out, wrap(C.ax_element_at(items, C.int(i))))
	}
	return out, nil
}

// System implements ax.System over the macOS accessibility API.
type System struct{}

var _ ax.System = (*System)(nil)

// NewSystem returns the macOS accessibility entry point.
func NewSystem() *System {
	return &System{}
}

func (s *System) FocusedElement() (ax.Element, error) {
	sys := wrap(C.ax_system_wide())
	cName := C.CString("AXFocusedUIElement")
	defer C.free(unsafe.Pointer(cName))

	var ref C.AXUIElementRef
	code := C.ax_copy_element(sys.ref, cName, &ref)
	runtime.KeepAlive(sys)
	if err := axError(code, "focused element"); err != nil {
		return nil, fmt.Errorf("%w: %v", ax.ErrNoFocus, err)
	}
	return wrap(ref), nil
}

func (s *System) ApplicationWindows(pid int) ([]ax.Element, error) {
	app := wrap(C.ax_application(C.int(pid)))
	wins, err := copyElements(app.ref, "AXWindows")
	runtime.KeepAlive(app)
	return wins, err
}

// AppName returns the accessibility title of the application with pid.
func (s *System) AppName(pid int) (string, error) {
	app := &Element{ref: C.ax_application(C.int(pid))}
	defer C.ax_release(app.ref)

	v, err := app.Attribute(ax.AttrTitle)
	if err != nil {
		return "", err
	}
	if v.Kind != model.KindString {
		return "", fmt.Errorf("application %d: %w", pid, ax.ErrNoValue)
	}
	return v.String, nil
}
