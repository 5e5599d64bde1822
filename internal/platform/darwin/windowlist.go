//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>
#include <stdlib.h>

typedef struct {
    int pid;
    int number;
    int layer;
    char *owner;
    char *title;
    double x, y, w, h;
} cg_window;

static char *dict_string(CFDictionaryRef d, CFStringRef key) {
    CFStringRef s = CFDictionaryGetValue(d, key);
    if (!s || CFGetTypeID(s) != CFStringGetTypeID()) return NULL;
    CFIndex max = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(max);
    if (buf && !CFStringGetCString(s, buf, max, kCFStringEncodingUTF8)) {
        free(buf);
        return NULL;
    }
    return buf;
}

static int dict_int(CFDictionaryRef d, CFStringRef key) {
    CFNumberRef n = CFDictionaryGetValue(d, key);
    int v = 0;
    if (n && CFGetTypeID(n) == CFNumberGetTypeID()) {
        CFNumberGetValue(n, kCFNumberIntType, &v);
    }
    return v;
}

// cg_on_screen_windows lists on-screen, non-desktop windows front to back.
static int cg_on_screen_windows(cg_window **out, int *count) {
    *out = NULL;
    *count = 0;
    CFArrayRef list = CGWindowListCopyWindowInfo(
        kCGWindowListOptionOnScreenOnly | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
    if (!list) return -1;

    CFIndex n = CFArrayGetCount(list);
    cg_window *wins = calloc(n > 0 ? n : 1, sizeof(cg_window));
    for (CFIndex i = 0; i < n; i++) {
        CFDictionaryRef d = CFArrayGetValueAtIndex(list, i);
        cg_window *w = &wins[i];
        w->pid = dict_int(d, kCGWindowOwnerPID);
        w->number = dict_int(d, kCGWindowNumber);
        w->layer = dict_int(d, kCGWindowLayer);
        w->owner = dict_string(d, kCGWindowOwnerName);
        w->title = dict_string(d, kCGWindowName);
        CFDictionaryRef b = CFDictionaryGetValue(d, kCGWindowBounds);
        CGRect r = CGRectZero;
        if (b) CGRectMakeWithDictionaryRepresentation(b, &r);
        w->x = r.origin.x;
        w->y = r.origin.y;
        w->w = r.size.width;
        w->h = r.size.height;
    }
    CFRelease(list);
    *out = wins;
    *count = (int)n;
    return 0;
}

static void cg_free_windows(cg_window *wins, int count) {
    for (int i = 0; i < count; i++) {
        free(wins[i].owner);
        free(wins[i].title);
    }
    free(wins);
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/windows"
)

// WindowList implements windows.Lister using CGWindowListCopyWindowInfo.
type WindowList struct{}

var _ windows.Lister = (*WindowList)(nil)

// NewWindowList creates a new macOS window lister.
func NewWindowList() *WindowList {
	return &WindowList{}
}

func (l *WindowList) OnScreenWindows() ([]model.Window, error) {
	var cWindows *C.cg_window
	var cCount C.int
	if C.cg_on_screen_windows(&cWindows, &cCount) != 0 {
		return nil, fmt.Errorf("failed to enumerate windows")
	}
	defer C.cg_free_windows(cWindows, cCount)

	count := int(cCount)
	if count == 0 {
		return []model.Window{}, nil
	}
	cSlice := unsafe.Slice(cWindows, count)

	out := make([]model.Window, 0, count)
	for _, cw := range cSlice {
		w := model.Window{
			PID:          int(cw.pid),
			WindowNumber: int(cw.number),
			Layer:        int(cw.layer),
			Bounds: model.Bounds{
				X:      int(cw.x),
				Y:      int(cw.y),
				Width:  int(cw.w),
				Height: int(cw.h),
			},
		}
		if cw.owner != nil {
			w.OwnerName = C.GoString(cw.owner)
		}
		if cw.title != nil {
			w.Title = C.GoString(cw.title)
		}
		out = append(out, w)
	}
	return out, nil
}
