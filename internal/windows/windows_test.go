package windows

import (
	"errors"
	"testing"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/model"
)

type staticLister struct {
	windows []model.Window
	err     error
}

func (l staticLister) OnScreenWindows() ([]model.Window, error) {
	return l.windows, l.err
}

type stubElement struct {
	ax.Element
	id int
}

type stubSystem map[int][]ax.Element

func (s stubSystem) FocusedElement() (ax.Element, error) { return nil, ax.ErrNoFocus }

func (s stubSystem) ApplicationWindows(pid int) ([]ax.Element, error) {
	wins, ok := s[pid]
	if !ok {
		return nil, errors.New("kAXErrorAPIDisabled")
	}
	return wins, nil
}

func TestListWindows_FloorFilter(t *testing.T) {
	e := Enumerator{Lister: staticLister{windows: []model.Window{
		{PID: 100, OwnerName: "WindowServer"},
		{PID: 2000, OwnerName: "Safari"},
		{PID: 3000, OwnerName: "Terminal"},
	}}}

	got, err := e.ListWindows(1500)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d windows, want 2", len(got))
	}
	if got[0].PID != 2000 || got[1].PID != 3000 {
		t.Errorf("got pids %d,%d, want 2000,3000", got[0].PID, got[1].PID)
	}
}

func TestFilterByOwnerPID_PreservesOrder(t *testing.T) {
	in := []model.Window{{PID: 5000, WindowNumber: 1}, {PID: 10, WindowNumber: 2}, {PID: 1200, WindowNumber: 3}, {PID: 5000, WindowNumber: 4}}
	got := FilterByOwnerPID(in, DefaultMinOwnerPID)

	want := []int{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("got %d windows, want %d", len(got), len(want))
	}
	for i, w := range got {
		if w.WindowNumber != want[i] {
			t.Errorf("index %d: got window %d, want %d", i, w.WindowNumber, want[i])
		}
		if w.PID < DefaultMinOwnerPID {
			t.Errorf("window %d below floor: pid %d", w.WindowNumber, w.PID)
		}
	}
}

func TestListWindows_Error(t *testing.T) {
	e := Enumerator{Lister: staticLister{err: errors.New("CGWindowListCopyWindowInfo failed")}}
	if _, err := e.ListWindows(0); err == nil {
		t.Fatal("expected error")
	}
	if _, err := (Enumerator{}).ListWindows(0); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("without a lister: got %v, want ErrUnavailable", err)
	}
}

func TestFirstWindow_TieBreak(t *testing.T) {
	first, second := stubElement{id: 1}, stubElement{id: 2}
	e := Enumerator{System: stubSystem{42: {first, second}}}

	for i := 0; i < 3; i++ {
		got, err := e.FirstWindow(42)
		if err != nil {
			t.Fatal(err)
		}
		if got.(stubElement).id != 1 {
			t.Errorf("call %d: got window %d, want 1", i, got.(stubElement).id)
		}
	}
}

func TestFirstWindow_NotFound(t *testing.T) {
	e := Enumerator{System: stubSystem{7: nil}}

	if _, err := e.FirstWindow(7); !errors.Is(err, ErrNoWindow) {
		t.Errorf("empty window list: got %v, want ErrNoWindow", err)
	}
	if _, err := e.FirstWindow(8); !errors.Is(err, ErrNoWindow) {
		t.Errorf("unknown pid: got %v, want ErrNoWindow", err)
	}
}

func TestFirstWindow_NoBackend(t *testing.T) {
	_, err := Enumerator{}.FirstWindow(7)
	if !errors.Is(err, ax.ErrUnavailable) {
		t.Errorf("got %v, want ax.ErrUnavailable", err)
	}
	if errors.Is(err, ErrNoWindow) {
		t.Errorf("a missing backend must not read as a missing window: %v", err)
	}
}
