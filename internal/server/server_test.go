package server

import (
	"bytes"
	"encoding/json"
	"image/jpeg"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/capture"
	"github.com/mj1618/desktop-pilot/internal/config"
	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/logging"
	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/platform"
	"github.com/mj1618/desktop-pilot/internal/runner"
	"github.com/mj1618/desktop-pilot/internal/windows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv     *Server
	device  *fakeDevice
	system  *fakeSystem
	catalog *fakeCatalog
	cfg     *config.Config
}

func newFixture(t *testing.T, mutate ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Windows.MinOwnerPID = 1500
	cfg.Capture.Timeout = 200 * time.Millisecond
	cfg.Execute.Dir = t.TempDir()
	for _, m := range mutate {
		m(cfg)
	}

	first := window(11, "Document 1", 2000)
	second := window(12, "Document 2", 2000)
	focusedButton := &fakeElement{key: 99, pid: 3000, window: window(31, "Inbox", 3000)}

	f := &fixture{
		device: &fakeDevice{},
		system: &fakeSystem{
			focused: focusedButton,
			windows: map[int][]ax.Element{2000: {first, second}, 4000: {}},
		},
		catalog: &fakeCatalog{apps: []model.App{
			{AppName: "Safari", BundleID: "com.apple.Safari"},
			{AppName: "TextEdit", BundleID: "com.apple.TextEdit"},
		}},
		cfg: cfg,
	}
	f.srv = New(Options{
		Config:   cfg,
		Logger:   logging.Discard(),
		Injector: &input.Injector{Device: f.device, PasteModifier: input.ModCommand},
		Capture:  &capture.Engine{Source: &fakeSource{}, Timeout: cfg.Capture.Timeout},
		Resolver: ax.Resolver{System: f.system, Names: fakeNames{3000: "Mail"}},
		Windows: windows.Enumerator{
			Lister: fakeLister{
				{PID: 100, OwnerName: "Dock", WindowNumber: 1},
				{PID: 2000, OwnerName: "TextEdit", WindowNumber: 2},
				{PID: 3000, OwnerName: "Mail", WindowNumber: 3},
			},
			System: f.system,
		},
		Runner: runner.Runner{Dir: cfg.Execute.Dir},
		Apps:   f.catalog,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCursorRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/cursor/move", map[string]float64{"x": 960, "y": 540})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/cursor", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var c model.Cursor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.InDelta(t, 960, c.X, 1)
	assert.InDelta(t, 540, c.Y, 1)
	assert.Equal(t, model.Screen{Width: 1920, Height: 1080, Scale: 2}, c.Screen)
}

func TestMoveQuery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/cursor/move?x=10.5&y=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Point{X: 10.5, Y: 20}, f.device.pos)

	rec = f.do(t, http.MethodGet, "/cursor/move", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.Point{}, f.device.pos, "missing coordinates default to 0")

	rec = f.do(t, http.MethodGet, "/cursor/move?x=left", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.device.Events(), 2)
}

func TestMoveQuery_NonFiniteRejected(t *testing.T) {
	f := newFixture(t)
	for _, target := range []string{
		"/cursor/move?x=NaN&y=1",
		"/cursor/move?x=1&y=Inf",
		"/cursor/move?x=-Infinity",
		"/cursor/click?x=nan&y=2",
	} {
		rec := f.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Empty(t, f.device.Events())
}

func TestClick(t *testing.T) {
	f := newFixture(t)
	f.device.pos = model.Point{X: 5, Y: 5}

	rec := f.do(t, http.MethodGet, "/cursor/click", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"down", "up"}, f.device.Events())

	rec = f.do(t, http.MethodGet, "/cursor/click?x=1&y=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "(1, 2)")
}

func TestPaste(t *testing.T) {
	f := newFixture(t)
	f.srv.injector.PasteSettle = time.Millisecond

	rec := f.do(t, http.MethodPost, "/paste", map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"hello"}, f.device.clipboard)
	assert.Equal(t, []string{"keydown:command+v", "keyup:command+v"}, f.device.Events())
}

func TestPaste_MissingTextRejected(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"empty object", map[string]string{}},
		{"no body", nil},
		{"wrong field", map[string]string{"txt": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodPost, "/paste", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
			assert.Empty(t, f.device.clipboard)
			assert.Empty(t, f.device.Events())
		})
	}
}

func TestPaste_MalformedJSON(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/paste", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.device.clipboard)
}

func TestKeys(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/keys", map[string]any{"key": "T", "modifiers": []string{"cmd", "shift"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"keydown:command+shift+t", "keyup:command+shift+t"}, f.device.Events())

	rec = f.do(t, http.MethodPost, "/keys", map[string]any{"key": "t", "modifiers": []string{"hyper"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/keys", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenshot(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/screenshot", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	img, err := jpeg.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestScreenshot_TimeoutIsInternalError(t *testing.T) {
	f := newFixture(t)
	f.srv.capture = &capture.Engine{Source: &fakeSource{silent: true}, Timeout: 50 * time.Millisecond}

	start := time.Now()
	rec := f.do(t, http.MethodGet, "/screenshot", nil)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "timed out")
}

func TestExecute(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.Execute.Dir, "notes.txt"), []byte("x"), 0o644))

	rec := f.do(t, http.MethodPost, "/execute", map[string]any{"command": "ls", "args": []string{"-a", "-l"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.CommandResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.ExitStatus)
	assert.Equal(t, 0, *res.ExitStatus)
	require.NotNil(t, res.Output)
	assert.Contains(t, *res.Output, "notes.txt")
	assert.Empty(t, res.Error)
}

func TestFromProvider_ExecuteEnv(t *testing.T) {
	cfg := config.Default()
	cfg.Execute.Enabled = true
	cfg.Execute.Dir = t.TempDir()
	cfg.Execute.Env = []string{"PILOT_GREETING=hello"}
	srv := FromProvider(&platform.Provider{}, cfg, logging.Discard())

	data, err := json.Marshal(map[string]any{"command": "sh", "args": []string{"-c", "echo $PILOT_GREETING"}})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/execute", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res model.CommandResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotNil(t, res.Output)
	assert.Equal(t, "hello\n", *res.Output)
}

func TestExecute_SpawnFailureIsOK(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/execute", map[string]any{"command": "definitely-not-a-command-xyz"})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "exitStatus")
	assert.NotEmpty(t, raw["error"])
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/execute", map[string]any{"args": []string{"-l"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	disabled := newFixture(t, func(c *config.Config) { c.Execute.Enabled = false })
	rec = disabled.do(t, http.MethodPost, "/execute", map[string]any{"command": "ls"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApps(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/apps", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"appName":"Safari","bundleId":"com.apple.Safari"},{"appName":"TextEdit","bundleId":"com.apple.TextEdit"}]`, rec.Body.String())
}

func TestLaunch(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		want   []string
	}{
		{"by bundle id", "bundleId=com.apple.Safari", http.StatusOK, []string{"com.apple.Safari"}},
		{"by name ignoring case", "appName=textedit", http.StatusOK, []string{"com.apple.TextEdit"}},
		{"unknown name", "appName=Nope", http.StatusNotFound, nil},
		{"unknown bundle", "bundleId=com.example.nope", http.StatusNotFound, nil},
		{"no parameters", "", http.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodGet, "/apps/launch?"+tt.query, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, f.catalog.launched)
		})
	}
}

func TestWindows_FilterByOwnerPID(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/windows", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var wins []model.Window
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wins))
	var pids []int
	for _, w := range wins {
		pids = append(pids, w.PID)
	}
	assert.Equal(t, []int{2000, 3000}, pids)
}

func TestWindowInfo_FirstWindowIsStable(t *testing.T) {
	f := newFixture(t)

	first := f.do(t, http.MethodGet, "/windows/info?pid=2000", nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Contains(t, first.Body.String(), `"title": "Document 1"`)
	assert.NotContains(t, first.Body.String(), "Document 2")

	for i := 0; i < 3; i++ {
		again := f.do(t, http.MethodGet, "/windows/info?pid=2000", nil)
		assert.Equal(t, first.Body.String(), again.Body.String())
	}
}

func TestWindowInfo_Focused(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/windows/info", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title": "Inbox"`)
}

func TestWindowInfo_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"malformed pid", "?pid=abc", http.StatusBadRequest},
		{"non-positive pid", "?pid=0", http.StatusBadRequest},
		{"process without windows", "?pid=4000", http.StatusNotFound},
		{"unknown process", "?pid=5000", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(t, http.MethodGet, "/windows/info"+tt.query, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	f := newFixture(t)
	f.system.focused = nil
	rec := f.do(t, http.MethodGet, "/windows/info", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWindowInfo_FailureIsErrorDocument(t *testing.T) {
	f := newFixture(t)
	f.system.windows[6000] = []ax.Element{&fakeElement{key: 60, pid: 6000, invalid: true}}

	for target, status := range map[string]int{
		"/windows/info?pid=6000": http.StatusNotFound,
		"/windows/info?pid=4000": http.StatusNotFound,
		"/windows/info?pid=abc":  http.StatusBadRequest,
	} {
		rec := f.do(t, http.MethodGet, target, nil)
		assert.Equal(t, status, rec.Code, target)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), rec.Body.String())
		assert.Len(t, doc, 1, rec.Body.String())
		assert.NotEmpty(t, doc["error"], rec.Body.String())
	}
}

func TestWindowInfo_NonFiniteAttributeKeepsTree(t *testing.T) {
	f := newFixture(t)
	win := window(71, "Canvas", 7000)
	win.children[0].attrs[ax.AttrIndex] = model.NumberValue(math.NaN())
	f.system.windows[7000] = []ax.Element{win}

	rec := f.do(t, http.MethodGet, "/windows/info?pid=7000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.NotContains(t, doc, "error")
	assert.Equal(t, "Canvas", doc["title"])
	assert.Len(t, doc["children"], 1)
}

func TestFocus(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/focus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pid":3000,"appName":"Mail","windowId":31}`, rec.Body.String())

	f.system.focused = nil
	rec = f.do(t, http.MethodGet, "/focus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pid":0,"appName":"unknown","windowId":0}`, rec.Body.String())
}

func TestMissingBackendsAreInternalErrors(t *testing.T) {
	srv := New(Options{Logger: logging.Discard()})
	for _, target := range []string{"/cursor", "/screenshot", "/apps", "/windows", "/windows/info", "/windows/info?pid=2000"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.device.onMove = func() { panic("device exploded") }
	rec := f.do(t, http.MethodGet, "/cursor/move?x=1&y=1", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// Requests are not serialized: two moves can be inside the device at the
// same time.
func TestConcurrentRequestsAreNotSerialized(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	f.device.onMove = func() {
		entered <- struct{}{}
		<-release
	}

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/cursor/move?x=1&y=1", nil)
			rec := httptest.NewRecorder()
			f.srv.Handler().ServeHTTP(rec, req)
			codes[i] = rec.Code
		}()
	}

	for i := 0; i < 2; i++ {
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			close(release)
			t.Fatal("second request was blocked behind the first")
		}
	}
	close(release)
	wg.Wait()
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
}
