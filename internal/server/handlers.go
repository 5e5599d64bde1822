package server

import (
	"net/http"
	"strconv"

	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/model"
)

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "pong")
}

func (s *Server) handleCursor(w http.ResponseWriter, _ *http.Request) {
	c, err := s.injector.Cursor()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleMoveQuery(w http.ResponseWriter, r *http.Request) {
	x, _, err := queryFloat(r, "x", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	y, _, err := queryFloat(r, "y", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondText(w, func() (string, error) { return s.moveCursor(x, y) })
}

type moveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleMoveBody(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.respondText(w, func() (string, error) { return s.moveCursor(req.X, req.Y) })
}

// handleClick clicks at the current pointer, or at x/y when either is given.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	x, hasX, err := queryFloat(r, "x", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	y, hasY, err := queryFloat(r, "y", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	var at *model.Point
	if hasX || hasY {
		at = &model.Point{X: x, Y: y}
	}
	s.respondText(w, func() (string, error) { return s.click(at) })
}

type pasteRequest struct {
	Text *string `json:"text"`
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.respondText(w, func() (string, error) { return s.paste(r.Context(), req.Text) })
}

type keysRequest struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"`
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	var req keysRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.respondText(w, func() (string, error) { return s.pressKeys(req.Key, req.Modifiers) })
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	data, err := s.screenshot(r.Context())
	if err != nil {
		s.logger.Error("screenshot failed", "error", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type executeRequest struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := s.execute(r.Context(), req.Command, req.Args)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleApps(w http.ResponseWriter, _ *http.Request) {
	apps, err := s.listApps()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.respondText(w, func() (string, error) {
		return s.launchApp(r.Context(), q.Get("bundleId"), q.Get("appName"))
	})
}

func (s *Server) handleWindows(w http.ResponseWriter, _ *http.Request) {
	wins, err := s.listWindows()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wins)
}

func (s *Server) handleWindowInfo(w http.ResponseWriter, r *http.Request) {
	node, err := s.windowInfo(r)
	status := http.StatusOK
	if err != nil {
		status = statusOf(err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(ax.Document(node, err))
}

func (s *Server) windowInfo(r *http.Request) (model.AccessibilityNode, error) {
	raw := r.URL.Query().Get("pid")
	if raw == "" {
		return s.windowTree(nil)
	}
	pid, err := strconv.Atoi(raw)
	if err != nil {
		return model.AccessibilityNode{}, badRequest("query parameter pid must be an integer, got %q", raw)
	}
	return s.windowTree(&pid)
}

func (s *Server) handleFocus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.focus())
}

func (s *Server) respondText(w http.ResponseWriter, fn func() (string, error)) {
	msg, err := fn()
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, msg)
}
