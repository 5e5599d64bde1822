package server

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/ping", s.handlePing)

	r.Get("/cursor", s.handleCursor)
	r.Get("/cursor/move", s.handleMoveQuery)
	r.Post("/cursor/move", s.handleMoveBody)
	r.Get("/cursor/click", s.handleClick)
	r.Post("/paste", s.handlePaste)
	r.Post("/keys", s.handleKeys)

	r.Get("/screenshot", s.handleScreenshot)
	r.Post("/execute", s.handleExecute)

	r.Get("/apps", s.handleApps)
	r.Get("/apps/launch", s.handleLaunch)

	r.Get("/windows", s.handleWindows)
	r.Get("/windows/info", s.handleWindowInfo)
	r.Get("/focus", s.handleFocus)

	return r
}
