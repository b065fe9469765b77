package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/static"
)

func (s *Server) setupRoutes() {
	// Create handlers
	configHandler := handlers.NewConfigHandler(s.config)
	facesHandler := handlers.NewFacesHandler(s.service)
	attendanceHandler := handlers.NewAttendanceHandler(s.service, s.log)
	accessHandler := handlers.NewAccessHandler(s.service)
	frameHandler := handlers.NewFrameHandler(s.service)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)
		r.Get("/config", configHandler.Get)
		r.Get("/frame", frameHandler.Get)

		// Faces
		r.Get("/faces", facesHandler.List)
		r.Post("/faces", facesHandler.Register)
		r.Delete("/faces/{index}", facesHandler.Delete)

		// Attendance
		r.Get("/attendance", attendanceHandler.List)
		r.Post("/attendance", attendanceHandler.Mark)
		r.Delete("/attendance", attendanceHandler.Clear)
		r.Get("/attendance/export", attendanceHandler.Export)
		r.Post("/report", attendanceHandler.Report)

		// Door
		r.Post("/access", accessHandler.Check)
	})

	s.router.Get("/", s.serveIndex)
}

// serveIndex renders the kiosk page with the configured theme
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := static.RenderIndex(&buf, s.config.Theme); err != nil {
		logger.WithRequestID(r.Context()).WithError(err).Error("failed to render index")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
