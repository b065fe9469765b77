package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// FrameHandler serves the live camera preview.
type FrameHandler struct {
	service *recognition.Service
}

// NewFrameHandler creates a new frame handler.
func NewFrameHandler(svc *recognition.Service) *FrameHandler {
	return &FrameHandler{service: svc}
}

// Get returns the current camera frame as a JPEG image.
func (h *FrameHandler) Get(w http.ResponseWriter, r *http.Request) {
	frame, err := h.service.Capture(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(frame)
}
