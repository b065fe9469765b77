package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// AccessHandler handles door access checks.
type AccessHandler struct {
	service *recognition.Service
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(svc *recognition.Service) *AccessHandler {
	return &AccessHandler{service: svc}
}

// AccessResponse reports the outcome of an access check. Granted is true
// once the face is recognised, even if the door then fails to open.
type AccessResponse struct {
	Granted    bool                     `json:"granted"`
	DoorOpened bool                     `json:"door_opened"`
	Person     *recognition.Recognition `json:"person,omitempty"`
	Message    string                   `json:"message,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// Check recognises the visitor and opens the door.
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	frame, err := readFrame(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rec recognition.Recognition
	if frame != nil {
		rec, err = h.service.CheckAccessFrame(r.Context(), frame)
	} else {
		rec, err = h.service.CheckAccess(r.Context())
	}

	if err != nil && rec.PersonID == "" {
		respondServiceError(w, r, err)
		return
	}

	resp := AccessResponse{
		Granted:    true,
		DoorOpened: err == nil,
		Person:     &rec,
		Message:    "Access granted for " + rec.Name,
	}
	status := http.StatusOK
	if err != nil {
		resp.Error = recognition.UserMessage(err)
		status = statusFor(err)
	}
	respondJSON(w, status, resp)
}
