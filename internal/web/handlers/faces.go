package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// FacesHandler handles face registration and management endpoints.
type FacesHandler struct {
	service *recognition.Service
}

// NewFacesHandler creates a new faces handler.
func NewFacesHandler(svc *recognition.Service) *FacesHandler {
	return &FacesHandler{service: svc}
}

// FaceResponse is one registered face as listed in the management view.
type FaceResponse struct {
	Index     int    `json:"index"`
	PersonID  string `json:"person_id"`
	Name      string `json:"name"`
	RegNumber string `json:"reg_number"`
}

// RegisterRequest is the JSON body of a registration.
type RegisterRequest struct {
	Name      string `json:"name"`
	RegNumber string `json:"reg_number"`
}

// List returns the registered faces in storage order.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.service.Faces()
	faces := make([]FaceResponse, len(records))
	for i, rec := range records {
		faces[i] = FaceResponse{
			Index:     i,
			PersonID:  rec.PersonID,
			Name:      rec.Name(),
			RegNumber: rec.RegNumber(),
		}
	}
	respondJSON(w, http.StatusOK, faces)
}

// Register stores a new face. The frame is taken from the "image" upload when
// present, otherwise from the camera.
func (h *FacesHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	var frame []byte

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var err error
		if frame, err = readFrame(r); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Name = r.FormValue("name")
		req.RegNumber = r.FormValue("reg_number")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var (
		person recognition.Person
		err    error
	)
	if frame != nil {
		person, err = h.service.RegisterFrame(r.Context(), req.Name, req.RegNumber, frame)
	} else {
		person, err = h.service.Register(r.Context(), req.Name, req.RegNumber)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"person":  person,
		"message": person.Name + " registered successfully!",
	})
}

// Delete removes a face by list index, or by person id when the path
// segment is not a number.
func (h *FacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "index")
	if key == "" {
		respondError(w, http.StatusBadRequest, "face index is required")
		return
	}

	var err error
	if index, convErr := strconv.Atoi(key); convErr == nil {
		_, err = h.service.DeleteFace(index)
	} else {
		_, err = h.service.DeleteFaceByID(key)
	}
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
