package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

// errInvalidRequestBody is a shared error message for invalid request bodies.
const errInvalidRequestBody = "invalid request body"

// imageField is the multipart field carrying an uploaded frame.
const imageField = "image"

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps a recognition error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, recognition.ErrMissingInput),
		errors.Is(err, recognition.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, recognition.ErrNotRecognized),
		errors.Is(err, recognition.ErrFaceNotFound),
		errors.Is(err, recognition.ErrIndexOutOfRange),
		errors.Is(err, recognition.ErrNoAttendance):
		return http.StatusNotFound
	case errors.Is(err, recognition.ErrDuplicate),
		errors.Is(err, recognition.ErrAlreadyMarked):
		return http.StatusConflict
	case errors.Is(err, recognition.ErrNoFace),
		errors.Is(err, recognition.ErrMultipleFaces),
		errors.Is(err, recognition.ErrDimensionMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, recognition.ErrDoorFailed),
		errors.Is(err, recognition.ErrEmailFailed),
		errors.Is(err, recognition.ErrEncoderFailed):
		return http.StatusBadGateway
	case errors.Is(err, recognition.ErrMissingConfig),
		errors.Is(err, recognition.ErrCaptureFailed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError sends the user-facing message for err. Server-side
// failures are logged with a trace id the client can quote.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		respondError(w, status, recognition.UserMessage(err))
		return
	}

	traceID := logger.ErrorWithTraceID(logger.Fields{
		logger.RequestIDKey: chiMiddleware.GetReqID(r.Context()),
		"path":              sanitizeForLog(r.URL.Path),
		"error":             err.Error(),
	}, "request failed")
	respondJSON(w, status, map[string]string{
		"error":    recognition.UserMessage(err),
		"trace_id": traceID,
	})
}

// readFrame returns the uploaded image of a multipart request, or nil when the
// request carries none and the camera should be used instead.
func readFrame(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, nil
	}
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, _, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", imageField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", imageField, err)
	}
	return data, nil
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
