package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/recognition"
)

func TestRespondJSON_SetsContentTypeAndStatus(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusCreated, map[string]string{"status": "ok"})

	assertStatusCode(t, recorder, http.StatusCreated)
	assertContentType(t, recorder, "application/json")
}

func TestRespondJSON_NilData(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusOK, nil)

	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got '%s'", recorder.Body.String())
	}
}

func TestRespondError_ContainsErrorKey(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusBadRequest, "something went wrong")

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "something went wrong")
}

func TestHealthCheck_ReturnsOK(t *testing.T) {
	recorder := httptest.NewRecorder()

	HealthCheck(recorder, httptest.NewRequest("GET", "/api/v1/health", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result map[string]string
	parseJSONResponse(t, recorder, &result)
	if result["status"] != "ok" {
		t.Errorf("expected status 'ok', got '%s'", result["status"])
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{recognition.ErrMissingInput, http.StatusBadRequest},
		{recognition.ErrInvalidInput, http.StatusBadRequest},
		{recognition.ErrNotRecognized, http.StatusNotFound},
		{recognition.ErrNoAttendance, http.StatusNotFound},
		{recognition.ErrIndexOutOfRange, http.StatusNotFound},
		{recognition.ErrDuplicate, http.StatusConflict},
		{fmt.Errorf("%w: Bob", recognition.ErrAlreadyMarked), http.StatusConflict},
		{recognition.ErrNoFace, http.StatusUnprocessableEntity},
		{recognition.ErrMultipleFaces, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: expected 128, got 512", recognition.ErrDimensionMismatch), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: HTTP 500", recognition.ErrDoorFailed), http.StatusBadGateway},
		{recognition.ErrEmailFailed, http.StatusBadGateway},
		{recognition.ErrMissingConfig, http.StatusServiceUnavailable},
		{recognition.ErrCaptureFailed, http.StatusServiceUnavailable},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRespondServiceError_ServerErrorCarriesTraceID(t *testing.T) {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/access", nil)

	respondServiceError(recorder, req, recognition.ErrDoorFailed)

	assertStatusCode(t, recorder, http.StatusBadGateway)
	var result map[string]string
	parseJSONResponse(t, recorder, &result)
	if result["error"] != "Failed to open door." {
		t.Errorf("unexpected error message '%s'", result["error"])
	}
	if result["trace_id"] == "" {
		t.Error("expected trace_id in response")
	}
}

func TestReadFrame(t *testing.T) {
	t.Run("json request has no frame", func(t *testing.T) {
		frame, err := readFrame(jsonRequest(t, "POST", "/api/v1/attendance", map[string]string{}))
		if err != nil || frame != nil {
			t.Errorf("expected nil frame and error, got %v, %v", frame, err)
		}
	})

	t.Run("multipart without image", func(t *testing.T) {
		frame, err := readFrame(multipartRequest(t, "POST", "/api/v1/attendance", map[string]string{"x": "y"}, nil))
		if err != nil || frame != nil {
			t.Errorf("expected nil frame and error, got %v, %v", frame, err)
		}
	})

	t.Run("multipart with image", func(t *testing.T) {
		frame, err := readFrame(multipartRequest(t, "POST", "/api/v1/attendance", nil, []byte("jpeg")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(frame) != "jpeg" {
			t.Errorf("expected uploaded bytes, got %q", frame)
		}
	})
}
