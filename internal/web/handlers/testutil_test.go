package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facestore"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/recognition/mock"
)

var (
	testFrameAlice = []byte("alice-frame")
	testFrameBob   = []byte("bob-frame")
	testFrameNone  = []byte("empty-frame")
	testFrameCrowd = []byte("crowd-frame")

	testEncAlice = []float32{0.1, 0.2, 0.3, 0.4}
	testEncBob   = []float32{0.9, 0.8, 0.7, 0.6}
)

// testEnv bundles a service wired to mocks for handler tests
type testEnv struct {
	service  *recognition.Service
	store    *facestore.Store
	log      *attendance.Log
	camera   *mock.MockCamera
	encoder  *mock.MockEncoder
	door     *mock.MockDoor
	notifier *mock.MockNotifier
}

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Match: config.MatchConfig{Threshold: constants.DefaultMatchThreshold},
		Email: config.EmailConfig{
			Provider:  "smtp",
			Recipient: "office@example.com",
			Sender:    "kiosk@example.com",
			SMTPHost:  constants.DefaultSMTPHost,
			SMTPPort:  constants.DefaultSMTPPort,
			Password:  "secret",
		},
	}
}

// newTestEnv creates a service over temp files with the camera showing Alice
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	env := &testEnv{
		store:    facestore.New(filepath.Join(dir, "faces.dat"), constants.DefaultMatchThreshold, 0),
		log:      attendance.New(filepath.Join(dir, "attendance.csv")),
		camera:   mock.NewMockCamera(testFrameAlice),
		encoder:  mock.NewMockEncoder(),
		door:     mock.NewMockDoor(),
		notifier: mock.NewMockNotifier(),
	}
	env.encoder.SetFaces(testFrameAlice, testEncAlice)
	env.encoder.SetFaces(testFrameBob, testEncBob)
	env.encoder.SetFaces(testFrameNone)
	env.encoder.SetFaces(testFrameCrowd, testEncAlice, testEncBob)

	env.service = recognition.NewService(recognition.Options{
		Store:    env.store,
		Log:      env.log,
		Camera:   env.camera,
		Encoder:  env.encoder,
		Door:     env.door,
		Notifier: env.notifier,
		Email:    testConfig().Email,
		Now: func() time.Time {
			return time.Date(2025, 3, 14, 8, 0, 0, 0, time.Local)
		},
	})
	return env
}

// registerFace stores a face directly in the test store
func (e *testEnv) registerFace(t *testing.T, personID string, enc []float32) {
	t.Helper()
	if err := e.store.Register(personID, enc); err != nil {
		t.Fatalf("failed to register %s: %v", personID, err)
	}
}

// multipartRequest builds a request with form fields and an optional image upload
func multipartRequest(t *testing.T, method, path string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile(imageField, "frame.jpg")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(image)
	}
	writer.Close()

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// jsonRequest builds a request with a JSON body
func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
