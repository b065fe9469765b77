package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFacesHandler_RegisterFromCamera(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Register(recorder, jsonRequest(t, "POST", "/api/v1/faces", RegisterRequest{Name: "Alice", RegNumber: "101"}))

	assertStatusCode(t, recorder, http.StatusCreated)
	var result map[string]any
	parseJSONResponse(t, recorder, &result)
	if result["message"] != "Alice registered successfully!" {
		t.Errorf("unexpected message %v", result["message"])
	}
	if env.store.Len() != 1 {
		t.Errorf("expected 1 stored face, got %d", env.store.Len())
	}
}

func TestFacesHandler_RegisterFromUpload(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	req := multipartRequest(t, "POST", "/api/v1/faces", map[string]string{"name": "Bob", "reg_number": "202"}, testFrameBob)
	recorder := httptest.NewRecorder()
	handler.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)
	if env.camera.Calls() != 0 {
		t.Error("camera should not be used when an image is uploaded")
	}
	records := env.store.Records()
	if len(records) != 1 || records[0].PersonID != "Bob_202" {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestFacesHandler_RegisterErrors(t *testing.T) {
	tests := []struct {
		name           string
		body           RegisterRequest
		frame          []byte
		expectedStatus int
		expectedError  string
	}{
		{"missing name", RegisterRequest{RegNumber: "101"}, nil, http.StatusBadRequest, "Please enter both name and registration number."},
		{"no face", RegisterRequest{Name: "Alice", RegNumber: "101"}, testFrameNone, http.StatusUnprocessableEntity, "Ensure only one face is visible."},
		{"two faces", RegisterRequest{Name: "Alice", RegNumber: "101"}, testFrameCrowd, http.StatusUnprocessableEntity, "Ensure only one face is visible."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.frame != nil {
				env.camera.SetFrame(tt.frame)
			}
			handler := NewFacesHandler(env.service)

			recorder := httptest.NewRecorder()
			handler.Register(recorder, jsonRequest(t, "POST", "/api/v1/faces", tt.body))

			assertStatusCode(t, recorder, tt.expectedStatus)
			assertJSONError(t, recorder, tt.expectedError)
			if env.store.Len() != 0 {
				t.Errorf("expected empty store, got %d", env.store.Len())
			}
		})
	}
}

func TestFacesHandler_RegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.registerFace(t, "Alice_101", testEncAlice)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Register(recorder, jsonRequest(t, "POST", "/api/v1/faces", RegisterRequest{Name: "Someone", RegNumber: "1"}))

	assertStatusCode(t, recorder, http.StatusConflict)
	assertJSONError(t, recorder, "You are already registered.")
}

func TestFacesHandler_RegisterInvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	req := httptest.NewRequest("POST", "/api/v1/faces", nil)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.Register(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, errInvalidRequestBody)
}

func TestFacesHandler_List(t *testing.T) {
	env := newTestEnv(t)
	env.registerFace(t, "Alice_101", testEncAlice)
	env.registerFace(t, "Bob_202", testEncBob)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/faces", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var faces []FaceResponse
	parseJSONResponse(t, recorder, &faces)
	if len(faces) != 2 {
		t.Fatalf("expected 2 faces, got %d", len(faces))
	}
	if faces[1].Index != 1 || faces[1].Name != "Bob" || faces[1].RegNumber != "202" {
		t.Errorf("unexpected face %+v", faces[1])
	}
}

func TestFacesHandler_List_Empty(t *testing.T) {
	env := newTestEnv(t)
	handler := NewFacesHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/faces", nil))

	if recorder.Body.String() != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", recorder.Body.String())
	}
}

func TestFacesHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		expectedStatus int
		remaining      int
	}{
		{"by index", "0", http.StatusNoContent, 1},
		{"by person id", "Bob_202", http.StatusNoContent, 1},
		{"index out of range", "7", http.StatusNotFound, 2},
		{"unknown person", "Carol_303", http.StatusNotFound, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.registerFace(t, "Alice_101", testEncAlice)
			env.registerFace(t, "Bob_202", testEncBob)
			handler := NewFacesHandler(env.service)

			req := requestWithChiParams(httptest.NewRequest("DELETE", "/api/v1/faces/"+tt.key, nil), map[string]string{"index": tt.key})
			recorder := httptest.NewRecorder()
			handler.Delete(recorder, req)

			assertStatusCode(t, recorder, tt.expectedStatus)
			if env.store.Len() != tt.remaining {
				t.Errorf("expected %d remaining faces, got %d", tt.remaining, env.store.Len())
			}
		})
	}
}
