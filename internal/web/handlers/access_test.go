package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAccessHandler_Check(t *testing.T) {
	env := newTestEnv(t)
	env.registerFace(t, "Alice_101", testEncAlice)
	handler := NewAccessHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Check(recorder, httptest.NewRequest("POST", "/api/v1/access", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result AccessResponse
	parseJSONResponse(t, recorder, &result)
	if !result.Granted || !result.DoorOpened {
		t.Errorf("expected granted and opened, got %+v", result)
	}
	if result.Person == nil || result.Person.Name != "Alice" {
		t.Errorf("unexpected person %+v", result.Person)
	}
	if env.door.Opens() != 1 {
		t.Errorf("expected 1 door request, got %d", env.door.Opens())
	}
}

func TestAccessHandler_DoorFailure(t *testing.T) {
	env := newTestEnv(t)
	env.registerFace(t, "Alice_101", testEncAlice)
	env.door.StatusCode = http.StatusInternalServerError
	handler := NewAccessHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Check(recorder, httptest.NewRequest("POST", "/api/v1/access", nil))

	assertStatusCode(t, recorder, http.StatusBadGateway)
	var result AccessResponse
	parseJSONResponse(t, recorder, &result)
	if !result.Granted || result.DoorOpened {
		t.Errorf("expected granted without door, got %+v", result)
	}
	if result.Error != "Failed to open door." {
		t.Errorf("unexpected error %q", result.Error)
	}
	if env.door.Opens() != 1 {
		t.Errorf("expected exactly one door request, got %d", env.door.Opens())
	}
	if env.log.Exists() {
		t.Error("access check must not write attendance")
	}
}

func TestAccessHandler_UnknownFace(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAccessHandler(env.service)

	recorder := httptest.NewRecorder()
	handler.Check(recorder, httptest.NewRequest("POST", "/api/v1/access", nil))

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "Face not recognized.")
	if env.door.Opens() != 0 {
		t.Error("door must stay closed")
	}
}
