package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"spellquest/internal/service"
	"spellquest/internal/validation"
)

func TestRespondJSONWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, 201, map[string]string{"hello": "world"})

	if recorder.Code != 201 {
		t.Fatalf("expected status 201, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["hello"] != "world" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestRespondErrorShape(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, 404, "not here")

	if recorder.Code != 404 {
		t.Fatalf("expected status 404, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["error"] != "not here" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestRespondServiceErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", validation.ValidationError{Field: "name", Message: "required"}, 400},
		{"invalid mode", service.ErrInvalidMode, 400},
		{"bad credentials", service.ErrInvalidCredentials, 401},
		{"foreign list", service.ErrNotListOwner, 403},
		{"missing list", service.ErrListNotFound, 404},
		{"missing challenge", service.ErrChallengeNotFound, 404},
		{"locked list", service.ErrListLocked, 409},
		{"duplicate report", service.ErrDuplicateReport, 409},
		{"broke player", service.ErrInsufficientFunds, 409},
		{"completed session", service.ErrSessionComplete, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondServiceError(recorder, tt.err)
			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"amy","bogus":1}`))
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &req); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}
