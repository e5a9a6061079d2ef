// ABOUTME: Tests for request logging middleware
// ABOUTME: Verifies path sanitization and request id propagation

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"newline injection", "/api/auth/login\nAdmin access granted", "/api/auth/loginAdmin access granted"},
		{"carriage return", "/api/test\rmalicious", "/api/testmalicious"},
		{"CRLF", "/api/test\r\ninjected line", "/api/testinjected line"},
		{"tab", "/api/test\tvalue", "/api/testvalue"},
		{"null byte", "/api/test\x00value", "/api/testvalue"},
		{"valid path", "/api/billing/mark-purchased", "/api/billing/mark-purchased"},
		{"unicode kept", "/api/müşteri", "/api/müşteri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizePath(tt.input); got != tt.want {
				t.Errorf("sanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLogRequest_SetsRequestIDHeader(t *testing.T) {
	var seen string
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	requestID := rec.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(requestID); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID: %v", requestID, err)
	}
	if seen != requestID {
		t.Errorf("context request id = %q, header = %q", seen, requestID)
	}
}

func TestLogRequest_HonorsInboundRequestID(t *testing.T) {
	inbound := "0b5c7a52-2f5e-4d84-9a3c-1f1f6c2f9e11"
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("X-Request-ID", inbound)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != inbound {
		t.Errorf("X-Request-ID = %q, want %q", got, inbound)
	}
}

func TestLogRequest_ReplacesMalformedRequestID(t *testing.T) {
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set("X-Request-ID", "abc\nforged")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got == "abc\nforged" {
		t.Error("Malformed inbound request id should be replaced")
	}
}

func TestLogRequest_CapturesStatusCode(t *testing.T) {
	handler := LogRequest(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestRequestID_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestID(req.Context()); got != "" {
		t.Errorf("RequestID = %q, want empty", got)
	}
}
