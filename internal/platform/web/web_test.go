package web

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_WritesErrorBody(t *testing.T) {
	h := Handler(func(w http.ResponseWriter, r *http.Request) *Error {
		return &Error{Code: http.StatusBadGateway, Message: "backend unavailable", Err: errors.New("dial tcp")}
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"backend unavailable"}` {
		t.Fatalf("unexpected body %s", got)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestHandler_Success(t *testing.T) {
	h := Handler(func(w http.ResponseWriter, r *http.Request) *Error {
		return JSON(w, http.StatusCreated, map[string]string{"status": "ok"})
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"status":"ok"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := &Error{Code: http.StatusInternalServerError, Message: "failed", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected error to unwrap to its cause")
	}
	if err.Error() != "failed: cause" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	h := AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status %d, got %d", http.StatusTeapot, rec.Code)
	}
}
