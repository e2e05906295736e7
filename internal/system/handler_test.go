package system

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

func TestGetVersion(t *testing.T) {
	handler := NewHandler(Meta{
		Version:   "v1.2.0",
		Commit:    "abc123",
		BuildDate: "2026-10-01T00:00:00Z",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
	rec := httptest.NewRecorder()

	if err := handler.GetVersion(rec, req); err != nil {
		t.Fatalf("expected no error, got %+v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var payload map[string]string
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &payload); decodeErr != nil {
		t.Fatalf("failed to decode response: %v", decodeErr)
	}

	if payload["version"] != "v1.2.0" {
		t.Fatalf("expected version v1.2.0, got %q", payload["version"])
	}
	if payload["commit"] != "abc123" {
		t.Fatalf("expected commit abc123, got %q", payload["commit"])
	}
	if payload["buildDate"] != "2026-10-01T00:00:00Z" {
		t.Fatalf("expected buildDate 2026-10-01T00:00:00Z, got %q", payload["buildDate"])
	}
	if payload["goVersion"] == "" {
		t.Fatal("expected goVersion")
	}
}

func TestNewHandler_DefaultsVersion(t *testing.T) {
	handler := NewHandler(Meta{Version: "  ", Commit: " abc "})

	if handler.Meta().Version != "dev" {
		t.Fatalf("expected dev version, got %q", handler.Meta().Version)
	}
	if handler.Meta().Commit != "abc" {
		t.Fatalf("expected trimmed commit, got %q", handler.Meta().Commit)
	}
}
