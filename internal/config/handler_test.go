package config

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetConfig_ExposesPublicValues(t *testing.T) {
	c := Default()
	c.Storage.Path = "/home/admin/.config/blasira/blasira.db"

	mux := http.NewServeMux()
	NewHandler(c).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"apiUrl":"http://localhost:8080/api"`) {
		t.Fatalf("expected apiUrl in body, got %s", body)
	}
	if !strings.Contains(body, `"loginPath":"/login"`) {
		t.Fatalf("expected loginPath in body, got %s", body)
	}
	if strings.Contains(body, "blasira.db") {
		t.Fatalf("storage path must not be exposed: %s", body)
	}
}

func TestGetConfig_RejectsOtherMethods(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(Default()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/config", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
