package cookie_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/amasbarry223/blasira-admin/internal/cookie"
)

func newManager(t *testing.T, origin string) *cookie.Manager {
	t.Helper()

	jar, err := cookie.NewJar()
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	u, err := url.Parse(origin)
	if err != nil {
		t.Fatalf("parse origin: %v", err)
	}
	return cookie.NewManager(jar, u)
}

func TestSet_AppliesDefaults(t *testing.T) {
	m := newManager(t, "http://localhost:3000")

	c := m.Build("blasira_auth_token", "abc", cookie.Options{})
	if c.Path != "/" {
		t.Fatalf("expected path /, got %q", c.Path)
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("expected SameSite=Strict, got %v", c.SameSite)
	}
	if c.Secure {
		t.Fatal("expected Secure to be omitted on plain http")
	}
}

func TestSet_SecureOnlyOverHTTPS(t *testing.T) {
	m := newManager(t, "https://admin.blasira.com")

	c := m.Build("blasira_auth_token", "abc", cookie.Options{})
	if !c.Secure {
		t.Fatal("expected Secure on https origin")
	}
	if !strings.Contains(c.String(), "Secure") {
		t.Fatalf("expected Secure attribute in %q", c.String())
	}
}

func TestSet_EmitsMaxAgeAndExpires(t *testing.T) {
	m := newManager(t, "http://localhost:3000")

	expires := time.Now().Add(time.Hour)
	header := m.Build("k", "v", cookie.Options{MaxAge: 3600, Expires: expires}).String()
	if !strings.Contains(header, "Max-Age=3600") {
		t.Fatalf("expected Max-Age in %q", header)
	}
	if !strings.Contains(header, "Expires=") {
		t.Fatalf("expected Expires in %q", header)
	}
}

func TestGet_ReturnsDecodedExactMatch(t *testing.T) {
	m := newManager(t, "http://localhost:3000")

	m.Set("blasira_auth_token_old", "wrong", cookie.Options{MaxAge: 60})
	m.Set("blasira_auth_token", "a b;c=d", cookie.Options{MaxAge: 60})

	value, ok := m.Get("blasira_auth_token")
	if !ok {
		t.Fatal("expected cookie to be present")
	}
	if value != "a b;c=d" {
		t.Fatalf("expected decoded value, got %q", value)
	}

	if _, ok := m.Get("blasira"); ok {
		t.Fatal("expected prefix name not to match")
	}
}

func TestDelete_EvictsCookie(t *testing.T) {
	m := newManager(t, "http://localhost:3000")

	m.Set("blasira_auth_token", "abc", cookie.Options{MaxAge: 60})
	m.Delete("blasira_auth_token", "/")

	if _, ok := m.Get("blasira_auth_token"); ok {
		t.Fatal("expected cookie to be evicted")
	}

	// deleting again is harmless
	m.Delete("blasira_auth_token", "/")
}

func TestManager_NoopWithoutJar(t *testing.T) {
	m := cookie.NewManager(nil, nil)

	m.Set("k", "v", cookie.Options{MaxAge: 60})
	if _, ok := m.Get("k"); ok {
		t.Fatal("expected server-side manager to return nothing")
	}
	m.Delete("k", "/")
	if m.Enabled() {
		t.Fatal("expected manager to be disabled")
	}
}
