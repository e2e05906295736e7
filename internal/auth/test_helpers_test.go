package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/amasbarry223/blasira-admin/internal/apiclient"
	"github.com/amasbarry223/blasira-admin/internal/auth"
	"github.com/amasbarry223/blasira-admin/internal/cookie"
	"github.com/amasbarry223/blasira-admin/internal/csrf"
	"github.com/amasbarry223/blasira-admin/internal/platform/storage"
	"github.com/amasbarry223/blasira-admin/internal/ratelimit"
	"github.com/amasbarry223/blasira-admin/internal/token"
)

const (
	testPhone    = "+22370000000"
	testPassword = "motdepasse"
	testToken    = "abc123"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	service *auth.Service
	login   *auth.LoginService
	limiter *ratelimit.Limiter
	cookies *cookie.Manager
	clock   *testClock
	visited []string
}

func setupAuthTestService(t *testing.T, backend http.HandlerFunc) *testEnv {
	t.Helper()

	env := &testEnv{clock: &testClock{now: time.Now().Truncate(time.Millisecond)}}

	jar, err := cookie.NewJar()
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	origin, _ := url.Parse("http://localhost:3000")
	env.cookies = cookie.NewManager(jar, origin)

	tokens := token.NewManager(storage.NewMemory(), env.cookies, token.Config{Now: env.clock.Now})
	env.service = auth.NewService(tokens, csrf.NewProvider(storage.NewMemory()))
	env.limiter = ratelimit.NewWithClock(env.clock.Now)

	baseURL := "http://127.0.0.1:0"
	if backend != nil {
		server := httptest.NewServer(backend)
		t.Cleanup(server.Close)
		baseURL = server.URL + "/api"
	}

	client := apiclient.New(apiclient.Config{BaseURL: baseURL, Production: true}, env.service,
		apiclient.NavigatorFunc(func(path string) { env.visited = append(env.visited, path) }))
	env.login = auth.NewLoginService(env.service, client, env.limiter, auth.Config{})
	return env
}
