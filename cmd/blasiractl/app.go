package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/amasbarry223/blasira-admin/internal/admin"
	"github.com/amasbarry223/blasira-admin/internal/apiclient"
	"github.com/amasbarry223/blasira-admin/internal/auth"
	"github.com/amasbarry223/blasira-admin/internal/config"
	"github.com/amasbarry223/blasira-admin/internal/cookie"
	"github.com/amasbarry223/blasira-admin/internal/csrf"
	"github.com/amasbarry223/blasira-admin/internal/guard"
	"github.com/amasbarry223/blasira-admin/internal/platform/database"
	"github.com/amasbarry223/blasira-admin/internal/platform/storage"
	"github.com/amasbarry223/blasira-admin/internal/ratelimit"
	"github.com/amasbarry223/blasira-admin/internal/token"
)

// app은 브라우저 탭에 해당합니다: 영구 저장소, 세션 저장소, 쿠키 jar
type app struct {
	conf       config.Config
	db         *sql.DB
	persistent storage.Store
	cookies *cookie.Manager
	tokens  *token.Manager
	auth    *auth.Service
	client  *apiclient.Client
	limiter *ratelimit.Limiter
	login   *auth.LoginService
	guard   *guard.Guard
	admin   *admin.Service

	mu        sync.Mutex
	redirects []string
}

func openApp(conf config.Config) (*app, error) {
	db, err := database.Open(conf.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a, err := newApp(conf, storage.NewSQLStore(db), nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

// newApp wires the client stack over persistent. A nil httpClient gets one
// backed by the app's cookie jar.
func newApp(conf config.Config, persistent storage.Store, httpClient *http.Client) (*app, error) {
	origin, err := url.Parse(conf.API.BaseURL)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("invalid api.base_url %q", conf.API.BaseURL)
	}

	jar, err := cookie.NewJar()
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Jar: jar}
	}

	a := &app{conf: conf, persistent: persistent}
	a.cookies = cookie.NewManager(jar, origin)
	a.tokens = token.NewManager(persistent, a.cookies, token.Config{SessionDuration: conf.Session.Duration})
	a.auth = auth.NewService(a.tokens, csrf.NewProvider(storage.NewMemory()))
	a.client = apiclient.New(apiclient.Config{
		BaseURL:    conf.API.BaseURL,
		Timeout:    conf.API.Timeout,
		Production: conf.Production(),
		HTTPClient: httpClient,
	}, a.auth, apiclient.NavigatorFunc(a.navigate))
	a.limiter = ratelimit.New()
	a.login = auth.NewLoginService(a.auth, a.client, a.limiter, auth.Config{
		MaxAttempts: conf.RateLimit.MaxAttempts,
		Lockout:     conf.RateLimit.Lockout,
	})
	a.guard = guard.New(a.auth, guard.Routes{
		LoginPath:       conf.Edge.LoginPath,
		ProtectedPrefix: conf.Edge.ProtectedPrefix,
		LandingPath:     conf.Edge.LandingPath,
	})
	a.admin = admin.NewService(a.client)

	return a, nil
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// navigate records where the API client sent the user, e.g. /login after a 401.
func (a *app) navigate(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.redirects = append(a.redirects, path)
	log.Debug().Str("location", path).Msg("[CLI] navigation requested")
}

func (a *app) lastRedirect() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.redirects) == 0 {
		return ""
	}
	return a.redirects[len(a.redirects)-1]
}

type redirectError struct {
	From     string
	Location string
	login    bool
}

func (e *redirectError) Error() string {
	if e.login {
		return fmt.Sprintf("%s: connexion requise, exécutez « blasiractl login »", e.From)
	}
	return fmt.Sprintf("%s: déjà connecté, redirigé vers %s", e.From, e.Location)
}

func (a *app) guarded(ctx context.Context, route string, content func() error) error {
	d, err := a.guard.Render(ctx, route, guard.Page{
		Loading: func() { log.Debug().Str("route", route).Msg("[CLI] checking session") },
		Content: content,
	})
	if err != nil {
		return err
	}
	if d.Action == guard.Redirect {
		return &redirectError{
			From:     route,
			Location: d.Location,
			login:    d.Location == a.guard.Routes().LoginPath,
		}
	}
	return nil
}
