// Package guard is the client-side route guard. It runs where the token
// envelope is readable and decides, per route, whether to render or redirect.
package guard

import (
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
)

type Action int

const (
	Allow Action = iota
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}
	return "allow"
}

type Decision struct {
	Action   Action
	Location string
}

type Routes struct {
	LoginPath       string
	ProtectedPrefix string
	LandingPath     string
}

func DefaultRoutes() Routes {
	return Routes{
		LoginPath:       "/login",
		ProtectedPrefix: "/admin",
		LandingPath:     "/admin/dashboard",
	}
}

func (r Routes) IsProtected(p string) bool {
	p = clean(p)
	prefix := strings.TrimRight(r.ProtectedPrefix, "/")
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func (r Routes) IsLogin(p string) bool {
	return clean(p) == clean(r.LoginPath)
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + p)
}

type Authenticator interface {
	IsAuthenticated(ctx context.Context) bool
}

type Guard struct {
	auth   Authenticator
	routes Routes
}

func New(auth Authenticator, routes Routes) *Guard {
	return &Guard{auth: auth, routes: routes}
}

func (g *Guard) Routes() Routes {
	return g.routes
}

// Evaluate never panics. A failure inside the check redirects protected
// routes to login and lets public routes through.
func (g *Guard) Evaluate(ctx context.Context, p string) (d Decision) {
	protected := g.routes.IsProtected(p)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("path", p).Msg("[Guard] check failed")
			if protected {
				d = Decision{Action: Redirect, Location: g.routes.LoginPath}
			} else {
				d = Decision{Action: Allow}
			}
		}
	}()

	authenticated := g.auth.IsAuthenticated(ctx)
	switch {
	case protected && !authenticated:
		return Decision{Action: Redirect, Location: g.routes.LoginPath}
	case g.routes.IsLogin(p) && authenticated:
		return Decision{Action: Redirect, Location: g.routes.LandingPath}
	default:
		return Decision{Action: Allow}
	}
}

// Page is what Render draws: Loading while the check is pending, Content
// once it allows the route.
type Page struct {
	Loading func()
	Content func() error
}

// Render never calls Content for a route the guard did not allow.
func (g *Guard) Render(ctx context.Context, p string, page Page) (Decision, error) {
	if page.Loading != nil {
		page.Loading()
	}

	d := g.Evaluate(ctx, p)
	if d.Action != Allow {
		log.Debug().Str("path", p).Str("location", d.Location).Msg("[Guard] redirect")
		return d, nil
	}
	if page.Content == nil {
		return d, nil
	}
	return d, page.Content()
}
