package guard_test

import (
	"context"
	"testing"

	"github.com/amasbarry223/blasira-admin/internal/guard"
)

type staticAuth bool

func (a staticAuth) IsAuthenticated(context.Context) bool { return bool(a) }

type panickingAuth struct{}

func (panickingAuth) IsAuthenticated(context.Context) bool { panic("storage exploded") }

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name          string
		authenticated bool
		path          string
		want          guard.Decision
	}{
		{name: "anonymous on dashboard", path: "/admin/dashboard", want: guard.Decision{Action: guard.Redirect, Location: "/login"}},
		{name: "anonymous on admin root", path: "/admin", want: guard.Decision{Action: guard.Redirect, Location: "/login"}},
		{name: "anonymous with query", path: "/admin/users?page=2", want: guard.Decision{Action: guard.Redirect, Location: "/login"}},
		{name: "anonymous on login", path: "/login", want: guard.Decision{Action: guard.Allow}},
		{name: "anonymous on landing page", path: "/", want: guard.Decision{Action: guard.Allow}},
		{name: "anonymous on lookalike prefix", path: "/administration", want: guard.Decision{Action: guard.Allow}},
		{name: "authenticated on login", authenticated: true, path: "/login", want: guard.Decision{Action: guard.Redirect, Location: "/admin/dashboard"}},
		{name: "authenticated on users", authenticated: true, path: "/admin/users", want: guard.Decision{Action: guard.Allow}},
		{name: "authenticated on public page", authenticated: true, path: "/", want: guard.Decision{Action: guard.Allow}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := guard.New(staticAuth(tc.authenticated), guard.DefaultRoutes())
			if got := g.Evaluate(context.Background(), tc.path); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestEvaluate_FailsClosedForProtectedRoutes(t *testing.T) {
	g := guard.New(panickingAuth{}, guard.DefaultRoutes())

	if got := g.Evaluate(context.Background(), "/admin/trips"); got.Action != guard.Redirect || got.Location != "/login" {
		t.Fatalf("expected redirect to login, got %+v", got)
	}
	if got := g.Evaluate(context.Background(), "/"); got.Action != guard.Allow {
		t.Fatalf("expected public route to stay open, got %+v", got)
	}
}

func TestRender_DoesNotRenderProtectedContentForAnonymous(t *testing.T) {
	g := guard.New(staticAuth(false), guard.DefaultRoutes())

	var events []string
	d, err := g.Render(context.Background(), "/admin/dashboard", guard.Page{
		Loading: func() { events = append(events, "loading") },
		Content: func() error {
			events = append(events, "content")
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != guard.Redirect || d.Location != "/login" {
		t.Fatalf("expected redirect to login, got %+v", d)
	}
	if len(events) != 1 || events[0] != "loading" {
		t.Fatalf("expected only the loading state, got %v", events)
	}
}

func TestRender_ShowsLoadingBeforeContent(t *testing.T) {
	g := guard.New(staticAuth(true), guard.DefaultRoutes())

	var events []string
	_, err := g.Render(context.Background(), "/admin/dashboard", guard.Page{
		Loading: func() { events = append(events, "loading") },
		Content: func() error {
			events = append(events, "content")
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0] != "loading" || events[1] != "content" {
		t.Fatalf("expected loading then content, got %v", events)
	}
}

func TestRender_PanickingCheckRendersNothingProtected(t *testing.T) {
	g := guard.New(panickingAuth{}, guard.DefaultRoutes())

	rendered := false
	d, _ := g.Render(context.Background(), "/admin/incidents", guard.Page{
		Content: func() error {
			rendered = true
			return nil
		},
	})
	if rendered {
		t.Fatal("expected protected content not to render when the check fails")
	}
	if d.Action != guard.Redirect {
		t.Fatalf("expected redirect, got %+v", d)
	}
}
