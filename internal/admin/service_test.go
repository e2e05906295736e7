package admin_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/amasbarry223/blasira-admin/internal/admin"
	"github.com/amasbarry223/blasira-admin/internal/apiclient"
)

type staticCredentials struct{}

func (staticCredentials) AuthHeaders(context.Context) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer abc123")
	h.Set("X-CSRF-Token", "csrf-token")
	return h
}

func (staticCredentials) CSRFToken(context.Context) (string, error) { return "csrf-token", nil }
func (staticCredentials) RemoveToken(context.Context) error         { return nil }

type recordedRequest struct {
	method string
	path   string
	query  string
	body   string
	auth   string
	csrf   string
}

func newService(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*admin.Service, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   string(body),
			auth:   r.Header.Get("Authorization"),
			csrf:   r.Header.Get("X-CSRF-Token"),
		})
		w.Header().Set("Content-Type", "application/json")
		respond(w, r)
	}))
	t.Cleanup(server.Close)

	client := apiclient.New(apiclient.Config{BaseURL: server.URL + "/api"}, staticCredentials{}, nil)
	return admin.NewService(client), &requests
}

func TestListUsers(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"firstName":"Awa","lastName":"Traoré","telephone":"+22370000001","role":"DRIVER","active":true}]`))
	})

	users, err := svc.ListUsers(context.Background(), admin.ListOptions{Page: 2, Size: 20, Search: "awa"})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}

	if len(users) != 1 || users[0].FirstName != "Awa" || users[0].Role != admin.RoleDriver {
		t.Fatalf("unexpected users %+v", users)
	}
	req := (*requests)[0]
	if req.method != http.MethodGet || req.path != "/api/admin/users" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if req.query != "page=2&search=awa&size=20" {
		t.Fatalf("unexpected query %q", req.query)
	}
	if req.auth != "Bearer abc123" {
		t.Fatalf("expected bearer token, got %q", req.auth)
	}
}

func TestUpdateUser_SendsOnlySetFields(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"active":false}`))
	})

	active := false
	user, err := svc.UpdateUser(context.Background(), 7, admin.UpdateUserRequest{Active: &active})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if user.ID != 7 || user.Active {
		t.Fatalf("unexpected user %+v", user)
	}

	req := (*requests)[0]
	if req.method != http.MethodPut || req.path != "/api/admin/users/7" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if req.body != `{"active":false}` {
		t.Fatalf("unexpected body %s", req.body)
	}
	if req.csrf != "csrf-token" {
		t.Fatalf("expected csrf header on PUT, got %q", req.csrf)
	}
}

func TestGetUser_RejectsInvalidID(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := svc.GetUser(context.Background(), 0); !errors.Is(err, admin.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if len(*requests) != 0 {
		t.Fatal("expected no request for an invalid id")
	}
}

func TestDashboardStats(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalUsers":120,"activeTrips":8,"pendingVerifications":3,"revenue":45000.5}`))
	})

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}
	if stats.TotalUsers != 120 || stats.ActiveTrips != 8 || stats.PendingVerifications != 3 || stats.Revenue != 45000.5 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if (*requests)[0].path != "/api/admin/dashboard-stats" {
		t.Fatalf("unexpected path %s", (*requests)[0].path)
	}
}

func TestUpdateDocumentStatus(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":4,"status":"REJECTED"}`))
	})

	doc, err := svc.UpdateDocumentStatus(context.Background(), 4, admin.DocumentStatusUpdate{
		Status: admin.DocumentRejected,
		Reason: "illisible",
	})
	if err != nil {
		t.Fatalf("update document status: %v", err)
	}
	if doc.Status != admin.DocumentRejected {
		t.Fatalf("unexpected document %+v", doc)
	}

	req := (*requests)[0]
	if req.method != http.MethodPatch || req.path != "/api/admin/documents/4/status" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	var body admin.DocumentStatusUpdate
	if err := json.Unmarshal([]byte(req.body), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != admin.DocumentRejected || body.Reason != "illisible" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUpdateDocumentStatus_RejectsUnknownStatus(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := svc.UpdateDocumentStatus(context.Background(), 4, admin.DocumentStatusUpdate{Status: "LOST"})
	if !errors.Is(err, admin.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(*requests) != 0 {
		t.Fatal("expected no request for an unknown status")
	}
}

func TestVerificationDecisions(t *testing.T) {
	testCases := []struct {
		name     string
		call     func(*admin.Service) (admin.Verification, error)
		wantPath string
		wantBody string
	}{
		{
			name:     "approve",
			call:     func(s *admin.Service) (admin.Verification, error) { return s.ApproveVerification(context.Background(), 9) },
			wantPath: "/api/admin/verifications/9/approve",
			wantBody: `{}`,
		},
		{
			name: "reject",
			call: func(s *admin.Service) (admin.Verification, error) {
				return s.RejectVerification(context.Background(), 9, "  photo floue ")
			},
			wantPath: "/api/admin/verifications/9/reject",
			wantBody: `{"reason":"photo floue"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"id":9,"status":"DONE"}`))
			})

			if _, err := tc.call(svc); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			req := (*requests)[0]
			if req.method != http.MethodPost || req.path != tc.wantPath {
				t.Fatalf("unexpected request %s %s", req.method, req.path)
			}
			if req.body != tc.wantBody {
				t.Fatalf("expected body %s, got %s", tc.wantBody, req.body)
			}
		})
	}
}

func TestResource_CRUD(t *testing.T) {
	svc, requests := newService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/api/admin/trips" {
				w.Write([]byte(`[{"id":1,"origin":"Bamako"}]`))
				return
			}
			w.Write([]byte(`{"id":1,"origin":"Bamako"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.Write([]byte(`{"id":1,"origin":"Ségou"}`))
		}
	})

	trips, err := svc.Resource("trips")
	if err != nil {
		t.Fatalf("resource: %v", err)
	}
	ctx := context.Background()

	list, err := trips.List(ctx, admin.ListOptions{Status: "OPEN"})
	if err != nil || len(list) != 1 || list[0]["origin"] != "Bamako" {
		t.Fatalf("list: %v %+v", err, list)
	}
	if _, err := trips.Get(ctx, "1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	created, err := trips.Create(ctx, admin.Record{"origin": "Ségou"})
	if err != nil || created["origin"] != "Ségou" {
		t.Fatalf("create: %v %+v", err, created)
	}
	if _, err := trips.Update(ctx, "1", admin.Record{"origin": "Ségou"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := trips.Remove(ctx, "1"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	want := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/trips"},
		{http.MethodGet, "/api/admin/trips/1"},
		{http.MethodPost, "/api/admin/trips"},
		{http.MethodPut, "/api/admin/trips/1"},
		{http.MethodDelete, "/api/admin/trips/1"},
	}
	if len(*requests) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(*requests))
	}
	for i, w := range want {
		got := (*requests)[i]
		if got.method != w.method || got.path != w.path {
			t.Fatalf("request %d: expected %s %s, got %s %s", i, w.method, w.path, got.method, got.path)
		}
	}
	if (*requests)[0].query != "status=OPEN" {
		t.Fatalf("unexpected list query %q", (*requests)[0].query)
	}
}

func TestResource_UnknownEntity(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := svc.Resource("incidents"); !errors.Is(err, admin.ErrUnknownEntity) {
		t.Fatalf("expected ErrUnknownEntity, got %v", err)
	}
	if got := len(svc.Entities()); got != 8 {
		t.Fatalf("expected 8 entities, got %d", got)
	}
}

func TestBackendErrorsAreTagged(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := svc.DashboardStats(context.Background())

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apiclient.Error, got %T", err)
	}
	if apiErr.Status != http.StatusForbidden || apiErr.Message != apiclient.MsgForbidden {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}
