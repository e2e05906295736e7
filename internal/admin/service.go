package admin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/amasbarry223/blasira-admin/internal/apiclient"
)

var (
	ErrInvalidID     = errors.New("admin: id is required")
	ErrInvalidStatus = errors.New("admin: unknown document status")
	ErrUnknownEntity = errors.New("admin: unknown resource")
)

const (
	usersPath         = "/admin/users"
	statsPath         = "/admin/dashboard-stats"
	documentsPath     = "/admin/documents"
	verificationsPath = "/admin/verifications"
)

// Resource는 관례적인 REST 리소스(GET/POST 목록, GET/PUT/DELETE 단건)입니다
type Resource[T any] struct {
	client *apiclient.Client
	path   string
}

func NewResource[T any](client *apiclient.Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) item(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}
	return r.path + "/" + url.PathEscape(id), nil
}

func (r *Resource[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	return apiclient.Get[[]T](ctx, r.client, r.path+opts.encode())
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	endpoint, err := r.item(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return apiclient.Get[T](ctx, r.client, endpoint)
}

func (r *Resource[T]) Create(ctx context.Context, v T) (T, error) {
	return apiclient.Post[T](ctx, r.client, r.path, v)
}

func (r *Resource[T]) Update(ctx context.Context, id string, v any) (T, error) {
	endpoint, err := r.item(id)
	if err != nil {
		var zero T
		return zero, err
	}
	return apiclient.Put[T](ctx, r.client, endpoint, v)
}

func (r *Resource[T]) Remove(ctx context.Context, id string) error {
	endpoint, err := r.item(id)
	if err != nil {
		return err
	}
	_, err = apiclient.Delete[struct{}](ctx, r.client, endpoint)
	return err
}

type Service struct {
	client    *apiclient.Client
	users     *Resource[User]
	resources map[string]*Resource[Record]
}

// entity name -> path
var resourcePaths = map[string]string{
	"trips":           "/admin/trips",
	"bookings":        "/admin/bookings",
	"vehicles":        "/admin/vehicles",
	"reviews":         "/admin/reviews",
	"payments":        "/admin/payments",
	"promo-codes":     "/admin/promo-codes",
	"messages":        "/admin/messages",
	"support-tickets": "/admin/support-tickets",
}

func NewService(client *apiclient.Client) *Service {
	resources := make(map[string]*Resource[Record], len(resourcePaths))
	for name, path := range resourcePaths {
		resources[name] = NewResource[Record](client, path)
	}
	return &Service{
		client:    client,
		users:     NewResource[User](client, usersPath),
		resources: resources,
	}
}

// Entities는 Resource로 접근 가능한 리소스 이름을 정렬해서 반환합니다
func (s *Service) Entities() []string {
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Service) Resource(entity string) (*Resource[Record], error) {
	r, ok := s.resources[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return r, nil
}

func (s *Service) ListUsers(ctx context.Context, opts ListOptions) ([]User, error) {
	return s.users.List(ctx, opts)
}

func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.users.Get(ctx, formatID(id))
}

func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (User, error) {
	return s.users.Update(ctx, formatID(id), req)
}

func (s *Service) DashboardStats(ctx context.Context) (DashboardStats, error) {
	return apiclient.Get[DashboardStats](ctx, s.client, statsPath)
}

func (s *Service) ListDocuments(ctx context.Context, opts ListOptions) ([]Document, error) {
	return apiclient.Get[[]Document](ctx, s.client, documentsPath+opts.encode())
}

func (s *Service) UpdateDocumentStatus(ctx context.Context, id int64, update DocumentStatusUpdate) (Document, error) {
	if id <= 0 {
		return Document{}, ErrInvalidID
	}
	if !update.Status.Valid() {
		return Document{}, fmt.Errorf("%w: %q", ErrInvalidStatus, update.Status)
	}
	endpoint := fmt.Sprintf("%s/%d/status", documentsPath, id)
	return apiclient.Patch[Document](ctx, s.client, endpoint, update)
}

func (s *Service) ApproveVerification(ctx context.Context, id int64) (Verification, error) {
	return s.decide(ctx, id, "approve", VerificationDecision{})
}

func (s *Service) RejectVerification(ctx context.Context, id int64, reason string) (Verification, error) {
	return s.decide(ctx, id, "reject", VerificationDecision{Reason: strings.TrimSpace(reason)})
}

func (s *Service) decide(ctx context.Context, id int64, action string, body VerificationDecision) (Verification, error) {
	if id <= 0 {
		return Verification{}, ErrInvalidID
	}
	endpoint := fmt.Sprintf("%s/%d/%s", verificationsPath, id, action)
	return apiclient.Post[Verification](ctx, s.client, endpoint, body)
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
