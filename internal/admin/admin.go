// Package admin binds the Blasira back-office REST endpoints to typed calls.
// Authorization is enforced by the backend; these calls only carry the
// headers the auth facade provides.
package admin

import (
	"net/url"
	"strconv"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleDriver    Role = "DRIVER"
	RolePassenger Role = "PASSENGER"
)

type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"telephone"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateUserRequest는 nil이 아닌 필드만 보냅니다
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Role      *Role   `json:"role,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

type DashboardStats struct {
	TotalUsers           int64   `json:"totalUsers"`
	TotalDrivers         int64   `json:"totalDrivers"`
	ActiveTrips          int64   `json:"activeTrips"`
	TotalBookings        int64   `json:"totalBookings"`
	PendingVerifications int64   `json:"pendingVerifications"`
	OpenTickets          int64   `json:"openTickets"`
	Revenue              float64 `json:"revenue"`
}

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentApproved DocumentStatus = "APPROVED"
	DocumentRejected DocumentStatus = "REJECTED"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentPending, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

type Document struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"userId"`
	Type       string         `json:"type"`
	Status     DocumentStatus `json:"status"`
	URL        string         `json:"url"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

type DocumentStatusUpdate struct {
	Status DocumentStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
}

type VerificationDecision struct {
	Reason string `json:"reason,omitempty"`
}

type Verification struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Record는 스키마를 고정하지 않는 리소스(trips, bookings, ...)의 한 항목입니다
type Record map[string]any

// ListOptions는 목록 조회의 쿼리 파라미터입니다. 0/빈 값은 생략됩니다
type ListOptions struct {
	Page   int
	Size   int
	Search string
	Status string
}

func (o ListOptions) encode() string {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		q.Set("size", strconv.Itoa(o.Size))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
