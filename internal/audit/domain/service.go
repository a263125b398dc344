package domain

import (
	"context"
	"errors"
	"time"

	"github.com/brokerbase/polisdesk/pkg/db/pagination"
)

type ListRequest struct {
	pagination.Pagination
	Action  string
	StartAt *time.Time
	EndAt   *time.Time
}

type ListResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

// Service writes and lists the per-tenant action history. Record is
// best-effort from the caller's point of view: handlers log failures
// but never fail the request over them.
type Service interface {
	Record(ctx context.Context, action, targetID string, metadata map[string]any) error
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrInvalidAction    = errors.New("invalid_action")
)
