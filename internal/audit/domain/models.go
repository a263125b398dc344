package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records one mutating action against a tenant's data. Metadata
// carries action-specific detail with sensitive values masked.
type AuditLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Tenant    string            `gorm:"index:idx_audit_tenant_created" json:"tenant"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	TargetID  *string           `json:"target_id,omitempty"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	IPAddress *string           `json:"ip_address,omitempty"`
	UserAgent *string           `json:"user_agent,omitempty"`
	CreatedAt time.Time         `gorm:"index:idx_audit_tenant_created" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// AuditCursor is the keyset position for paging backwards through a
// tenant's history.
type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

// ListFilter narrows a history listing.
type ListFilter struct {
	Tenant  string
	Action  string
	StartAt *time.Time
	EndAt   *time.Time
	Cursor  *AuditCursor
	Limit   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}
