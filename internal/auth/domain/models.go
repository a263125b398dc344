package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Roles a broker account can hold. Record routes accept user and
// paid_user; admin additionally reaches the audit history.
const (
	RoleAdmin    = "admin"
	RoleUser     = "user"
	RolePaidUser = "paid_user"
)

// KnownRole reports whether role is one of the assignable roles.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleUser, RolePaidUser:
		return true
	default:
		return false
	}
}

// User is a broker account. Handle doubles as the tenant handle embedded
// in every record id the account creates, so it is normalized to a slug
// at registration and never changes afterwards.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Handle       string       `gorm:"uniqueIndex" json:"handle"`
	FullName     string       `json:"full_name"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (User) TableName() string { return "users" }
