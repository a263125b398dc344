package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserInfo is the public view of an account.
type UserInfo struct {
	ID       string `json:"id"`
	Handle   string `json:"handle"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// AuthResponse carries a signed token together with the account it
// authenticates.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Claims is what a verified token asserts about its bearer.
type Claims struct {
	Handle string
	Role   string
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Verify(ctx context.Context, token string) (Claims, error)
	GetByHandle(ctx context.Context, handle string) (UserInfo, error)
	UpdateProfile(ctx context.Context, handle string, req UpdateProfileRequest) (UserInfo, error)
	ChangePassword(ctx context.Context, handle string, req ChangePasswordRequest) error
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, user *User) error
	FindByHandle(ctx context.Context, db *gorm.DB, handle string) (*User, error)
	Update(ctx context.Context, db *gorm.DB, user *User) error
}

var (
	ErrMissingFields      = errors.New("missing_fields")
	ErrShortUsername      = errors.New("username_too_short")
	ErrShortPassword      = errors.New("password_too_short")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrHandleTaken        = errors.New("handle_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrWrongPassword      = errors.New("current_password_incorrect")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrTokenExpired       = errors.New("token_expired")
	ErrUserNotFound       = errors.New("user_not_found")
)
