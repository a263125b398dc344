package service

import (
	"context"
	"testing"
	"time"

	"github.com/brokerbase/polisdesk/internal/auth/domain"
	"github.com/brokerbase/polisdesk/internal/auth/repository"
	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/config"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		DB:    gdb,
		Log:   zap.NewNop(),
		Cfg:   config.Config{AuthJWTSecret: "test-secret", AuthTokenTTLMin: 60},
		Clock: fake,
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, fake
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		FullName: "Eko Prasetyo",
		Username: "Eko Prasetyo",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.Equal(t, "eko-prasetyo", registered.User.Handle)
	assert.Equal(t, domain.RoleUser, registered.User.Role)
	assert.NotEmpty(t, registered.Token)

	logged, err := svc.Login(ctx, domain.LoginRequest{Username: "Eko Prasetyo", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.Handle, logged.User.Handle)

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "Eko Prasetyo", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "nobody-here", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Username: "eko", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ek", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrShortUsername)

	_, err = svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ekosan", Password: "12345"})
	assert.ErrorIs(t, err, domain.ErrShortPassword)

	_, err = svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ekosan", Password: "secret123", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRegisterDuplicateHandle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ekosan", Password: "secret123"})
	require.NoError(t, err)

	// Different casing slugs to the same handle.
	_, err = svc.Register(ctx, domain.RegisterRequest{FullName: "Other", Username: "EkoSan", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrHandleTaken)
}

func TestVerify(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		FullName: "Eko",
		Username: "ekosan",
		Password: "secret123",
		Role:     domain.RolePaidUser,
	})
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, "ekosan", claims.Handle)
	assert.Equal(t, domain.RolePaidUser, claims.Role)

	_, err = svc.Verify(ctx, "not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	fake.Advance(2 * time.Hour)
	_, err = svc.Verify(ctx, registered.Token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ekosan", Password: "secret123"})
	require.NoError(t, err)

	info, err := svc.UpdateProfile(ctx, registered.User.Handle, domain.UpdateProfileRequest{FullName: "Eko Prasetyo"})
	require.NoError(t, err)
	assert.Equal(t, "Eko Prasetyo", info.FullName)
	assert.Equal(t, "ekosan", info.Handle)

	_, err = svc.UpdateProfile(ctx, registered.User.Handle, domain.UpdateProfileRequest{FullName: "  "})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.UpdateProfile(ctx, "ghost", domain.UpdateProfileRequest{FullName: "Someone"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ekosan", Password: "secret123"})
	require.NoError(t, err)
	handle := registered.User.Handle

	err = svc.ChangePassword(ctx, handle, domain.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newsecret"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	err = svc.ChangePassword(ctx, handle, domain.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "short"})
	assert.ErrorIs(t, err, domain.ErrShortPassword)

	err = svc.ChangePassword(ctx, handle, domain.ChangePasswordRequest{CurrentPassword: "secret123"})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	require.NoError(t, svc.ChangePassword(ctx, handle, domain.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret"}))

	_, err = svc.Login(ctx, domain.LoginRequest{Username: "ekosan", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	logged, err := svc.Login(ctx, domain.LoginRequest{Username: "ekosan", Password: "newsecret"})
	require.NoError(t, err)
	assert.Equal(t, handle, logged.User.Handle)
}

func TestGetByHandle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{FullName: "Eko", Username: "ekosan", Password: "secret123"})
	require.NoError(t, err)

	info, err := svc.GetByHandle(ctx, registered.User.Handle)
	require.NoError(t, err)
	assert.Equal(t, "Eko", info.FullName)

	_, err = svc.GetByHandle(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
