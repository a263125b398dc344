package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brokerbase/polisdesk/internal/auth/domain"
	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/config"
	"github.com/brokerbase/polisdesk/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minUsernameLen = 4
	minPasswordLen = 6
	bcryptCost     = 10
)

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		secret:   []byte(p.Cfg.AuthJWTSecret),
		tokenTTL: time.Duration(p.Cfg.AuthTokenTTLMin) * time.Minute,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	username := strings.TrimSpace(req.Username)
	if fullName == "" || username == "" || req.Password == "" {
		return domain.AuthResponse{}, domain.ErrMissingFields
	}
	if len(username) < minUsernameLen {
		return domain.AuthResponse{}, domain.ErrShortUsername
	}
	if len(req.Password) < minPasswordLen {
		return domain.AuthResponse{}, domain.ErrShortPassword
	}

	role := domain.RoleUser
	if trimmed := strings.TrimSpace(req.Role); trimmed != "" {
		if !domain.KnownRole(trimmed) {
			return domain.AuthResponse{}, domain.ErrInvalidRole
		}
		role = trimmed
	}

	// The handle becomes the prefix of every record id this account
	// creates, so it is slugged once here and immutable afterwards.
	handle := slug.Make(username)
	if len(handle) < minUsernameLen {
		return domain.AuthResponse{}, domain.ErrShortUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	now := s.clock.Now().UTC()
	user := domain.User{
		ID:           s.genID.Generate(),
		Handle:       handle,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.AuthResponse{}, domain.ErrHandleTaken
		}
		return domain.AuthResponse{}, err
	}

	s.log.Info("user registered",
		zap.String("handle", handle),
		zap.String("role", role),
	)
	return s.issue(user)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return domain.AuthResponse{}, domain.ErrMissingFields
	}

	user, err := s.repo.FindByHandle(ctx, s.db, slug.Make(username))
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if user == nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	return s.issue(*user)
}

func (s *service) Verify(_ context.Context, token string) (domain.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	return domain.Claims{Handle: claims.Subject, Role: claims.Role}, nil
}

func (s *service) GetByHandle(ctx context.Context, handle string) (domain.UserInfo, error) {
	user, err := s.repo.FindByHandle(ctx, s.db, handle)
	if err != nil {
		return domain.UserInfo{}, err
	}
	if user == nil {
		return domain.UserInfo{}, domain.ErrUserNotFound
	}
	return userInfo(*user), nil
}

func (s *service) UpdateProfile(ctx context.Context, handle string, req domain.UpdateProfileRequest) (domain.UserInfo, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return domain.UserInfo{}, domain.ErrMissingFields
	}

	user, err := s.repo.FindByHandle(ctx, s.db, handle)
	if err != nil {
		return domain.UserInfo{}, err
	}
	if user == nil {
		return domain.UserInfo{}, domain.ErrUserNotFound
	}

	user.FullName = fullName
	user.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return domain.UserInfo{}, err
	}
	return userInfo(*user), nil
}

func (s *service) ChangePassword(ctx context.Context, handle string, req domain.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return domain.ErrMissingFields
	}
	if len(req.NewPassword) < minPasswordLen {
		return domain.ErrShortPassword
	}

	user, err := s.repo.FindByHandle(ctx, s.db, handle)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, user); err != nil {
		return err
	}

	s.log.Info("password changed", zap.String("handle", handle))
	return nil
}

func (s *service) issue(user domain.User) (domain.AuthResponse, error) {
	now := s.clock.Now()
	claims := tokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Handle,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	return domain.AuthResponse{Token: token, User: userInfo(user)}, nil
}

func userInfo(user domain.User) domain.UserInfo {
	return domain.UserInfo{
		ID:       user.ID.String(),
		Handle:   user.Handle,
		FullName: user.FullName,
		Role:     user.Role,
	}
}
