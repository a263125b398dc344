package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/brokerbase/polisdesk/internal/clock"
	"github.com/brokerbase/polisdesk/internal/company/domain"
	"github.com/brokerbase/polisdesk/internal/treestore"
	"github.com/brokerbase/polisdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Each tenant owns exactly one profile document under this key.
const profileKey = "profile"

type service struct {
	log   *zap.Logger
	store treestore.Store
	clock clock.Clock
}

type Params struct {
	fx.In

	Log   *zap.Logger
	Store treestore.Store
	Clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &service{
		log:   p.Log.Named("company.service"),
		store: p.Store,
		clock: p.Clock,
	}
}

func (s *service) Get(ctx context.Context) (domain.Profile, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrNoTenant
	}
	return s.load(ctx, tenant)
}

func (s *service) Create(ctx context.Context, req domain.ProfileRequest) (domain.Profile, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrNoTenant
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return domain.Profile{}, domain.ErrNameRequired
	}

	existing, err := s.load(ctx, tenant)
	if err != nil {
		return domain.Profile{}, err
	}
	if existing.Exists() {
		return domain.Profile{}, domain.ErrProfileExists
	}

	now := s.clock.Now().UnixMilli()
	profile := domain.Profile{
		CompanyName:     strings.TrimSpace(req.CompanyName),
		CompanySubtitle: strings.TrimSpace(req.CompanySubtitle),
		CompanyCity:     strings.TrimSpace(req.CompanyCity),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.persist(ctx, tenant, profile); err != nil {
		return domain.Profile{}, err
	}

	s.log.Info("company profile created", zap.String("tenant", tenant))
	return profile, nil
}

func (s *service) Update(ctx context.Context, req domain.ProfileRequest) (domain.Profile, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrNoTenant
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return domain.Profile{}, domain.ErrNameRequired
	}

	existing, err := s.load(ctx, tenant)
	if err != nil {
		return domain.Profile{}, err
	}

	now := s.clock.Now().UnixMilli()
	// Update doubles as first-time creation; the logo survives text
	// edits untouched.
	profile := domain.Profile{
		CompanyName:     strings.TrimSpace(req.CompanyName),
		CompanySubtitle: strings.TrimSpace(req.CompanySubtitle),
		CompanyCity:     strings.TrimSpace(req.CompanyCity),
		Logo:            existing.Logo,
		CreatedAt:       existing.CreatedAt,
		UpdatedAt:       now,
	}
	if !existing.Exists() {
		profile.CreatedAt = now
	}
	if err := s.persist(ctx, tenant, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *service) SetLogo(ctx context.Context, logo domain.Logo) (domain.Profile, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrNoTenant
	}

	profile, err := s.load(ctx, tenant)
	if err != nil {
		return domain.Profile{}, err
	}
	if !profile.Exists() {
		return domain.Profile{}, domain.ErrProfileMissing
	}

	profile.Logo = &logo
	profile.UpdatedAt = s.clock.Now().UnixMilli()
	if err := s.persist(ctx, tenant, profile); err != nil {
		return domain.Profile{}, err
	}

	s.log.Info("company logo set",
		zap.String("tenant", tenant),
		zap.String("url", logo.URL),
	)
	return profile, nil
}

func (s *service) ClearLogo(ctx context.Context) (*domain.Logo, error) {
	tenant, ok := tenantctx.TenantHandle(ctx)
	if !ok {
		return nil, domain.ErrNoTenant
	}

	profile, err := s.load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	removed := profile.Logo
	if removed == nil {
		return nil, nil
	}

	profile.Logo = nil
	profile.UpdatedAt = s.clock.Now().UnixMilli()
	if err := s.persist(ctx, tenant, profile); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *service) load(ctx context.Context, tenant string) (domain.Profile, error) {
	raw, err := s.store.Get(ctx, treestore.BranchCompanyProfiles, tenant, profileKey)
	if err != nil {
		if errors.Is(err, treestore.ErrNotFound) {
			return domain.Profile{}, nil
		}
		return domain.Profile{}, err
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("decode company profile for %s: %w", tenant, err)
	}
	return profile, nil
}

func (s *service) persist(ctx context.Context, tenant string, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode company profile for %s: %w", tenant, err)
	}
	return s.store.Set(ctx, treestore.BranchCompanyProfiles, tenant, profileKey, raw)
}
