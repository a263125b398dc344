package domain

import (
	"context"
	"errors"
)

// Profile is a tenant's brokerage letterhead: the name, subtitle and
// city printed on customer-facing documents, plus an optional logo.
// One profile per tenant.
type Profile struct {
	CompanyName     string `json:"companyName"`
	CompanySubtitle string `json:"companySubtitle"`
	CompanyCity     string `json:"companyCity"`
	Logo            *Logo  `json:"companyLogo"`
	CreatedAt       int64  `json:"createdAt,omitempty"`
	UpdatedAt       int64  `json:"updatedAt,omitempty"`
}

// Exists reports whether the profile has been created, as opposed to
// the empty default Get returns for tenants without one.
func (p Profile) Exists() bool { return p.CreatedAt != 0 }

// Logo points at the uploaded company logo. Key is the blob store key
// so a replacement or delete can remove the prior object.
type Logo struct {
	URL        string `json:"url"`
	Key        string `json:"key"`
	UploadedAt int64  `json:"uploadedAt"`
}

// ProfileRequest carries the editable text fields.
type ProfileRequest struct {
	CompanyName     string `json:"companyName"`
	CompanySubtitle string `json:"companySubtitle"`
	CompanyCity     string `json:"companyCity"`
}

// Service manages the calling tenant's company profile. Get returns an
// empty default for tenants that have not created one yet.
type Service interface {
	Get(ctx context.Context) (Profile, error)
	Create(ctx context.Context, req ProfileRequest) (Profile, error)
	Update(ctx context.Context, req ProfileRequest) (Profile, error)
	SetLogo(ctx context.Context, logo Logo) (Profile, error)
	ClearLogo(ctx context.Context) (*Logo, error)
}

var (
	ErrNoTenant       = errors.New("no_tenant")
	ErrNameRequired   = errors.New("company_name_required")
	ErrProfileExists  = errors.New("company_profile_exists")
	ErrProfileMissing = errors.New("company_profile_missing")
)
