package domain

import (
	"context"
	"errors"

	"github.com/brokerbase/polisdesk/pkg/field"
)

// CreateRequest carries the fields of a new customer. Sub-objects are
// optional; absent ones take the documented default shape.
type CreateRequest struct {
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Phone          string               `json:"phone"`
	Address        string               `json:"address"`
	Notes          string               `json:"notes"`
	CarData        *CarDataPatch        `json:"carData"`
	DocumentStatus *DocumentStatusPatch `json:"documentStatus"`
	CarPhotos      *CarPhotosPatch      `json:"carPhotos"`
	DocumentPhotos *DocumentPhotosPatch `json:"documentPhotos"`
}

// UpdateRequest is a partial update. Absent fields keep their stored
// values; explicit null clears where clearing is meaningful (status,
// dueDate). Sub-object patches merge one level deep.
type UpdateRequest struct {
	Name           field.Opt[string]    `json:"name"`
	Email          field.Opt[string]    `json:"email"`
	Phone          field.Opt[string]    `json:"phone"`
	Address        field.Opt[string]    `json:"address"`
	Notes          field.Opt[string]    `json:"notes"`
	Status         field.Opt[string]    `json:"status"`
	CarData        *CarDataPatch        `json:"carData"`
	DocumentStatus *DocumentStatusPatch `json:"documentStatus"`
	CarPhotos      *CarPhotosPatch      `json:"carPhotos"`
	DocumentPhotos *DocumentPhotosPatch `json:"documentPhotos"`
}

type CarDataPatch struct {
	OwnerName     field.Opt[string] `json:"ownerName"`
	CarBrand      field.Opt[string] `json:"carBrand"`
	CarModel      field.Opt[string] `json:"carModel"`
	PlateNumber   field.Opt[string] `json:"plateNumber"`
	ChassisNumber field.Opt[string] `json:"chassisNumber"`
	EngineNumber  field.Opt[string] `json:"engineNumber"`
	DueDate       field.Opt[int64]  `json:"dueDate"`
	CarPrice      field.Opt[int64]  `json:"carPrice"`
}

type DocumentStatusPatch struct {
	HasSTNK field.Opt[bool] `json:"hasSTNK"`
	HasSIM  field.Opt[bool] `json:"hasSIM"`
	HasKTP  field.Opt[bool] `json:"hasKTP"`
}

type CarPhotosPatch struct {
	LeftSide  field.Opt[string] `json:"leftSide"`
	RightSide field.Opt[string] `json:"rightSide"`
	Front     field.Opt[string] `json:"front"`
	Back      field.Opt[string] `json:"back"`
}

type DocumentPhotosPatch struct {
	STNK field.Opt[string] `json:"stnk"`
	SIM  field.Opt[string] `json:"sim"`
	KTP  field.Opt[string] `json:"ktp"`
}

// Service is the tenant-scoped customer record store. The calling
// tenant is read from the request context; SweepExpired takes an
// explicit tenant so the background sweeper can drive it.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]Customer, error)
	Stats(ctx context.Context) (Stats, error)
	SweepExpired(ctx context.Context, tenant string) (int, error)
}

var (
	ErrNoTenant      = errors.New("no_tenant")
	ErrNameRequired  = errors.New("name_required")
	ErrInvalidID     = errors.New("invalid_customer_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrForbidden     = errors.New("customer_forbidden")
	ErrNotFound      = errors.New("customer_not_found")
	ErrEmptyQuery    = errors.New("empty_query")
)
