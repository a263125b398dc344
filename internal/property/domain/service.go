package domain

import (
	"context"
	"errors"

	"github.com/brokerbase/polisdesk/pkg/field"
)

// CreateRequest carries the fields of a new property. Status defaults to
// Active when absent; sub-objects default to their empty shape.
type CreateRequest struct {
	OwnerName     string              `json:"ownerName"`
	OwnerPhone    string              `json:"ownerPhone"`
	OwnerEmail    string              `json:"ownerEmail"`
	OwnerAddress  string              `json:"ownerAddress"`
	Notes         string              `json:"notes"`
	Status        string              `json:"status"`
	PropertyData  *PropertyDataPatch  `json:"propertyData"`
	InsuranceData *InsuranceDataPatch `json:"insuranceData"`
}

// UpdateRequest is a partial update with the same merge semantics as
// customer updates: absent keeps, null clears, sub-objects merge one
// level deep.
type UpdateRequest struct {
	OwnerName      field.Opt[string]    `json:"ownerName"`
	OwnerPhone     field.Opt[string]    `json:"ownerPhone"`
	OwnerEmail     field.Opt[string]    `json:"ownerEmail"`
	OwnerAddress   field.Opt[string]    `json:"ownerAddress"`
	Notes          field.Opt[string]    `json:"notes"`
	Status         field.Opt[string]    `json:"status"`
	PropertyData   *PropertyDataPatch   `json:"propertyData"`
	InsuranceData  *InsuranceDataPatch  `json:"insuranceData"`
	PropertyPhotos *PropertyPhotosPatch `json:"propertyPhotos"`
	Documents      *DocumentsPatch      `json:"documents"`
}

type PropertyDataPatch struct {
	PropertyType      field.Opt[string] `json:"propertyType"`
	Address           field.Opt[string] `json:"address"`
	City              field.Opt[string] `json:"city"`
	Province          field.Opt[string] `json:"province"`
	PostalCode        field.Opt[string] `json:"postalCode"`
	BuildingArea      field.Opt[string] `json:"buildingArea"`
	LandArea          field.Opt[string] `json:"landArea"`
	NumberOfFloors    field.Opt[string] `json:"numberOfFloors"`
	YearBuilt         field.Opt[string] `json:"yearBuilt"`
	PropertyValue     field.Opt[string] `json:"propertyValue"`
	BuildingStructure field.Opt[string] `json:"buildingStructure"`
}

type InsuranceDataPatch struct {
	PolicyNumber     field.Opt[string] `json:"policyNumber"`
	InsuranceCompany field.Opt[string] `json:"insuranceCompany"`
	CoverageType     field.Opt[string] `json:"coverageType"`
	InsuranceValue   field.Opt[string] `json:"insuranceValue"`
	Premium          field.Opt[string] `json:"premium"`
	StartDate        field.Opt[int64]  `json:"startDate"`
	EndDate          field.Opt[int64]  `json:"endDate"`
	Deductible       field.Opt[string] `json:"deductible"`
}

type PropertyPhotosPatch struct {
	Front     field.Opt[string] `json:"front"`
	Back      field.Opt[string] `json:"back"`
	Left      field.Opt[string] `json:"left"`
	Right     field.Opt[string] `json:"right"`
	Interior1 field.Opt[string] `json:"interior1"`
	Interior2 field.Opt[string] `json:"interior2"`
	Interior3 field.Opt[string] `json:"interior3"`
	Interior4 field.Opt[string] `json:"interior4"`
}

type DocumentsPatch struct {
	Certificate field.Opt[string] `json:"certificate"`
	IMB         field.Opt[string] `json:"imb"`
	PBB         field.Opt[string] `json:"pbb"`
	Other       field.Opt[string] `json:"other"`
}

// Service is the tenant-scoped property record store.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (Property, error)
	Get(ctx context.Context, id string) (Property, error)
	List(ctx context.Context) ([]Property, error)
	ListByStatus(ctx context.Context, status Status) ([]Property, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Property, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]Property, error)
	Stats(ctx context.Context) (Stats, error)
	SweepExpired(ctx context.Context, tenant string) (int, error)
}

var (
	ErrNoTenant          = errors.New("no_tenant")
	ErrOwnerNameRequired = errors.New("owner_name_required")
	ErrInvalidID         = errors.New("invalid_property_id")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrForbidden         = errors.New("property_forbidden")
	ErrNotFound          = errors.New("property_not_found")
	ErrEmptyQuery        = errors.New("empty_query")
)
