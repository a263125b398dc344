package domain

// Status is the lifecycle state of a property policy. Unlike customers,
// properties start out Active.
type Status string

const (
	StatusActive    Status = "Active"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
)

// KnownStatus reports whether s is one of the lifecycle states a caller
// may write.
func KnownStatus(s Status) bool {
	switch s {
	case StatusActive, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Property is an insured-property record. Identifiers follow the
// {tenantHandle}-{sequence} format shared with customer records.
type Property struct {
	ID             string         `json:"id"`
	OwnerName      string         `json:"ownerName"`
	OwnerPhone     string         `json:"ownerPhone"`
	OwnerEmail     string         `json:"ownerEmail"`
	OwnerAddress   string         `json:"ownerAddress"`
	Notes          string         `json:"notes"`
	Status         Status         `json:"status,omitempty"`
	PropertyData   PropertyData   `json:"propertyData"`
	InsuranceData  InsuranceData  `json:"insuranceData"`
	PropertyPhotos PropertyPhotos `json:"propertyPhotos"`
	Documents      Documents      `json:"documents"`
	CreatedBy      string         `json:"createdBy"`
	CreatedAt      int64          `json:"createdAt"`
	UpdatedAt      int64          `json:"updatedAt"`
}

// PropertyData describes the building itself. Dimensions and values are
// kept as free-form strings, matching what brokers type in.
type PropertyData struct {
	PropertyType      string `json:"propertyType"`
	Address           string `json:"address"`
	City              string `json:"city"`
	Province          string `json:"province"`
	PostalCode        string `json:"postalCode"`
	BuildingArea      string `json:"buildingArea"`
	LandArea          string `json:"landArea"`
	NumberOfFloors    string `json:"numberOfFloors"`
	YearBuilt         string `json:"yearBuilt"`
	PropertyValue     string `json:"propertyValue"`
	BuildingStructure string `json:"buildingStructure"`
}

// InsuranceData carries the policy. StartDate and EndDate are epoch
// milliseconds; nil means not set. EndDate drives the expiry sweep.
type InsuranceData struct {
	PolicyNumber     string `json:"policyNumber"`
	InsuranceCompany string `json:"insuranceCompany"`
	CoverageType     string `json:"coverageType"`
	InsuranceValue   string `json:"insuranceValue"`
	Premium          string `json:"premium"`
	StartDate        *int64 `json:"startDate"`
	EndDate          *int64 `json:"endDate"`
	Deductible       string `json:"deductible"`
}

type PropertyPhotos struct {
	Front     string `json:"front"`
	Back      string `json:"back"`
	Left      string `json:"left"`
	Right     string `json:"right"`
	Interior1 string `json:"interior1"`
	Interior2 string `json:"interior2"`
	Interior3 string `json:"interior3"`
	Interior4 string `json:"interior4"`
}

type Documents struct {
	Certificate string `json:"certificate"`
	IMB         string `json:"imb"`
	PBB         string `json:"pbb"`
	Other       string `json:"other"`
}

// Stats summarizes a tenant's property collection.
type Stats struct {
	TotalProperties   int64  `json:"totalProperties"`
	ActiveProperties  int64  `json:"activeProperties"`
	ExpiredProperties int64  `json:"expiredProperties"`
	CurrentCounter    int64  `json:"currentCounter"`
	NextPropertyID    string `json:"nextPropertyId"`
}
