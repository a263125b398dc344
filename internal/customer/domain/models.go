package domain

// Status is the lifecycle state of a customer policy. The empty string
// means unset: consumers derive an effective state from carData.dueDate.
type Status string

const (
	StatusActive    Status = "Active"
	StatusExpired   Status = "Expired"
	StatusCancelled Status = "Cancelled"
)

// Customer is a motor-insurance customer record. Identifiers follow the
// {tenantHandle}-{sequence} format and records are only reachable by the
// tenant embedded in the id.
type Customer struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Notes          string         `json:"notes"`
	Status         Status         `json:"status,omitempty"`
	CarData        CarData        `json:"carData"`
	DocumentStatus DocumentStatus `json:"documentStatus"`
	CarPhotos      CarPhotos      `json:"carPhotos"`
	DocumentPhotos DocumentPhotos `json:"documentPhotos"`
	CreatedBy      string         `json:"createdBy"`
	CreatedAt      int64          `json:"createdAt"`
	UpdatedAt      int64          `json:"updatedAt"`
}

// CarData carries the insured vehicle. DueDate is the policy due date in
// epoch milliseconds; nil means no due date is set.
type CarData struct {
	OwnerName     string `json:"ownerName"`
	CarBrand      string `json:"carBrand"`
	CarModel      string `json:"carModel"`
	PlateNumber   string `json:"plateNumber"`
	ChassisNumber string `json:"chassisNumber"`
	EngineNumber  string `json:"engineNumber"`
	DueDate       *int64 `json:"dueDate"`
	CarPrice      int64  `json:"carPrice"`
}

type DocumentStatus struct {
	HasSTNK bool `json:"hasSTNK"`
	HasSIM  bool `json:"hasSIM"`
	HasKTP  bool `json:"hasKTP"`
}

type CarPhotos struct {
	LeftSide  string `json:"leftSide"`
	RightSide string `json:"rightSide"`
	Front     string `json:"front"`
	Back      string `json:"back"`
}

type DocumentPhotos struct {
	STNK string `json:"stnk"`
	SIM  string `json:"sim"`
	KTP  string `json:"ktp"`
}

// DefaultCarData is the documented default shape for a fresh record: all
// sub-fields present with empty values, owner name seeded from the
// customer name.
func DefaultCarData(ownerName string) CarData {
	return CarData{OwnerName: ownerName}
}

// Stats summarizes a tenant's customer collection without allocating a
// sequence number.
type Stats struct {
	TotalCustomers int64  `json:"totalCustomers"`
	CurrentCounter int64  `json:"currentCounter"`
	NextCustomerID string `json:"nextCustomerId"`
}
