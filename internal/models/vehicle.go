package models

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus represents the lifecycle state of a vehicle identity
type VehicleStatus string

const (
	// VehicleStatusUnregistered marks rows created lazily by alert ingestion,
	// before anyone has completed the vehicle's record
	VehicleStatusUnregistered VehicleStatus = "UNREGISTERED"
	VehicleStatusActive       VehicleStatus = "ACTIVE"
	VehicleStatusDisabled     VehicleStatus = "DISABLED"
)

// Vehicle is the identity record for a machine within a company. The
// normalized code is unique per company; the license plate is optional and
// becomes the principal matching key once known.
type Vehicle struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	CompanyID uuid.UUID `json:"companyId" db:"company_id"`

	// VehicleCodeRaw is the code exactly as received ("fg-22010 ", " MG069")
	VehicleCodeRaw string `json:"vehicleCodeRaw" db:"vehicle_code_raw"`

	// VehicleCodeNorm is the canonical form used for lookups and uniqueness
	VehicleCodeNorm string `json:"vehicleCodeNorm" db:"vehicle_code_norm"`

	LicensePlate string `json:"licensePlate,omitempty" db:"license_plate"`

	Status VehicleStatus `json:"status" db:"status"`
}
