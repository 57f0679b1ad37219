package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NotificationGroup is a company-scoped vehicle + user grouping used to route
// push alerts. It holds two independent membership sets: VehiclePlates is the
// principal one, VehicleCodes is a legacy fallback consulted only when the
// plate set is empty.
type NotificationGroup struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	CompanyID uuid.UUID `json:"companyId" db:"company_id"`

	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Active      bool   `json:"active" db:"active"`

	VehiclePlates pq.StringArray `json:"vehiclePlates" db:"vehicle_plates"`
	VehicleCodes  pq.StringArray `json:"vehicleCodes" db:"vehicle_codes"`
}

// Fleet is a company-scoped vehicle grouping used for operational filtering,
// not notification routing. Same plates-first membership rule as groups.
type Fleet struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	CompanyID uuid.UUID `json:"companyId" db:"company_id"`

	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Active      bool   `json:"active" db:"active"`

	VehiclePlates pq.StringArray `json:"vehiclePlates" db:"vehicle_plates"`
	VehicleCodes  pq.StringArray `json:"vehicleCodes" db:"vehicle_codes"`
}

// GroupMembership links a user to a notification group. Soft-removable via
// the active flag, unique per (group, user).
type GroupMembership struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	GroupID uuid.UUID `json:"groupId" db:"group_id"`
	UserID  uuid.UUID `json:"userId" db:"user_id"`

	Active bool `json:"active" db:"active"`
}
