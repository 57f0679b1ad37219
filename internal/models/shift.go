package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Shift is one roster entry imported from an uploaded spreadsheet. An import
// replaces the previous active batch for the same company and date; the
// batch id ties rows of one upload together.
type Shift struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	CompanyID uuid.UUID `json:"companyId" db:"company_id"`

	RosterDate time.Time `json:"rosterDate" db:"roster_date"`
	ShiftName  string    `json:"shiftName" db:"shift_name"`
	BatchID    string    `json:"batchId" db:"batch_id"`
	Active     bool      `json:"active" db:"active"`

	ResponsibleIDs pq.StringArray `json:"responsibleIds" db:"responsible_ids"`
	VehiclePlates  pq.StringArray `json:"vehiclePlates" db:"vehicle_plates"`
}
