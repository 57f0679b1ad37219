package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is the central fact of the system, created once by ingestion from the
// external email parser. VehicleCode and LicensePlate are denormalized
// matching keys so history queries never need a join on vehicles.
type Alert struct {
	ID uuid.UUID `json:"id" db:"id"`

	CompanyID uuid.UUID `json:"companyId" db:"company_id"`

	VehicleCode  string `json:"vehicleCode" db:"vehicle_code"`
	LicensePlate string `json:"licensePlate,omitempty" db:"license_plate"`

	AlertType      string `json:"alertType" db:"alert_type"`
	AlertSubtype   string `json:"alertSubtype,omitempty" db:"alert_subtype"`
	TemplateSource string `json:"templateSource,omitempty" db:"template_source"`
	Severity       string `json:"severity,omitempty" db:"severity"`

	Subject       string `json:"subject,omitempty" db:"subject"`
	Plant         string `json:"plant,omitempty" db:"plant"`
	Area          string `json:"area,omitempty" db:"area"`
	OwnerOrVendor string `json:"ownerOrVendor,omitempty" db:"owner_or_vendor"`
	BrandModel    string `json:"brandModel,omitempty" db:"brand_model"`

	OperatorName string `json:"operatorName,omitempty" db:"operator_name"`
	OperatorID   string `json:"operatorId,omitempty" db:"operator_id"`

	// EventTime is when the real-world event occurred, as reported by the
	// source email. ReceivedAt is assigned by the server and never updated.
	EventTime  time.Time `json:"eventTime" db:"event_time"`
	ReceivedAt time.Time `json:"receivedAt" db:"received_at"`

	ShortDescription string `json:"shortDescription,omitempty" db:"short_description"`
	Details          string `json:"details,omitempty" db:"details"`

	// RawPayload keeps the original unparsed text/HTML for reprocessing
	RawPayload string `json:"rawPayload,omitempty" db:"raw_payload"`

	Acknowledged bool `json:"acknowledged" db:"acknowledged"`
}

// AlertRevision is a supervisor's structured review of an alert. At most one
// revision exists per alert.
type AlertRevision struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	CompanyID uuid.UUID `json:"companyId" db:"company_id"`
	AlertID   uuid.UUID `json:"alertId" db:"alert_id"`

	ReviewerName string `json:"reviewerName" db:"reviewer_name"`
	Resolution   string `json:"resolution,omitempty" db:"resolution"`
	Comments     string `json:"comments,omitempty" db:"comments"`
}

// RevisionPhoto is a binary attachment on a revision, cascade-deleted with it.
// Data is only transmitted on detail views, base64-encoded.
type RevisionPhoto struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	RevisionID uuid.UUID `json:"revisionId" db:"revision_id"`

	Filename    string `json:"filename" db:"filename"`
	ContentType string `json:"contentType" db:"content_type"`
	Data        []byte `json:"data,omitempty" db:"data"`
}
