package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// CreateAlertRequest is the ingestion payload. EventTime must carry an offset;
// the tenant comes from the authenticated session, never from the body.
type CreateAlertRequest struct {
	VehicleCode  string `json:"vehicleCode" validate:"required"`
	LicensePlate string `json:"licensePlate,omitempty"`

	AlertType      string `json:"alertType" validate:"required"`
	AlertSubtype   string `json:"alertSubtype,omitempty"`
	TemplateSource string `json:"templateSource,omitempty"`
	Severity       string `json:"severity,omitempty"`

	Subject       string `json:"subject,omitempty"`
	Plant         string `json:"plant,omitempty"`
	Area          string `json:"area,omitempty"`
	OwnerOrVendor string `json:"ownerOrVendor,omitempty"`
	BrandModel    string `json:"brandModel,omitempty"`

	OperatorName string `json:"operatorName,omitempty"`
	OperatorID   string `json:"operatorId,omitempty"`

	EventTime time.Time `json:"eventTime" validate:"required"`

	ShortDescription string `json:"shortDescription,omitempty"`
	Details          string `json:"details,omitempty"`
	RawPayload       string `json:"rawPayload" validate:"required"`
}

// UpdateAlertRequest carries partial mutations; nil fields are left untouched
type UpdateAlertRequest struct {
	ShortDescription *string `json:"shortDescription,omitempty"`
	Details          *string `json:"details,omitempty"`
	Severity         *string `json:"severity,omitempty"`
	Acknowledged     *bool   `json:"acknowledged,omitempty"`
}

// AlertSummary is the list-view projection: everything except RawPayload,
// which can be large and is only served on detail views.
type AlertSummary struct {
	ID           uuid.UUID `json:"id"`
	VehicleCode  string    `json:"vehicleCode"`
	LicensePlate string    `json:"licensePlate,omitempty"`
	AlertType    string    `json:"alertType"`
	AlertSubtype string    `json:"alertSubtype,omitempty"`
	Severity     string    `json:"severity,omitempty"`
	Plant        string    `json:"plant,omitempty"`
	Area         string    `json:"area,omitempty"`
	OperatorName string    `json:"operatorName,omitempty"`

	EventTime  time.Time `json:"eventTime"`
	ReceivedAt time.Time `json:"receivedAt"`

	ShortDescription string `json:"shortDescription,omitempty"`
	Acknowledged     bool   `json:"acknowledged"`
}

// AlertPage is a paginated list of summaries
type AlertPage struct {
	Alerts   []*AlertSummary `json:"alerts"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// Summarize maps an alert to its list projection
func Summarize(alert *models.Alert) *AlertSummary {
	return &AlertSummary{
		ID:               alert.ID,
		VehicleCode:      alert.VehicleCode,
		LicensePlate:     alert.LicensePlate,
		AlertType:        alert.AlertType,
		AlertSubtype:     alert.AlertSubtype,
		Severity:         alert.Severity,
		Plant:            alert.Plant,
		Area:             alert.Area,
		OperatorName:     alert.OperatorName,
		EventTime:        alert.EventTime,
		ReceivedAt:       alert.ReceivedAt,
		ShortDescription: alert.ShortDescription,
		Acknowledged:     alert.Acknowledged,
	}
}

// NewPage builds a page of summaries from store results
func NewPage(items []*models.Alert, total int64, page, pageSize int) *AlertPage {
	summaries := make([]*AlertSummary, 0, len(items))
	for _, a := range items {
		summaries = append(summaries, Summarize(a))
	}
	return &AlertPage{Alerts: summaries, Total: total, Page: page, PageSize: pageSize}
}

// EmptyPage is the short-circuit result for empty vehicle filters
func EmptyPage(page, pageSize int) *AlertPage {
	return &AlertPage{Alerts: []*AlertSummary{}, Total: 0, Page: page, PageSize: pageSize}
}
