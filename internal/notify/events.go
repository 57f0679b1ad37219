package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// alertCreatedEvent is the bus representation of a new alert. RawPayload is
// deliberately left out; subscribers fetch the detail view when they need it.
type alertCreatedEvent struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	VehicleCode  string    `json:"vehicleCode"`
	LicensePlate string    `json:"licensePlate,omitempty"`
	AlertType    string    `json:"alertType"`
	Severity     string    `json:"severity,omitempty"`
	EventTime    time.Time `json:"eventTime"`
	ReceivedAt   time.Time `json:"receivedAt"`
}

// EventPublisher publishes alert lifecycle events to NATS so other backend
// services (dashboards, archivers) can react without polling.
type EventPublisher struct {
	conn *nats.Conn
}

// NewEventPublisher creates a publisher over an established NATS connection
func NewEventPublisher(conn *nats.Conn) *EventPublisher {
	return &EventPublisher{conn: conn}
}

// PublishAlertCreated publishes to alerts.created.<companyID>. Failures are
// logged and dropped; the bus is a convenience, not a contract.
func (p *EventPublisher) PublishAlertCreated(alert *models.Alert) {
	event := alertCreatedEvent{
		ID:           alert.ID.String(),
		CompanyID:    alert.CompanyID.String(),
		VehicleCode:  alert.VehicleCode,
		LicensePlate: alert.LicensePlate,
		AlertType:    alert.AlertType,
		Severity:     alert.Severity,
		EventTime:    alert.EventTime,
		ReceivedAt:   alert.ReceivedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal alert event")
		return
	}

	subject := fmt.Sprintf("alerts.created.%s", alert.CompanyID)
	if err := p.conn.Publish(subject, payload); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to publish alert event")
	}
}
