package alerts

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

// Notifier receives a persisted alert for push fan-out. Implementations must
// absorb their own failures; Notify is called after the alert row is durable
// and its outcome never reaches the ingestion caller.
type Notifier interface {
	Notify(ctx context.Context, alert *models.Alert)
}

// Service handles alert ingestion and mutation for a tenant
type Service struct {
	store    storage.Store
	resolver *identity.Resolver
	notifier Notifier
}

// NewService creates a new alert ingestion service. notifier may be nil when
// push delivery is disabled.
func NewService(store storage.Store, resolver *identity.Resolver, notifier Notifier) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		notifier: notifier,
	}
}

// Create validates and persists a new alert, lazily registering the vehicle
// identity, and triggers notification fan-out as a best-effort side effect.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req *CreateAlertRequest) (*models.Alert, error) {
	if _, err := s.store.GetCompany(ctx, companyID); err != nil {
		return nil, err
	}

	vehicle, err := s.resolver.GetOrCreate(ctx, companyID, req.VehicleCode, req.LicensePlate)
	if err != nil {
		return nil, err
	}

	alert := &models.Alert{
		CompanyID:        companyID,
		VehicleCode:      vehicle.VehicleCodeNorm,
		LicensePlate:     identity.NormalizePlate(vehicle.LicensePlate),
		AlertType:        req.AlertType,
		AlertSubtype:     req.AlertSubtype,
		TemplateSource:   req.TemplateSource,
		Severity:         req.Severity,
		Subject:          req.Subject,
		Plant:            req.Plant,
		Area:             req.Area,
		OwnerOrVendor:    req.OwnerOrVendor,
		BrandModel:       req.BrandModel,
		OperatorName:     req.OperatorName,
		OperatorID:       req.OperatorID,
		EventTime:        req.EventTime,
		ShortDescription: req.ShortDescription,
		Details:          req.Details,
		RawPayload:       req.RawPayload,
		Acknowledged:     false,
	}

	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, alert)
	}

	return alert, nil
}

// Get returns an alert by id, scoped to the company
func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (*models.Alert, error) {
	return s.store.GetAlert(ctx, companyID, id)
}

// Update applies a partial mutation to an alert
func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, req *UpdateAlertRequest) (*models.Alert, error) {
	alert, err := s.store.GetAlert(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.ShortDescription != nil {
		alert.ShortDescription = *req.ShortDescription
	}
	if req.Details != nil {
		alert.Details = *req.Details
	}
	if req.Severity != nil {
		alert.Severity = *req.Severity
	}
	if req.Acknowledged != nil {
		alert.Acknowledged = *req.Acknowledged
	}

	if err := s.store.UpdateAlert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Acknowledge marks an alert as acknowledged. Acknowledging twice is a no-op
// that still succeeds.
func (s *Service) Acknowledge(ctx context.Context, companyID, id uuid.UUID) (*models.Alert, error) {
	alert, err := s.store.GetAlert(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if alert.Acknowledged {
		return alert, nil
	}

	alert.Acknowledged = true
	if err := s.store.UpdateAlert(ctx, alert); err != nil {
		return nil, err
	}

	log.Info().
		Str("alertID", alert.ID.String()).
		Str("vehicleCode", alert.VehicleCode).
		Msg("Alert acknowledged")
	return alert, nil
}

// Delete removes an alert
func (s *Service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.store.DeleteAlert(ctx, companyID, id)
}
