package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

var stripPolicy = bluemonday.StrictPolicy()

// Service fans a newly created alert out to the devices of the members of
// the notification groups matching the alert's vehicle. Every failure is
// logged and absorbed here: the alert row is the source of truth and push
// delivery is best-effort.
type Service struct {
	store     storage.Store
	sender    PushSender
	publisher *EventPublisher
}

// NewService creates a new fan-out service. publisher may be nil when no
// event bus is configured.
func NewService(store storage.Store, sender PushSender, publisher *EventPublisher) *Service {
	return &Service{
		store:     store,
		sender:    sender,
		publisher: publisher,
	}
}

// Notify dispatches push notifications for a persisted alert. It never
// returns an error to the caller.
func (s *Service) Notify(ctx context.Context, alert *models.Alert) {
	if err := s.fanOut(ctx, alert); err != nil {
		log.Error().
			Err(err).
			Str("alertID", alert.ID.String()).
			Str("vehicleCode", alert.VehicleCode).
			Msg("Push fan-out failed")
	}

	if s.publisher != nil {
		s.publisher.PublishAlertCreated(alert)
	}
}

func (s *Service) fanOut(ctx context.Context, alert *models.Alert) error {
	if alert.VehicleCode == "" {
		return nil
	}

	groups, err := s.matchGroups(ctx, alert)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		log.Debug().
			Str("vehicleCode", alert.VehicleCode).
			Msg("No notification groups match alert vehicle")
		return nil
	}

	groupIDs := make([]uuid.UUID, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}

	memberships, err := s.store.ListActiveMemberships(ctx, groupIDs)
	if err != nil {
		return err
	}
	if len(memberships) == 0 {
		return nil
	}

	userSet := make(map[uuid.UUID]struct{}, len(memberships))
	userIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		if _, ok := userSet[m.UserID]; ok {
			continue
		}
		userSet[m.UserID] = struct{}{}
		userIDs = append(userIDs, m.UserID)
	}

	devices, err := s.store.ListActiveDevices(ctx, userIDs)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.ExpoPushToken)
	}

	message := PushMessage{
		To:    tokens,
		Title: fmt.Sprintf("Alerta %s", alert.AlertType),
		Body:  pushBody(alert),
		Sound: "default",
		Data: map[string]string{
			"alertId":     alert.ID.String(),
			"vehicleCode": alert.VehicleCode,
		},
	}

	if err := s.sender.Send(ctx, []PushMessage{message}); err != nil {
		return err
	}

	log.Info().
		Str("alertID", alert.ID.String()).
		Int("devices", len(tokens)).
		Int("groups", len(groups)).
		Msg("Alert pushed to devices")
	return nil
}

// matchGroups finds groups whose membership set contains the alert's vehicle.
// A group with a plate set is matched by plate only; its code set is ignored.
func (s *Service) matchGroups(ctx context.Context, alert *models.Alert) ([]*models.NotificationGroup, error) {
	seen := make(map[uuid.UUID]struct{})
	var matched []*models.NotificationGroup

	if alert.LicensePlate != "" {
		byPlate, err := s.store.FindGroupsByPlate(ctx, alert.CompanyID, alert.LicensePlate)
		if err != nil {
			return nil, err
		}
		for _, g := range byPlate {
			seen[g.ID] = struct{}{}
			matched = append(matched, g)
		}
	}

	byCode, err := s.store.FindGroupsByCode(ctx, alert.CompanyID, alert.VehicleCode)
	if err != nil {
		return nil, err
	}
	for _, g := range byCode {
		if len(g.VehiclePlates) > 0 {
			continue
		}
		if _, ok := seen[g.ID]; ok {
			continue
		}
		matched = append(matched, g)
	}

	return matched, nil
}

// pushBody strips HTML markup from the short description, falling back to a
// generic sentence naming the vehicle when nothing readable remains.
func pushBody(alert *models.Alert) string {
	body := strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(alert.ShortDescription)))
	if body == "" {
		body = fmt.Sprintf("Nueva alerta registrada para el vehículo %s", alert.VehicleCode)
	}
	return body
}
