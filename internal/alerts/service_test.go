package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

type spyNotifier struct {
	alerts []*models.Alert
}

func (s *spyNotifier) Notify(ctx context.Context, alert *models.Alert) {
	s.alerts = append(s.alerts, alert)
}

func newServiceFixture() (*fakeStore, *spyNotifier, *Service, uuid.UUID) {
	store := newFakeStore()
	companyID := uuid.New()
	store.companies[companyID] = &models.Company{ID: companyID, Name: "Acme Mining"}
	notifier := &spyNotifier{}
	svc := NewService(store, identity.NewResolver(store), notifier)
	return store, notifier, svc, companyID
}

func TestCreateAlert(t *testing.T) {
	store, notifier, svc, companyID := newServiceFixture()

	alert, err := svc.Create(context.Background(), companyID, &CreateAlertRequest{
		VehicleCode:      " mg 069 ",
		LicensePlate:     "abc-123",
		AlertType:        "FATIGUE",
		EventTime:        time.Now(),
		ShortDescription: "Operator fatigue detected",
		RawPayload:       "<html>...</html>",
	})
	require.NoError(t, err)

	assert.Equal(t, "MG069", alert.VehicleCode)
	assert.Equal(t, "ABC123", alert.LicensePlate)
	assert.False(t, alert.Acknowledged)
	assert.False(t, alert.ReceivedAt.IsZero())

	// the vehicle identity was registered lazily
	vehicle, ok := store.vehicles["MG069"]
	require.True(t, ok)
	assert.Equal(t, models.VehicleStatusUnregistered, vehicle.Status)

	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, alert.ID, notifier.alerts[0].ID)
}

func TestCreateAlertUnknownCompany(t *testing.T) {
	_, notifier, svc, _ := newServiceFixture()

	_, err := svc.Create(context.Background(), uuid.New(), &CreateAlertRequest{
		VehicleCode: "MG069",
		AlertType:   "FATIGUE",
		EventTime:   time.Now(),
		RawPayload:  "x",
	})

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Empty(t, notifier.alerts)
}

func TestCreateAlertBlankVehicleCode(t *testing.T) {
	_, notifier, svc, companyID := newServiceFixture()

	_, err := svc.Create(context.Background(), companyID, &CreateAlertRequest{
		VehicleCode: "   ",
		AlertType:   "FATIGUE",
		EventTime:   time.Now(),
		RawPayload:  "x",
	})

	assert.Error(t, err)
	assert.Empty(t, notifier.alerts)
}

func TestUpdateAlertPartial(t *testing.T) {
	store, _, svc, companyID := newServiceFixture()
	created := addAlert(store, companyID, "MG069", "", time.Now())
	created.ShortDescription = "original"
	created.Severity = "LOW"

	desc := "rewritten"
	updated, err := svc.Update(context.Background(), companyID, created.ID, &UpdateAlertRequest{
		ShortDescription: &desc,
	})
	require.NoError(t, err)

	assert.Equal(t, "rewritten", updated.ShortDescription)
	assert.Equal(t, "LOW", updated.Severity, "untouched fields survive a partial update")
}

func TestAcknowledgeIdempotent(t *testing.T) {
	store, _, svc, companyID := newServiceFixture()
	created := addAlert(store, companyID, "MG069", "", time.Now())

	first, err := svc.Acknowledge(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.True(t, first.Acknowledged)

	second, err := svc.Acknowledge(context.Background(), companyID, created.ID)
	require.NoError(t, err)
	assert.True(t, second.Acknowledged)
}

func TestGetAlertCrossTenant(t *testing.T) {
	store, _, svc, companyID := newServiceFixture()
	created := addAlert(store, companyID, "MG069", "", time.Now())

	_, err := svc.Get(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
