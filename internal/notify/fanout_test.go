package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

type fakeNotifyStore struct {
	storage.Store

	groups      []*models.NotificationGroup
	memberships []*models.GroupMembership
	devices     []*models.DeviceRegistration
}

func (f *fakeNotifyStore) FindGroupsByPlate(ctx context.Context, companyID uuid.UUID, plate string) ([]*models.NotificationGroup, error) {
	var out []*models.NotificationGroup
	for _, g := range f.groups {
		if g.CompanyID != companyID {
			continue
		}
		for _, p := range g.VehiclePlates {
			if p == plate {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeNotifyStore) FindGroupsByCode(ctx context.Context, companyID uuid.UUID, code string) ([]*models.NotificationGroup, error) {
	var out []*models.NotificationGroup
	for _, g := range f.groups {
		if g.CompanyID != companyID {
			continue
		}
		for _, c := range g.VehicleCodes {
			if c == code {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeNotifyStore) ListActiveMemberships(ctx context.Context, groupIDs []uuid.UUID) ([]*models.GroupMembership, error) {
	idSet := make(map[uuid.UUID]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		idSet[id] = struct{}{}
	}
	var out []*models.GroupMembership
	for _, m := range f.memberships {
		if _, ok := idSet[m.GroupID]; ok && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeNotifyStore) ListActiveDevices(ctx context.Context, userIDs []uuid.UUID) ([]*models.DeviceRegistration, error) {
	idSet := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		idSet[id] = struct{}{}
	}
	var out []*models.DeviceRegistration
	for _, d := range f.devices {
		if _, ok := idSet[d.UserID]; ok && d.Active {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeSender struct {
	messages []PushMessage
	err      error
}

func (f *fakeSender) Send(ctx context.Context, messages []PushMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, messages...)
	return nil
}

func fixture() (*fakeNotifyStore, *fakeSender, *Service, uuid.UUID) {
	store := &fakeNotifyStore{}
	sender := &fakeSender{}
	return store, sender, NewService(store, sender, nil), uuid.New()
}

func codeGroup(companyID uuid.UUID, codes ...string) *models.NotificationGroup {
	return &models.NotificationGroup{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Active:       true,
		VehicleCodes: pq.StringArray(codes),
	}
}

func memberWithDevice(store *fakeNotifyStore, groupID uuid.UUID, token string) {
	userID := uuid.New()
	store.memberships = append(store.memberships, &models.GroupMembership{
		GroupID: groupID, UserID: userID, Active: true,
	})
	store.devices = append(store.devices, &models.DeviceRegistration{
		UserID: userID, ExpoPushToken: token, Active: true,
	})
}

func TestNotifyCodeGroupScenario(t *testing.T) {
	store, sender, svc, companyID := fixture()
	group := codeGroup(companyID, "MG069")
	store.groups = append(store.groups, group)
	memberWithDevice(store, group.ID, "ExponentPushToken[abc]")

	svc.Notify(context.Background(), &models.Alert{
		ID:               uuid.New(),
		CompanyID:        companyID,
		VehicleCode:      "MG069",
		AlertType:        "FATIGUE",
		ShortDescription: "<p>Operator <b>fatigue</b> detected</p>",
	})

	require.Len(t, sender.messages, 1)
	msg := sender.messages[0]
	assert.Equal(t, []string{"ExponentPushToken[abc]"}, msg.To)
	assert.Equal(t, "Alerta FATIGUE", msg.Title)
	assert.Equal(t, "Operator fatigue detected", msg.Body)
	assert.Equal(t, "MG069", msg.Data["vehicleCode"])
	assert.NotEmpty(t, msg.Data["alertId"])
}

func TestNotifyFallbackBody(t *testing.T) {
	store, sender, svc, companyID := fixture()
	group := codeGroup(companyID, "MG069")
	store.groups = append(store.groups, group)
	memberWithDevice(store, group.ID, "tok1")

	svc.Notify(context.Background(), &models.Alert{
		ID:          uuid.New(),
		CompanyID:   companyID,
		VehicleCode: "MG069",
		AlertType:   "FATIGUE",
	})

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0].Body, "MG069")
}

func TestNotifyPlatesFirstGroupMatching(t *testing.T) {
	store, sender, svc, companyID := fixture()
	// group has a plate set, so its code set must be ignored even though
	// the alert's code matches it
	group := codeGroup(companyID, "MG069")
	group.VehiclePlates = pq.StringArray{"ZZZ999"}
	store.groups = append(store.groups, group)
	memberWithDevice(store, group.ID, "tok1")

	svc.Notify(context.Background(), &models.Alert{
		ID:           uuid.New(),
		CompanyID:    companyID,
		VehicleCode:  "MG069",
		LicensePlate: "AAA111",
		AlertType:    "FATIGUE",
	})

	assert.Empty(t, sender.messages)
}

func TestNotifyMatchByPlate(t *testing.T) {
	store, sender, svc, companyID := fixture()
	group := &models.NotificationGroup{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Active:        true,
		VehiclePlates: pq.StringArray{"AAA111"},
	}
	store.groups = append(store.groups, group)
	memberWithDevice(store, group.ID, "tok1")

	svc.Notify(context.Background(), &models.Alert{
		ID:           uuid.New(),
		CompanyID:    companyID,
		VehicleCode:  "MG069",
		LicensePlate: "AAA111",
		AlertType:    "SPEED",
	})

	require.Len(t, sender.messages, 1)
}

func TestNotifyNoMatchingGroups(t *testing.T) {
	_, sender, svc, companyID := fixture()

	svc.Notify(context.Background(), &models.Alert{
		ID:          uuid.New(),
		CompanyID:   companyID,
		VehicleCode: "MG069",
		AlertType:   "FATIGUE",
	})

	assert.Empty(t, sender.messages)
}

func TestNotifyNoActiveDevices(t *testing.T) {
	store, sender, svc, companyID := fixture()
	group := codeGroup(companyID, "MG069")
	store.groups = append(store.groups, group)
	userID := uuid.New()
	store.memberships = append(store.memberships, &models.GroupMembership{
		GroupID: group.ID, UserID: userID, Active: true,
	})
	store.devices = append(store.devices, &models.DeviceRegistration{
		UserID: userID, ExpoPushToken: "tok1", Active: false,
	})

	svc.Notify(context.Background(), &models.Alert{
		ID:          uuid.New(),
		CompanyID:   companyID,
		VehicleCode: "MG069",
		AlertType:   "FATIGUE",
	})

	assert.Empty(t, sender.messages)
}

func TestNotifySwallowsTransportFailure(t *testing.T) {
	store, sender, svc, companyID := fixture()
	group := codeGroup(companyID, "MG069")
	store.groups = append(store.groups, group)
	memberWithDevice(store, group.ID, "tok1")
	sender.err = errors.New("connection refused")

	// must not panic or surface the error
	svc.Notify(context.Background(), &models.Alert{
		ID:          uuid.New(),
		CompanyID:   companyID,
		VehicleCode: "MG069",
		AlertType:   "FATIGUE",
	})
}

func TestNotifyBlankVehicleCode(t *testing.T) {
	_, sender, svc, companyID := fixture()

	svc.Notify(context.Background(), &models.Alert{
		ID:        uuid.New(),
		CompanyID: companyID,
		AlertType: "FATIGUE",
	})

	assert.Empty(t, sender.messages)
}
