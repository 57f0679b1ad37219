package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

type fakeVehicleStore struct {
	storage.Store

	vehicles map[string]*models.Vehicle // keyed by norm code
	creates  int
	updates  int

	// when set, the first CreateVehicle fails with ErrDuplicateKey and
	// this vehicle becomes visible on the next read
	raceWinner *models.Vehicle
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: map[string]*models.Vehicle{}}
}

func (f *fakeVehicleStore) GetVehicleByCodeNorm(ctx context.Context, companyID uuid.UUID, codeNorm string) (*models.Vehicle, error) {
	if v, ok := f.vehicles[codeNorm]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeVehicleStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	f.creates++
	if f.raceWinner != nil {
		f.vehicles[f.raceWinner.VehicleCodeNorm] = f.raceWinner
		f.raceWinner = nil
		return storage.ErrDuplicateKey
	}
	if _, ok := f.vehicles[vehicle.VehicleCodeNorm]; ok {
		return storage.ErrDuplicateKey
	}
	vehicle.ID = uuid.New()
	copied := *vehicle
	f.vehicles[vehicle.VehicleCodeNorm] = &copied
	return nil
}

func (f *fakeVehicleStore) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	f.updates++
	copied := *vehicle
	f.vehicles[vehicle.VehicleCodeNorm] = &copied
	return nil
}

func TestGetOrCreateNewVehicle(t *testing.T) {
	store := newFakeVehicleStore()
	resolver := NewResolver(store)
	companyID := uuid.New()

	vehicle, err := resolver.GetOrCreate(context.Background(), companyID, " mg-069 ", " abc-123 ")
	require.NoError(t, err)

	assert.Equal(t, "MG-069", vehicle.VehicleCodeNorm)
	assert.Equal(t, "ABC123", vehicle.LicensePlate)
	assert.Equal(t, models.VehicleStatusUnregistered, vehicle.Status)
	assert.Equal(t, 1, store.creates)
}

func TestGetOrCreateIdempotent(t *testing.T) {
	store := newFakeVehicleStore()
	resolver := NewResolver(store)
	companyID := uuid.New()

	first, err := resolver.GetOrCreate(context.Background(), companyID, "MG069", "XYZ-789")
	require.NoError(t, err)

	second, err := resolver.GetOrCreate(context.Background(), companyID, "mg069", "XYZ-789")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.creates)
}

func TestGetOrCreateBlankCode(t *testing.T) {
	resolver := NewResolver(newFakeVehicleStore())

	_, err := resolver.GetOrCreate(context.Background(), uuid.New(), "   ", "ABC-123")
	assert.ErrorIs(t, err, storage.ErrInvalidData)
}

func TestGetOrCreatePlateBackfill(t *testing.T) {
	store := newFakeVehicleStore()
	store.vehicles["MG069"] = &models.Vehicle{
		ID:              uuid.New(),
		VehicleCodeNorm: "MG069",
		LicensePlate:    "",
	}
	resolver := NewResolver(store)

	vehicle, err := resolver.GetOrCreate(context.Background(), uuid.New(), "MG069", " def-456 ")
	require.NoError(t, err)

	assert.Equal(t, "DEF456", vehicle.LicensePlate)
	assert.Equal(t, 1, store.updates)
}

func TestGetOrCreateKeepsExistingPlate(t *testing.T) {
	store := newFakeVehicleStore()
	store.vehicles["MG069"] = &models.Vehicle{
		ID:              uuid.New(),
		VehicleCodeNorm: "MG069",
		LicensePlate:    "OLD-111",
	}
	resolver := NewResolver(store)

	vehicle, err := resolver.GetOrCreate(context.Background(), uuid.New(), "MG069", "NEW-222")
	require.NoError(t, err)

	assert.Equal(t, "OLD-111", vehicle.LicensePlate)
	assert.Equal(t, 0, store.updates)
}

func TestGetOrCreateLosesInsertRace(t *testing.T) {
	store := newFakeVehicleStore()
	winner := &models.Vehicle{
		ID:              uuid.New(),
		VehicleCodeNorm: "MG069",
		LicensePlate:    "ABC-123",
	}
	store.raceWinner = winner
	resolver := NewResolver(store)

	vehicle, err := resolver.GetOrCreate(context.Background(), uuid.New(), "MG069", "")
	require.NoError(t, err)

	assert.Equal(t, winner.ID, vehicle.ID)
	assert.Equal(t, "ABC-123", vehicle.LicensePlate)
}
