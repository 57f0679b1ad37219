package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

// Resolver maps raw vehicle identifiers onto per-company vehicle records,
// creating them lazily when an alert references an unseen code.
type Resolver struct {
	store storage.Store
}

// NewResolver creates a new identity resolver
func NewResolver(store storage.Store) *Resolver {
	return &Resolver{store: store}
}

// GetOrCreate resolves a vehicle by its normalized code, creating an
// UNREGISTERED record on first sight. Two alerts racing to create the same
// code are serialized by the unique constraint on (company, code): the loser
// re-reads the winner's row, so the race never reaches the caller.
func (r *Resolver) GetOrCreate(ctx context.Context, companyID uuid.UUID, rawCode, rawPlate string) (*models.Vehicle, error) {
	norm := NormalizeCode(rawCode)
	if norm == "" {
		return nil, fmt.Errorf("%w: vehicle code is required", storage.ErrInvalidData)
	}

	vehicle, err := r.store.GetVehicleByCodeNorm(ctx, companyID, norm)
	if err == nil {
		return r.backfillPlate(ctx, vehicle, rawPlate)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	vehicle = &models.Vehicle{
		CompanyID:       companyID,
		VehicleCodeRaw:  rawCode,
		VehicleCodeNorm: norm,
		LicensePlate:    NormalizePlate(rawPlate),
		Status:          models.VehicleStatusUnregistered,
	}

	err = r.store.CreateVehicle(ctx, vehicle)
	if err == nil {
		log.Info().
			Str("companyID", companyID.String()).
			Str("vehicleCode", norm).
			Msg("Registered new vehicle from incoming alert")
		return vehicle, nil
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, err
	}

	// Lost the insert race; the row exists now
	vehicle, err = r.store.GetVehicleByCodeNorm(ctx, companyID, norm)
	if err != nil {
		return nil, err
	}
	return r.backfillPlate(ctx, vehicle, rawPlate)
}

// backfillPlate enriches a plate-less vehicle when an alert supplies one.
// An existing non-blank plate is never overwritten.
func (r *Resolver) backfillPlate(ctx context.Context, vehicle *models.Vehicle, rawPlate string) (*models.Vehicle, error) {
	plate := NormalizePlate(rawPlate)
	if plate == "" || strings.TrimSpace(vehicle.LicensePlate) != "" {
		return vehicle, nil
	}

	vehicle.LicensePlate = plate
	if err := r.store.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}
