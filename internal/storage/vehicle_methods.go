package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

const vehicleColumns = `id, created_at, updated_at, company_id,
        vehicle_code_raw, vehicle_code_norm, license_plate, status`

// ========== Vehicle Methods ==========

// CreateVehicle creates a new vehicle identity. A concurrent insert of the
// same (company, normalized code) surfaces as ErrDuplicateKey; callers doing
// get-or-create re-read instead of failing.
func (s *PostgresStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}

	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	query := `
        INSERT INTO vehicles (
            id, created_at, updated_at, company_id, vehicle_code_raw,
            vehicle_code_norm, license_plate, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.getDB().ExecContext(ctx, query,
		vehicle.ID, vehicle.CreatedAt, vehicle.UpdatedAt, vehicle.CompanyID,
		vehicle.VehicleCodeRaw, vehicle.VehicleCodeNorm, vehicle.LicensePlate,
		vehicle.Status,
	)

	return mapError(err)
}

// GetVehicle gets a vehicle scoped to a company
func (s *PostgresStore) GetVehicle(ctx context.Context, companyID, id uuid.UUID) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE company_id = $1 AND id = $2`

	vehicle := &models.Vehicle{}
	err := scanVehicle(s.getDB().QueryRowContext(ctx, query, companyID, id), vehicle)
	if err != nil {
		return nil, mapError(err)
	}
	return vehicle, nil
}

// GetVehicleByCodeNorm gets a vehicle by its normalized code
func (s *PostgresStore) GetVehicleByCodeNorm(ctx context.Context, companyID uuid.UUID, codeNorm string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE company_id = $1 AND vehicle_code_norm = $2`

	vehicle := &models.Vehicle{}
	err := scanVehicle(s.getDB().QueryRowContext(ctx, query, companyID, codeNorm), vehicle)
	if err != nil {
		return nil, mapError(err)
	}
	return vehicle, nil
}

// UpdateVehicle updates a vehicle
func (s *PostgresStore) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.UpdatedAt = time.Now()

	query := `
        UPDATE vehicles SET
            updated_at = $3, vehicle_code_raw = $4, vehicle_code_norm = $5,
            license_plate = $6, status = $7
        WHERE company_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		vehicle.CompanyID, vehicle.ID, vehicle.UpdatedAt,
		vehicle.VehicleCodeRaw, vehicle.VehicleCodeNorm,
		vehicle.LicensePlate, vehicle.Status,
	)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVehicle deletes a vehicle scoped to a company
func (s *PostgresStore) DeleteVehicle(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM vehicles WHERE company_id = $1 AND id = $2", companyID, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVehicles lists vehicles of a company
func (s *PostgresStore) ListVehicles(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Vehicle, int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicles WHERE company_id = $1", companyID,
	).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + vehicleColumns + `
        FROM vehicles
        WHERE company_id = $1
        ORDER BY vehicle_code_norm
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		vehicle := &models.Vehicle{}
		if err := scanVehicle(rows, vehicle); err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, count, rows.Err()
}

func scanVehicle(row rowScanner, vehicle *models.Vehicle) error {
	return row.Scan(
		&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt, &vehicle.CompanyID,
		&vehicle.VehicleCodeRaw, &vehicle.VehicleCodeNorm,
		&vehicle.LicensePlate, &vehicle.Status,
	)
}
