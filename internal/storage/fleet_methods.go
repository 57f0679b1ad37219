package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

const fleetColumns = `id, created_at, updated_at, company_id, name,
        description, active, vehicle_plates, vehicle_codes`

// ========== Fleet Methods ==========

// CreateFleet creates a fleet. Name is unique per company.
func (s *PostgresStore) CreateFleet(ctx context.Context, fleet *models.Fleet) error {
	if fleet.ID == uuid.Nil {
		fleet.ID = uuid.New()
	}

	now := time.Now()
	fleet.CreatedAt = now
	fleet.UpdatedAt = now

	query := `
        INSERT INTO fleets (
            id, created_at, updated_at, company_id, name, description,
            active, vehicle_plates, vehicle_codes
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.getDB().ExecContext(ctx, query,
		fleet.ID, fleet.CreatedAt, fleet.UpdatedAt, fleet.CompanyID,
		fleet.Name, fleet.Description, fleet.Active,
		fleet.VehiclePlates, fleet.VehicleCodes,
	)

	return mapError(err)
}

// GetFleet gets a fleet scoped to a company
func (s *PostgresStore) GetFleet(ctx context.Context, companyID, id uuid.UUID) (*models.Fleet, error) {
	query := `SELECT ` + fleetColumns + ` FROM fleets WHERE company_id = $1 AND id = $2`

	fleet := &models.Fleet{}
	err := scanFleet(s.getDB().QueryRowContext(ctx, query, companyID, id), fleet)
	if err != nil {
		return nil, mapError(err)
	}
	return fleet, nil
}

// UpdateFleet updates a fleet
func (s *PostgresStore) UpdateFleet(ctx context.Context, fleet *models.Fleet) error {
	fleet.UpdatedAt = time.Now()

	query := `
        UPDATE fleets SET
            updated_at = $3, name = $4, description = $5, active = $6,
            vehicle_plates = $7, vehicle_codes = $8
        WHERE company_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		fleet.CompanyID, fleet.ID, fleet.UpdatedAt, fleet.Name,
		fleet.Description, fleet.Active, fleet.VehiclePlates, fleet.VehicleCodes,
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

// DeleteFleet deletes a fleet scoped to a company
func (s *PostgresStore) DeleteFleet(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM fleets WHERE company_id = $1 AND id = $2", companyID, id)
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

// ListFleets lists fleets of a company
func (s *PostgresStore) ListFleets(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.Fleet, int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fleets WHERE company_id = $1", companyID,
	).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + fleetColumns + `
        FROM fleets
        WHERE company_id = $1
        ORDER BY name
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fleets []*models.Fleet
	for rows.Next() {
		fleet := &models.Fleet{}
		if err := scanFleet(rows, fleet); err != nil {
			return nil, 0, err
		}
		fleets = append(fleets, fleet)
	}

	return fleets, count, rows.Err()
}

func scanFleet(row rowScanner, fleet *models.Fleet) error {
	return row.Scan(
		&fleet.ID, &fleet.CreatedAt, &fleet.UpdatedAt, &fleet.CompanyID,
		&fleet.Name, &fleet.Description, &fleet.Active,
		&fleet.VehiclePlates, &fleet.VehicleCodes,
	)
}
