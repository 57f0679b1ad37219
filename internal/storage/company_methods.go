package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Company Methods ==========

// CreateCompany creates a new company
func (s *PostgresStore) CreateCompany(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}

	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now

	query := `
        INSERT INTO companies (id, created_at, updated_at, name, description, timezone, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.getDB().ExecContext(ctx, query,
		company.ID, company.CreatedAt, company.UpdatedAt,
		company.Name, company.Description, company.Timezone, company.IsActive,
	)

	return mapError(err)
}

// GetCompany gets a company by id
func (s *PostgresStore) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `
        SELECT id, created_at, updated_at, name, description, timezone, is_active
        FROM companies WHERE id = $1`

	company := &models.Company{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&company.ID, &company.CreatedAt, &company.UpdatedAt,
		&company.Name, &company.Description, &company.Timezone, &company.IsActive,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return company, nil
}

// UpdateCompany updates a company
func (s *PostgresStore) UpdateCompany(ctx context.Context, company *models.Company) error {
	company.UpdatedAt = time.Now()

	query := `
        UPDATE companies SET
            updated_at = $2, name = $3, description = $4, timezone = $5, is_active = $6
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		company.ID, company.UpdatedAt, company.Name, company.Description,
		company.Timezone, company.IsActive,
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

// DeleteCompany deletes a company
func (s *PostgresStore) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, "DELETE FROM companies WHERE id = $1", id)
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

// ListCompanies lists companies
func (s *PostgresStore) ListCompanies(ctx context.Context, limit, offset int) ([]*models.Company, int64, error) {
	var count int64
	if err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, created_at, updated_at, name, description, timezone, is_active
        FROM companies
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := s.getDB().QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company := &models.Company{}
		err := rows.Scan(
			&company.ID, &company.CreatedAt, &company.UpdatedAt,
			&company.Name, &company.Description, &company.Timezone, &company.IsActive,
		)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, company)
	}

	return companies, count, rows.Err()
}
