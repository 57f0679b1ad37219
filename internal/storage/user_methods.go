package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

const userColumns = `id, created_at, updated_at, company_id, email, first_name,
        last_name, password_hash, is_admin, is_active, last_login_at`

// ========== User Methods ==========

// CreateUser creates a new user
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (
            id, created_at, updated_at, company_id, email, first_name,
            last_name, password_hash, is_admin, is_active, last_login_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.getDB().ExecContext(ctx, query,
		user.ID, user.CreatedAt, user.UpdatedAt, user.CompanyID, user.Email,
		user.FirstName, user.LastName, user.PasswordHash, user.IsAdmin,
		user.IsActive, user.LastLoginAt,
	)

	return mapError(err)
}

// GetUser gets a user scoped to a company
func (s *PostgresStore) GetUser(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 AND id = $2`

	user := &models.User{}
	err := scanUser(s.getDB().QueryRowContext(ctx, query, companyID, id), user)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// GetUserByEmail gets a user by email, for login
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user := &models.User{}
	err := scanUser(s.getDB().QueryRowContext(ctx, query, email), user)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// GetUserByID gets a user without tenant scoping, for token refresh only
func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user := &models.User{}
	err := scanUser(s.getDB().QueryRowContext(ctx, query, id), user)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// UpdateUser updates a user
func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
        UPDATE users SET
            updated_at = $3, email = $4, first_name = $5, last_name = $6,
            password_hash = $7, is_admin = $8, is_active = $9, last_login_at = $10
        WHERE company_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		user.CompanyID, user.ID, user.UpdatedAt, user.Email, user.FirstName,
		user.LastName, user.PasswordHash, user.IsAdmin, user.IsActive, user.LastLoginAt,
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

// DeleteUser deletes a user scoped to a company
func (s *PostgresStore) DeleteUser(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM users WHERE company_id = $1 AND id = $2", companyID, id)
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

// ListUsers lists users of a company
func (s *PostgresStore) ListUsers(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.User, int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE company_id = $1", companyID,
	).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + `
        FROM users
        WHERE company_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	return users, count, rows.Err()
}

func scanUser(row rowScanner, user *models.User) error {
	return row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.CompanyID,
		&user.Email, &user.FirstName, &user.LastName, &user.PasswordHash,
		&user.IsAdmin, &user.IsActive, &user.LastLoginAt,
	)
}
