package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Device Registration Methods ==========

// UpsertDevice registers a push token for a user. Re-registering an existing
// (user, token) pair reactivates the row instead of duplicating it.
func (s *PostgresStore) UpsertDevice(ctx context.Context, device *models.DeviceRegistration) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}

	now := time.Now()
	device.CreatedAt = now
	device.UpdatedAt = now
	device.Active = true

	query := `
        INSERT INTO device_registrations (
            id, created_at, updated_at, user_id, expo_push_token, platform, active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id, expo_push_token) DO UPDATE SET
            updated_at = EXCLUDED.updated_at,
            platform = EXCLUDED.platform,
            active = true`

	_, err := s.getDB().ExecContext(ctx, query,
		device.ID, device.CreatedAt, device.UpdatedAt, device.UserID,
		device.ExpoPushToken, device.Platform, device.Active,
	)

	return err
}

// DeactivateDevice soft-removes a push token
func (s *PostgresStore) DeactivateDevice(ctx context.Context, userID uuid.UUID, token string) error {
	query := `
        UPDATE device_registrations SET active = false, updated_at = $3
        WHERE user_id = $1 AND expo_push_token = $2`

	result, err := s.getDB().ExecContext(ctx, query, userID, token, time.Now())
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

// ListActiveDevices lists active push registrations for a set of users
func (s *PostgresStore) ListActiveDevices(ctx context.Context, userIDs []uuid.UUID) ([]*models.DeviceRegistration, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT id, created_at, updated_at, user_id, expo_push_token, platform, active
        FROM device_registrations
        WHERE user_id = ANY($1) AND active = true`

	rows, err := s.getDB().QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*models.DeviceRegistration
	for rows.Next() {
		device := &models.DeviceRegistration{}
		err := rows.Scan(
			&device.ID, &device.CreatedAt, &device.UpdatedAt, &device.UserID,
			&device.ExpoPushToken, &device.Platform, &device.Active,
		)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}

	return devices, rows.Err()
}
