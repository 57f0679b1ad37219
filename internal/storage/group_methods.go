package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

const groupColumns = `id, created_at, updated_at, company_id, name,
        description, active, vehicle_plates, vehicle_codes`

// ========== Notification Group Methods ==========

// CreateGroup creates a notification group. Name is unique per company.
func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.NotificationGroup) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}

	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	query := `
        INSERT INTO notification_groups (
            id, created_at, updated_at, company_id, name, description,
            active, vehicle_plates, vehicle_codes
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.getDB().ExecContext(ctx, query,
		group.ID, group.CreatedAt, group.UpdatedAt, group.CompanyID,
		group.Name, group.Description, group.Active,
		group.VehiclePlates, group.VehicleCodes,
	)

	return mapError(err)
}

// GetGroup gets a group scoped to a company
func (s *PostgresStore) GetGroup(ctx context.Context, companyID, id uuid.UUID) (*models.NotificationGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM notification_groups WHERE company_id = $1 AND id = $2`

	group := &models.NotificationGroup{}
	err := scanGroup(s.getDB().QueryRowContext(ctx, query, companyID, id), group)
	if err != nil {
		return nil, mapError(err)
	}
	return group, nil
}

// UpdateGroup updates a group
func (s *PostgresStore) UpdateGroup(ctx context.Context, group *models.NotificationGroup) error {
	group.UpdatedAt = time.Now()

	query := `
        UPDATE notification_groups SET
            updated_at = $3, name = $4, description = $5, active = $6,
            vehicle_plates = $7, vehicle_codes = $8
        WHERE company_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		group.CompanyID, group.ID, group.UpdatedAt, group.Name,
		group.Description, group.Active, group.VehiclePlates, group.VehicleCodes,
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

// DeleteGroup deletes a group scoped to a company
func (s *PostgresStore) DeleteGroup(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM notification_groups WHERE company_id = $1 AND id = $2", companyID, id)
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

// ListGroups lists groups of a company
func (s *PostgresStore) ListGroups(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.NotificationGroup, int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notification_groups WHERE company_id = $1", companyID,
	).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + groupColumns + `
        FROM notification_groups
        WHERE company_id = $1
        ORDER BY name
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectGroups(rows, count)
}

// FindGroupsByPlate finds active groups whose plate set contains the plate
func (s *PostgresStore) FindGroupsByPlate(ctx context.Context, companyID uuid.UUID, plate string) ([]*models.NotificationGroup, error) {
	query := `SELECT ` + groupColumns + `
        FROM notification_groups
        WHERE company_id = $1 AND active = true AND $2 = ANY(vehicle_plates)`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, plate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups, _, err := collectGroups(rows, 0)
	return groups, err
}

// FindGroupsByCode finds active groups whose code set contains the code
func (s *PostgresStore) FindGroupsByCode(ctx context.Context, companyID uuid.UUID, code string) ([]*models.NotificationGroup, error) {
	query := `SELECT ` + groupColumns + `
        FROM notification_groups
        WHERE company_id = $1 AND active = true AND $2 = ANY(vehicle_codes)`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups, _, err := collectGroups(rows, 0)
	return groups, err
}

// GetGroupsByIDs gets groups by ids, scoped to a company
func (s *PostgresStore) GetGroupsByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*models.NotificationGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + groupColumns + `
        FROM notification_groups
        WHERE company_id = $1 AND id = ANY($2)`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups, _, err := collectGroups(rows, 0)
	return groups, err
}

// ========== Group Membership Methods ==========

// CreateMembership links a user to a group. Duplicate (group, user) pairs
// surface as ErrDuplicateKey.
func (s *PostgresStore) CreateMembership(ctx context.Context, m *models.GroupMembership) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
        INSERT INTO group_memberships (id, created_at, updated_at, group_id, user_id, active)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.getDB().ExecContext(ctx, query,
		m.ID, m.CreatedAt, m.UpdatedAt, m.GroupID, m.UserID, m.Active,
	)

	return mapError(err)
}

// SetMembershipActive flips the soft-delete flag on a membership
func (s *PostgresStore) SetMembershipActive(ctx context.Context, groupID, userID uuid.UUID, active bool) error {
	query := `
        UPDATE group_memberships SET active = $3, updated_at = $4
        WHERE group_id = $1 AND user_id = $2`

	result, err := s.getDB().ExecContext(ctx, query, groupID, userID, active, time.Now())
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

// ListMemberships lists all memberships of a group, active or not
func (s *PostgresStore) ListMemberships(ctx context.Context, groupID uuid.UUID) ([]*models.GroupMembership, error) {
	query := `
        SELECT id, created_at, updated_at, group_id, user_id, active
        FROM group_memberships
        WHERE group_id = $1
        ORDER BY created_at`

	rows, err := s.getDB().QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemberships(rows)
}

// ListActiveMemberships lists active memberships across groups
func (s *PostgresStore) ListActiveMemberships(ctx context.Context, groupIDs []uuid.UUID) ([]*models.GroupMembership, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	query := `
        SELECT id, created_at, updated_at, group_id, user_id, active
        FROM group_memberships
        WHERE group_id = ANY($1) AND active = true`

	rows, err := s.getDB().QueryContext(ctx, query, pq.Array(groupIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemberships(rows)
}

// ListActiveMembershipsByUser lists a user's active group memberships
func (s *PostgresStore) ListActiveMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*models.GroupMembership, error) {
	query := `
        SELECT id, created_at, updated_at, group_id, user_id, active
        FROM group_memberships
        WHERE user_id = $1 AND active = true`

	rows, err := s.getDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMemberships(rows)
}

func scanGroup(row rowScanner, group *models.NotificationGroup) error {
	return row.Scan(
		&group.ID, &group.CreatedAt, &group.UpdatedAt, &group.CompanyID,
		&group.Name, &group.Description, &group.Active,
		&group.VehiclePlates, &group.VehicleCodes,
	)
}

func collectGroups(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}, count int64) ([]*models.NotificationGroup, int64, error) {
	var groups []*models.NotificationGroup
	for rows.Next() {
		group := &models.NotificationGroup{}
		if err := scanGroup(rows, group); err != nil {
			return nil, 0, err
		}
		groups = append(groups, group)
	}
	return groups, count, rows.Err()
}

func collectMemberships(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]*models.GroupMembership, error) {
	var memberships []*models.GroupMembership
	for rows.Next() {
		m := &models.GroupMembership{}
		err := rows.Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt, &m.GroupID, &m.UserID, &m.Active)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
