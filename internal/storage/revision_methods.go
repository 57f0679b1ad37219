package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

const revisionColumns = `id, created_at, updated_at, company_id, alert_id,
        reviewer_name, resolution, comments`

// ========== Alert Revision Methods ==========

// CreateRevision attaches a review to an alert. The unique constraint on
// alert_id enforces one revision per alert; a second create surfaces as
// ErrDuplicateKey.
func (s *PostgresStore) CreateRevision(ctx context.Context, revision *models.AlertRevision) error {
	if revision.ID == uuid.Nil {
		revision.ID = uuid.New()
	}

	now := time.Now()
	revision.CreatedAt = now
	revision.UpdatedAt = now

	query := `
        INSERT INTO alert_revisions (
            id, created_at, updated_at, company_id, alert_id,
            reviewer_name, resolution, comments
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.getDB().ExecContext(ctx, query,
		revision.ID, revision.CreatedAt, revision.UpdatedAt,
		revision.CompanyID, revision.AlertID, revision.ReviewerName,
		revision.Resolution, revision.Comments,
	)

	return mapError(err)
}

// GetRevision gets a revision scoped to a company
func (s *PostgresStore) GetRevision(ctx context.Context, companyID, id uuid.UUID) (*models.AlertRevision, error) {
	query := `SELECT ` + revisionColumns + ` FROM alert_revisions WHERE company_id = $1 AND id = $2`

	revision := &models.AlertRevision{}
	err := scanRevision(s.getDB().QueryRowContext(ctx, query, companyID, id), revision)
	if err != nil {
		return nil, mapError(err)
	}
	return revision, nil
}

// GetRevisionByAlert gets the revision attached to an alert, if any
func (s *PostgresStore) GetRevisionByAlert(ctx context.Context, companyID, alertID uuid.UUID) (*models.AlertRevision, error) {
	query := `SELECT ` + revisionColumns + ` FROM alert_revisions WHERE company_id = $1 AND alert_id = $2`

	revision := &models.AlertRevision{}
	err := scanRevision(s.getDB().QueryRowContext(ctx, query, companyID, alertID), revision)
	if err != nil {
		return nil, mapError(err)
	}
	return revision, nil
}

// UpdateRevision updates a revision
func (s *PostgresStore) UpdateRevision(ctx context.Context, revision *models.AlertRevision) error {
	revision.UpdatedAt = time.Now()

	query := `
        UPDATE alert_revisions SET
            updated_at = $3, reviewer_name = $4, resolution = $5, comments = $6
        WHERE company_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		revision.CompanyID, revision.ID, revision.UpdatedAt,
		revision.ReviewerName, revision.Resolution, revision.Comments,
	)
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

// DeleteRevision deletes a revision. Photos go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteRevision(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM alert_revisions WHERE company_id = $1 AND id = $2", companyID, id)
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

// ListRevisions lists revisions of a company, most recent first
func (s *PostgresStore) ListRevisions(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]*models.AlertRevision, int64, error) {
	var count int64
	err := s.getDB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM alert_revisions WHERE company_id = $1", companyID,
	).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + revisionColumns + `
        FROM alert_revisions
        WHERE company_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var revisions []*models.AlertRevision
	for rows.Next() {
		revision := &models.AlertRevision{}
		if err := scanRevision(rows, revision); err != nil {
			return nil, 0, err
		}
		revisions = append(revisions, revision)
	}

	return revisions, count, rows.Err()
}

// ========== Revision Photo Methods ==========

// CreatePhoto stores a photo on a revision
func (s *PostgresStore) CreatePhoto(ctx context.Context, photo *models.RevisionPhoto) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	photo.CreatedAt = time.Now()

	query := `
        INSERT INTO revision_photos (id, created_at, revision_id, filename, content_type, data)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.getDB().ExecContext(ctx, query,
		photo.ID, photo.CreatedAt, photo.RevisionID,
		photo.Filename, photo.ContentType, photo.Data,
	)

	return mapError(err)
}

// GetPhoto gets a photo with its bytes, company-scoped through the revision
func (s *PostgresStore) GetPhoto(ctx context.Context, companyID, id uuid.UUID) (*models.RevisionPhoto, error) {
	query := `
        SELECT p.id, p.created_at, p.revision_id, p.filename, p.content_type, p.data
        FROM revision_photos p
        JOIN alert_revisions r ON r.id = p.revision_id
        WHERE r.company_id = $1 AND p.id = $2`

	photo := &models.RevisionPhoto{}
	err := s.getDB().QueryRowContext(ctx, query, companyID, id).Scan(
		&photo.ID, &photo.CreatedAt, &photo.RevisionID,
		&photo.Filename, &photo.ContentType, &photo.Data,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return photo, nil
}

// ListPhotosByRevision lists photo metadata without the bytes
func (s *PostgresStore) ListPhotosByRevision(ctx context.Context, companyID, revisionID uuid.UUID) ([]*models.RevisionPhoto, error) {
	query := `
        SELECT p.id, p.created_at, p.revision_id, p.filename, p.content_type
        FROM revision_photos p
        JOIN alert_revisions r ON r.id = p.revision_id
        WHERE r.company_id = $1 AND p.revision_id = $2
        ORDER BY p.created_at`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, revisionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []*models.RevisionPhoto
	for rows.Next() {
		photo := &models.RevisionPhoto{}
		err := rows.Scan(&photo.ID, &photo.CreatedAt, &photo.RevisionID,
			&photo.Filename, &photo.ContentType)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

// DeletePhoto deletes a photo, company-scoped through the revision
func (s *PostgresStore) DeletePhoto(ctx context.Context, companyID, id uuid.UUID) error {
	query := `
        DELETE FROM revision_photos p
        USING alert_revisions r
        WHERE r.id = p.revision_id AND r.company_id = $1 AND p.id = $2`

	result, err := s.getDB().ExecContext(ctx, query, companyID, id)
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

func scanRevision(row rowScanner, revision *models.AlertRevision) error {
	return row.Scan(
		&revision.ID, &revision.CreatedAt, &revision.UpdatedAt,
		&revision.CompanyID, &revision.AlertID, &revision.ReviewerName,
		&revision.Resolution, &revision.Comments,
	)
}
