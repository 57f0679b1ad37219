package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Shift Roster Methods ==========

// ReplaceShiftBatch deactivates the previous active roster for the company
// and date, then inserts the new batch in the same transaction.
func (s *PostgresStore) ReplaceShiftBatch(ctx context.Context, companyID uuid.UUID, rosterDate time.Time, shifts []*models.Shift) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ptx := tx.(*PostgresStore)

	_, err = ptx.getDB().ExecContext(ctx,
		`UPDATE shifts SET active = false, updated_at = $3
         WHERE company_id = $1 AND roster_date = $2 AND active = true`,
		companyID, rosterDate, time.Now(),
	)
	if err != nil {
		return err
	}

	for _, shift := range shifts {
		if shift.ID == uuid.Nil {
			shift.ID = uuid.New()
		}
		now := time.Now()
		shift.CreatedAt = now
		shift.UpdatedAt = now
		shift.CompanyID = companyID
		shift.RosterDate = rosterDate
		shift.Active = true

		_, err = ptx.getDB().ExecContext(ctx, `
            INSERT INTO shifts (
                id, created_at, updated_at, company_id, roster_date,
                shift_name, batch_id, active, responsible_ids, vehicle_plates
            ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			shift.ID, shift.CreatedAt, shift.UpdatedAt, shift.CompanyID,
			shift.RosterDate, shift.ShiftName, shift.BatchID, shift.Active,
			shift.ResponsibleIDs, shift.VehiclePlates,
		)
		if err != nil {
			return mapError(err)
		}
	}

	return tx.Commit()
}

// ListShiftsByDate lists the active roster for a company and date
func (s *PostgresStore) ListShiftsByDate(ctx context.Context, companyID uuid.UUID, rosterDate time.Time) ([]*models.Shift, error) {
	query := `
        SELECT id, created_at, updated_at, company_id, roster_date,
               shift_name, batch_id, active, responsible_ids, vehicle_plates
        FROM shifts
        WHERE company_id = $1 AND roster_date = $2 AND active = true
        ORDER BY shift_name`

	rows, err := s.getDB().QueryContext(ctx, query, companyID, rosterDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		shift := &models.Shift{}
		err := rows.Scan(
			&shift.ID, &shift.CreatedAt, &shift.UpdatedAt, &shift.CompanyID,
			&shift.RosterDate, &shift.ShiftName, &shift.BatchID, &shift.Active,
			&shift.ResponsibleIDs, &shift.VehiclePlates,
		)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	return shifts, rows.Err()
}
