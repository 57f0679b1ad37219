package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

const alertColumns = `id, company_id, vehicle_code, license_plate, alert_type,
        alert_subtype, template_source, severity, subject, plant, area,
        owner_or_vendor, brand_model, operator_name, operator_id,
        event_time, received_at, short_description, details, raw_payload,
        acknowledged`

// CreateAlert inserts a new alert. ReceivedAt is always server-assigned.
func (s *PostgresStore) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	alert.ReceivedAt = time.Now()

	query := `
        INSERT INTO alerts (
            id, company_id, vehicle_code, license_plate, alert_type,
            alert_subtype, template_source, severity, subject, plant, area,
            owner_or_vendor, brand_model, operator_name, operator_id,
            event_time, received_at, short_description, details, raw_payload,
            acknowledged
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
            $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := s.getDB().ExecContext(ctx, query,
		alert.ID, alert.CompanyID, alert.VehicleCode, alert.LicensePlate,
		alert.AlertType, alert.AlertSubtype, alert.TemplateSource,
		alert.Severity, alert.Subject, alert.Plant, alert.Area,
		alert.OwnerOrVendor, alert.BrandModel, alert.OperatorName,
		alert.OperatorID, alert.EventTime, alert.ReceivedAt,
		alert.ShortDescription, alert.Details, alert.RawPayload,
		alert.Acknowledged,
	)

	return mapError(err)
}

// GetAlert gets an alert scoped to a company
func (s *PostgresStore) GetAlert(ctx context.Context, companyID, id uuid.UUID) (*models.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE company_id = $1 AND id = $2`

	alert := &models.Alert{}
	err := scanAlert(s.getDB().QueryRowContext(ctx, query, companyID, id), alert)
	if err != nil {
		return nil, mapError(err)
	}
	return alert, nil
}

// UpdateAlert updates the mutable columns of an alert
func (s *PostgresStore) UpdateAlert(ctx context.Context, alert *models.Alert) error {
	query := `
        UPDATE alerts SET
            short_description = $3, details = $4, severity = $5, acknowledged = $6
        WHERE company_id = $1 AND id = $2`

	result, err := s.getDB().ExecContext(ctx, query,
		alert.CompanyID, alert.ID,
		alert.ShortDescription, alert.Details, alert.Severity, alert.Acknowledged,
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

// DeleteAlert deletes an alert scoped to a company
func (s *PostgresStore) DeleteAlert(ctx context.Context, companyID, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"DELETE FROM alerts WHERE company_id = $1 AND id = $2", companyID, id)
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

// buildAlertWhere composes the WHERE clause for alert queries. The company
// predicate always comes first; the plate predicate excludes the code
// predicate when both sets are supplied.
func buildAlertWhere(filters AlertFilters) (string, []interface{}) {
	where := "WHERE company_id = $1"
	args := []interface{}{filters.CompanyID}
	argCount := 1

	if len(filters.Plates) > 0 {
		argCount++
		where += fmt.Sprintf(" AND license_plate = ANY($%d)", argCount)
		args = append(args, pq.Array(filters.Plates))
	} else if len(filters.Codes) > 0 {
		argCount++
		where += fmt.Sprintf(" AND vehicle_code = ANY($%d)", argCount)
		args = append(args, pq.Array(filters.Codes))
	}

	if len(filters.Types) > 0 {
		argCount++
		where += fmt.Sprintf(" AND alert_type = ANY($%d)", argCount)
		args = append(args, pq.Array(filters.Types))
	}

	if filters.Acknowledged != nil {
		argCount++
		where += fmt.Sprintf(" AND acknowledged = $%d", argCount)
		args = append(args, *filters.Acknowledged)
	}

	if filters.From != nil {
		argCount++
		where += fmt.Sprintf(" AND event_time >= $%d", argCount)
		args = append(args, *filters.From)
	}

	if filters.To != nil {
		argCount++
		where += fmt.Sprintf(" AND event_time < $%d", argCount)
		args = append(args, *filters.To)
	}

	return where, args
}

// SearchAlerts lists alerts matching the filters, most recent event first
func (s *PostgresStore) SearchAlerts(ctx context.Context, filters AlertFilters, limit, offset int) ([]*models.Alert, int64, error) {
	where, args := buildAlertWhere(filters)

	var count int64
	err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts "+where, args...).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	argCount := len(args)
	query := fmt.Sprintf(
		"SELECT "+alertColumns+" FROM alerts "+where+
			" ORDER BY event_time DESC LIMIT $%d OFFSET $%d",
		argCount+1, argCount+2,
	)
	args = append(args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var alerts []*models.Alert
	for rows.Next() {
		alert := &models.Alert{}
		if err := scanAlert(rows, alert); err != nil {
			return nil, 0, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, count, rows.Err()
}

// CountAlerts counts alerts matching the filters
func (s *PostgresStore) CountAlerts(ctx context.Context, filters AlertFilters) (int64, error) {
	where, args := buildAlertWhere(filters)

	var count int64
	err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts "+where, args...).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner, alert *models.Alert) error {
	return row.Scan(
		&alert.ID, &alert.CompanyID, &alert.VehicleCode, &alert.LicensePlate,
		&alert.AlertType, &alert.AlertSubtype, &alert.TemplateSource,
		&alert.Severity, &alert.Subject, &alert.Plant, &alert.Area,
		&alert.OwnerOrVendor, &alert.BrandModel, &alert.OperatorName,
		&alert.OperatorID, &alert.EventTime, &alert.ReceivedAt,
		&alert.ShortDescription, &alert.Details, &alert.RawPayload,
		&alert.Acknowledged,
	)
}
