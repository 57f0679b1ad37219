package storage

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildAlertWhereCompanyOnly(t *testing.T) {
	companyID := uuid.New()
	where, args := buildAlertWhere(AlertFilters{CompanyID: companyID})

	assert.Equal(t, "WHERE company_id = $1", where)
	assert.Equal(t, []interface{}{companyID}, args)
}

func TestBuildAlertWherePlatesExcludeCodes(t *testing.T) {
	where, args := buildAlertWhere(AlertFilters{
		CompanyID: uuid.New(),
		Plates:    []string{"ABC123"},
		Codes:     []string{"MG069"},
	})

	assert.Contains(t, where, "license_plate = ANY($2)")
	assert.NotContains(t, where, "vehicle_code")
	assert.Len(t, args, 2)
}

func TestBuildAlertWhereCodesOnly(t *testing.T) {
	where, args := buildAlertWhere(AlertFilters{
		CompanyID: uuid.New(),
		Codes:     []string{"MG069", "MG070"},
	})

	assert.Contains(t, where, "vehicle_code = ANY($2)")
	assert.NotContains(t, where, "license_plate")
	assert.Len(t, args, 2)
}

func TestBuildAlertWhereAllPredicates(t *testing.T) {
	ack := true
	from := time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	where, args := buildAlertWhere(AlertFilters{
		CompanyID:    uuid.New(),
		Plates:       []string{"ABC123"},
		Types:        []string{"FATIGUE"},
		Acknowledged: &ack,
		From:         &from,
		To:           &to,
	})

	assert.Equal(t,
		"WHERE company_id = $1 AND license_plate = ANY($2)"+
			" AND alert_type = ANY($3) AND acknowledged = $4"+
			" AND event_time >= $5 AND event_time < $6",
		where)
	assert.Len(t, args, 6)
	assert.Equal(t, from, args[4])
	assert.Equal(t, to, args[5])
}

func TestMapErrorSentinels(t *testing.T) {
	assert.Nil(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapError(errors.New(`pq: duplicate key value violates unique constraint "vehicles_company_code_norm"`)), ErrDuplicateKey)
}
