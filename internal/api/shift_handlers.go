package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Shift roster handlers ==========

// HandleImportShifts replaces the shift roster for one date in a single
// batch. The previous batch for that date is deactivated, not deleted.
func (s *RESTServer) HandleImportShifts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req struct {
		RosterDate string `json:"rosterDate" validate:"required"`
		Shifts     []struct {
			ShiftName      string   `json:"shiftName" validate:"required"`
			ResponsibleIDs []string `json:"responsibleIds"`
			VehiclePlates  []string `json:"vehiclePlates"`
		} `json:"shifts" validate:"required,min=1,dive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rosterDate, err := time.Parse("2006-01-02", req.RosterDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid rosterDate, expected YYYY-MM-DD")
		return
	}

	batchID := uuid.New().String()
	shifts := make([]*models.Shift, 0, len(req.Shifts))
	for _, entry := range req.Shifts {
		shifts = append(shifts, &models.Shift{
			CompanyID:      claims.CompanyID,
			RosterDate:     rosterDate,
			ShiftName:      entry.ShiftName,
			BatchID:        batchID,
			Active:         true,
			ResponsibleIDs: entry.ResponsibleIDs,
			VehiclePlates:  identity.NormalizePlateSet(entry.VehiclePlates),
		})
	}

	if err := s.store.ReplaceShiftBatch(r.Context(), claims.CompanyID, rosterDate, shifts); err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"batchId": batchID,
		"shifts":  shifts,
	})
}

// HandleListShifts lists the active roster for a date
func (s *RESTServer) HandleListShifts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	dateRaw := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateRaw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	shifts, err := s.store.ListShiftsByDate(r.Context(), claims.CompanyID, date)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"shifts": shifts,
	})
}
