package api

import (
	"encoding/json"
	"net/http"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Vehicle handlers ==========

// HandleListVehicles lists vehicles of the caller's company
func (s *RESTServer) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	limit, offset := parseLimitOffset(r)

	vehicles, total, err := s.store.ListVehicles(r.Context(), claims.CompanyID, limit, offset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"total":    total,
	})
}

// HandleCreateVehicle creates a vehicle explicitly, in ACTIVE status
func (s *RESTServer) HandleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req struct {
		VehicleCode  string `json:"vehicleCode" validate:"required"`
		LicensePlate string `json:"licensePlate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	norm := identity.NormalizeCode(req.VehicleCode)
	if norm == "" {
		s.respondError(w, http.StatusBadRequest, "vehicleCode is required")
		return
	}

	vehicle := &models.Vehicle{
		CompanyID:       claims.CompanyID,
		VehicleCodeRaw:  req.VehicleCode,
		VehicleCodeNorm: norm,
		LicensePlate:    identity.NormalizePlate(req.LicensePlate),
		Status:          models.VehicleStatusActive,
	}

	if err := s.store.CreateVehicle(r.Context(), vehicle); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, vehicle)
}

// HandleGetVehicle gets a vehicle by id
func (s *RESTServer) HandleGetVehicle(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	vehicle, err := s.store.GetVehicle(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, vehicle)
}

// HandleUpdateVehicle updates a vehicle's plate or status
func (s *RESTServer) HandleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	vehicle, err := s.store.GetVehicle(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		LicensePlate *string `json:"licensePlate"`
		Status       *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.LicensePlate != nil {
		vehicle.LicensePlate = identity.NormalizePlate(*req.LicensePlate)
	}
	if req.Status != nil {
		switch models.VehicleStatus(*req.Status) {
		case models.VehicleStatusUnregistered, models.VehicleStatusActive, models.VehicleStatusDisabled:
			vehicle.Status = models.VehicleStatus(*req.Status)
		default:
			s.respondError(w, http.StatusBadRequest, "invalid vehicle status")
			return
		}
	}

	if err := s.store.UpdateVehicle(r.Context(), vehicle); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, vehicle)
}

// HandleDeleteVehicle deletes a vehicle
func (s *RESTServer) HandleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid vehicle id")
		return
	}

	if err := s.store.DeleteVehicle(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
