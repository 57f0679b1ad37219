package api

import (
	"encoding/json"
	"net/http"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Fleet handlers ==========

// HandleListFleets lists fleets of the caller's company
func (s *RESTServer) HandleListFleets(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	limit, offset := parseLimitOffset(r)

	fleets, total, err := s.store.ListFleets(r.Context(), claims.CompanyID, limit, offset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"fleets": fleets,
		"total":  total,
	})
}

// HandleCreateFleet creates a fleet
func (s *RESTServer) HandleCreateFleet(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req struct {
		Name          string   `json:"name" validate:"required"`
		Description   string   `json:"description"`
		VehiclePlates []string `json:"vehiclePlates"`
		VehicleCodes  []string `json:"vehicleCodes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fleet := &models.Fleet{
		CompanyID:     claims.CompanyID,
		Name:          req.Name,
		Description:   req.Description,
		Active:        true,
		VehiclePlates: identity.NormalizePlateSet(req.VehiclePlates),
		VehicleCodes:  identity.NormalizeCodeSet(req.VehicleCodes),
	}

	if err := s.store.CreateFleet(r.Context(), fleet); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, fleet)
}

// HandleGetFleet gets a fleet by id
func (s *RESTServer) HandleGetFleet(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid fleet id")
		return
	}

	fleet, err := s.store.GetFleet(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, fleet)
}

// HandleUpdateFleet updates a fleet
func (s *RESTServer) HandleUpdateFleet(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid fleet id")
		return
	}

	fleet, err := s.store.GetFleet(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		Name          *string   `json:"name"`
		Description   *string   `json:"description"`
		Active        *bool     `json:"active"`
		VehiclePlates *[]string `json:"vehiclePlates"`
		VehicleCodes  *[]string `json:"vehicleCodes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil {
		fleet.Name = *req.Name
	}
	if req.Description != nil {
		fleet.Description = *req.Description
	}
	if req.Active != nil {
		fleet.Active = *req.Active
	}
	if req.VehiclePlates != nil {
		fleet.VehiclePlates = identity.NormalizePlateSet(*req.VehiclePlates)
	}
	if req.VehicleCodes != nil {
		fleet.VehicleCodes = identity.NormalizeCodeSet(*req.VehicleCodes)
	}

	if err := s.store.UpdateFleet(r.Context(), fleet); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, fleet)
}

// HandleDeleteFleet deletes a fleet
func (s *RESTServer) HandleDeleteFleet(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid fleet id")
		return
	}

	if err := s.store.DeleteFleet(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
