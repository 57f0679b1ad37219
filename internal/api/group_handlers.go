package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

// ========== Notification group handlers ==========

// HandleListGroups lists notification groups of the caller's company
func (s *RESTServer) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	limit, offset := parseLimitOffset(r)

	groups, total, err := s.store.ListGroups(r.Context(), claims.CompanyID, limit, offset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
		"total":  total,
	})
}

// HandleCreateGroup creates a notification group. Membership sets are
// normalized on write so alert matching never needs to renormalize.
func (s *RESTServer) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
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

	group := &models.NotificationGroup{
		CompanyID:     claims.CompanyID,
		Name:          req.Name,
		Description:   req.Description,
		Active:        true,
		VehiclePlates: identity.NormalizePlateSet(req.VehiclePlates),
		VehicleCodes:  identity.NormalizeCodeSet(req.VehicleCodes),
	}

	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, group)
}

// HandleGetGroup gets a group by id
func (s *RESTServer) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	group, err := s.store.GetGroup(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, group)
}

// HandleUpdateGroup updates a group
func (s *RESTServer) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	group, err := s.store.GetGroup(r.Context(), claims.CompanyID, id)
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
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Active != nil {
		group.Active = *req.Active
	}
	if req.VehiclePlates != nil {
		group.VehiclePlates = identity.NormalizePlateSet(*req.VehiclePlates)
	}
	if req.VehicleCodes != nil {
		group.VehicleCodes = identity.NormalizeCodeSet(*req.VehicleCodes)
	}

	if err := s.store.UpdateGroup(r.Context(), group); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, group)
}

// HandleDeleteGroup deletes a group
func (s *RESTServer) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := s.store.DeleteGroup(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ========== Membership handlers ==========

// HandleListMemberships lists a group's memberships
func (s *RESTServer) HandleListMemberships(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	// ownership check before touching memberships
	if _, err := s.store.GetGroup(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}

	memberships, err := s.store.ListMemberships(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"memberships": memberships,
	})
}

// HandleAddMembership links a user to a group, reactivating a soft-removed
// link when one exists
func (s *RESTServer) HandleAddMembership(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req struct {
		UserID string `json:"userId" validate:"required,uuid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := s.store.GetGroup(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	if _, err := s.store.GetUser(r.Context(), claims.CompanyID, userID); err != nil {
		s.respondStoreError(w, err)
		return
	}

	membership := &models.GroupMembership{
		GroupID: id,
		UserID:  userID,
		Active:  true,
	}
	err = s.store.CreateMembership(r.Context(), membership)
	if errors.Is(err, storage.ErrDuplicateKey) {
		// link exists, possibly soft-removed; bring it back
		if err := s.store.SetMembershipActive(r.Context(), id, userID, true); err != nil {
			s.respondStoreError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, membership)
		return
	}
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, membership)
}

// HandleRemoveMembership soft-removes a user from a group
func (s *RESTServer) HandleRemoveMembership(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}
	userID, err := urlParamUUID(r, "user_id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := s.store.GetGroup(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}

	if err := s.store.SetMembershipActive(r.Context(), id, userID, false); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGroupAlertCount returns the group's alert count for the last 24 hours
func (s *RESTServer) HandleGroupAlertCount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	count, err := s.queries.CountLast24hForGroup(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}
