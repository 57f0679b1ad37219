package api

import (
	"encoding/json"
	"net/http"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/pkg/crypto"
)

// ========== User handlers ==========

// HandleListUsers lists users of the caller's company
func (s *RESTServer) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	limit, offset := parseLimitOffset(r)

	users, total, err := s.store.ListUsers(r.Context(), claims.CompanyID, limit, offset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// HandleCreateUser creates a user in the caller's company
func (s *RESTServer) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if !claims.IsAdmin {
		s.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req struct {
		Email     string `json:"email" validate:"required,email"`
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName"`
		Password  string `json:"password" validate:"required,min=8"`
		IsAdmin   bool   `json:"isAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		CompanyID:    claims.CompanyID,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, user)
}

// HandleGetUser gets a user by id
func (s *RESTServer) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.store.GetUser(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

// HandleUpdateUser updates a user
func (s *RESTServer) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.store.GetUser(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Password  *string `json:"password"`
		IsAdmin   *bool   `json:"isAdmin"`
		IsActive  *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hash, err := crypto.HashPassword(*req.Password)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		user.PasswordHash = hash
	}
	if req.IsAdmin != nil && claims.IsAdmin {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsActive != nil && claims.IsAdmin {
		user.IsActive = *req.IsActive
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

// HandleDeleteUser deletes a user
func (s *RESTServer) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if !claims.IsAdmin {
		s.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.store.DeleteUser(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ========== Device registration handlers ==========

// HandleRegisterDevice registers or reactivates a push device for the caller
func (s *RESTServer) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req struct {
		ExpoPushToken string `json:"expoPushToken" validate:"required"`
		Platform      string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	device := &models.DeviceRegistration{
		UserID:        claims.UserID,
		ExpoPushToken: req.ExpoPushToken,
		Platform:      req.Platform,
		Active:        true,
	}

	if err := s.store.UpsertDevice(r.Context(), device); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, device)
}

// HandleUnregisterDevice deactivates a push device for the caller
func (s *RESTServer) HandleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req struct {
		ExpoPushToken string `json:"expoPushToken" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.DeactivateDevice(r.Context(), claims.UserID, req.ExpoPushToken); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
