package api

import (
	"encoding/json"
	"net/http"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Company handlers ==========

// HandleListCompanies lists companies (admin only)
func (s *RESTServer) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if !claims.IsAdmin {
		s.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	limit, offset := parseLimitOffset(r)
	companies, total, err := s.store.ListCompanies(r.Context(), limit, offset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"total":     total,
	})
}

// HandleCreateCompany creates a company (admin only)
func (s *RESTServer) HandleCreateCompany(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if !claims.IsAdmin {
		s.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Timezone    string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	company := &models.Company{
		Name:        req.Name,
		Description: req.Description,
		Timezone:    req.Timezone,
		IsActive:    true,
	}
	if company.Timezone == "" {
		company.Timezone = s.config.Server.Timezone
	}

	if err := s.store.CreateCompany(r.Context(), company); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, company)
}

// HandleGetCompany returns the caller's own company
func (s *RESTServer) HandleGetCompany(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	company, err := s.store.GetCompany(r.Context(), claims.CompanyID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, company)
}

// HandleUpdateCompany updates the caller's own company
func (s *RESTServer) HandleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if !claims.IsAdmin {
		s.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	company, err := s.store.GetCompany(r.Context(), claims.CompanyID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Timezone    *string `json:"timezone"`
		IsActive    *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Description != nil {
		company.Description = *req.Description
	}
	if req.Timezone != nil {
		company.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := s.store.UpdateCompany(r.Context(), company); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, company)
}
