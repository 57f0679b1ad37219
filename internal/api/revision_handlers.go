package api

import (
	"encoding/json"
	"net/http"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
)

// ========== Alert revision handlers ==========

// HandleCreateRevision attaches the single review to an alert
func (s *RESTServer) HandleCreateRevision(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	alertID, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	// ownership check, wrong tenant reads as absent
	if _, err := s.store.GetAlert(r.Context(), claims.CompanyID, alertID); err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		ReviewerName string `json:"reviewerName" validate:"required"`
		Resolution   string `json:"resolution"`
		Comments     string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	revision := &models.AlertRevision{
		CompanyID:    claims.CompanyID,
		AlertID:      alertID,
		ReviewerName: req.ReviewerName,
		Resolution:   req.Resolution,
		Comments:     req.Comments,
	}

	if err := s.store.CreateRevision(r.Context(), revision); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, revision)
}

// HandleGetAlertRevision returns an alert's revision with its photo listing
func (s *RESTServer) HandleGetAlertRevision(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	alertID, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	revision, err := s.store.GetRevisionByAlert(r.Context(), claims.CompanyID, alertID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	photos, err := s.store.ListPhotosByRevision(r.Context(), claims.CompanyID, revision.ID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"revision": revision,
		"photos":   photos,
	})
}

// HandleUpdateRevision updates a revision
func (s *RESTServer) HandleUpdateRevision(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid revision id")
		return
	}

	revision, err := s.store.GetRevision(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		ReviewerName *string `json:"reviewerName"`
		Resolution   *string `json:"resolution"`
		Comments     *string `json:"comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ReviewerName != nil {
		revision.ReviewerName = *req.ReviewerName
	}
	if req.Resolution != nil {
		revision.Resolution = *req.Resolution
	}
	if req.Comments != nil {
		revision.Comments = *req.Comments
	}

	if err := s.store.UpdateRevision(r.Context(), revision); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, revision)
}

// HandleDeleteRevision deletes a revision and its photos
func (s *RESTServer) HandleDeleteRevision(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid revision id")
		return
	}

	if err := s.store.DeleteRevision(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListRevisions lists revisions of the caller's company
func (s *RESTServer) HandleListRevisions(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	limit, offset := parseLimitOffset(r)

	revisions, total, err := s.store.ListRevisions(r.Context(), claims.CompanyID, limit, offset)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"revisions": revisions,
		"total":     total,
	})
}

// ========== Revision photo handlers ==========

// HandleAddPhoto attaches a photo to a revision. Data arrives base64-encoded
// in the JSON body.
func (s *RESTServer) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	revisionID, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid revision id")
		return
	}

	if _, err := s.store.GetRevision(r.Context(), claims.CompanyID, revisionID); err != nil {
		s.respondStoreError(w, err)
		return
	}

	var req struct {
		Filename    string `json:"filename" validate:"required"`
		ContentType string `json:"contentType"`
		Data        []byte `json:"data" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	photo := &models.RevisionPhoto{
		RevisionID:  revisionID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Data:        req.Data,
	}
	if photo.ContentType == "" {
		photo.ContentType = "image/jpeg"
	}

	if err := s.store.CreatePhoto(r.Context(), photo); err != nil {
		s.respondStoreError(w, err)
		return
	}

	// echo back without the bytes
	photo.Data = nil
	s.respondJSON(w, http.StatusCreated, photo)
}

// HandleGetPhoto returns a photo including its base64 bytes
func (s *RESTServer) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	photo, err := s.store.GetPhoto(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, photo)
}

// HandleDeletePhoto removes a photo
func (s *RESTServer) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid photo id")
		return
	}

	if err := s.store.DeletePhoto(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
