package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/alerts"
)

// ========== Alert handlers ==========

// HandleCreateAlert ingests a new alert for the caller's company
func (s *RESTServer) HandleCreateAlert(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req alerts.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	alert, err := s.alerts.Create(r.Context(), claims.CompanyID, &req)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, alert)
}

// HandleSearchAlerts serves the combined alert search
func (s *RESTServer) HandleSearchAlerts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	params := alerts.SearchParams{}
	params.Page, params.PageSize = parsePagination(r)

	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				params.Types = append(params.Types, t)
			}
		}
	}

	var err error
	if params.FleetID, err = queryParamUUID(r, "fleetId"); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid fleetId")
		return
	}
	if params.GroupID, err = queryParamUUID(r, "groupId"); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid groupId")
		return
	}
	if params.From, err = parseTimeParam(r, "from"); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	if params.To, err = parseTimeParam(r, "to"); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid to date")
		return
	}
	if ack := r.URL.Query().Get("acknowledged"); ack != "" {
		value, err := strconv.ParseBool(ack)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid acknowledged value")
			return
		}
		params.Acknowledged = &value
	}

	page, err := s.queries.Search(r.Context(), claims.CompanyID, params)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, page)
}

// HandleGetAlert returns the detail view of an alert
func (s *RESTServer) HandleGetAlert(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	alert, err := s.alerts.Get(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, alert)
}

// HandleUpdateAlert applies a partial update to an alert
func (s *RESTServer) HandleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	var req alerts.UpdateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := s.alerts.Update(r.Context(), claims.CompanyID, id, &req)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, alert)
}

// HandleAcknowledgeAlert marks an alert acknowledged
func (s *RESTServer) HandleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	alert, err := s.alerts.Acknowledge(r.Context(), claims.CompanyID, id)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, alert)
}

// HandleDeleteAlert deletes an alert
func (s *RESTServer) HandleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	if err := s.alerts.Delete(r.Context(), claims.CompanyID, id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCountAlertsByDay counts alerts for one calendar day in a zone
func (s *RESTServer) HandleCountAlertsByDay(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	dayRaw := r.URL.Query().Get("day")
	day, err := time.Parse("2006-01-02", dayRaw)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid day, expected YYYY-MM-DD")
		return
	}

	zone := s.config.Location()
	if zoneName := r.URL.Query().Get("zone"); zoneName != "" {
		zone, err = time.LoadLocation(zoneName)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid zone")
			return
		}
	}

	fleetID, err := queryParamUUID(r, "fleetId")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid fleetId")
		return
	}

	count, err := s.queries.CountByDay(r.Context(), claims.CompanyID, day, zone, fleetID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"day":   day.Format("2006-01-02"),
		"count": count,
	})
}

// HandleListGroupAlerts lists alerts matched by a group's vehicle filter
func (s *RESTServer) HandleListGroupAlerts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, err := urlParamUUID(r, "id")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid to date")
		return
	}

	page, pageSize := parsePagination(r)
	result, err := s.queries.ListByGroupAndDateRange(r.Context(), claims.CompanyID, id, from, to, page, pageSize)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// HandleListMyAlerts lists alerts across the caller's group memberships
func (s *RESTServer) HandleListMyAlerts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := parsePagination(r)

	result, err := s.queries.ListByUser(r.Context(), claims.CompanyID, claims.UserID, page, pageSize)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// queryParamUUID parses an optional UUID query parameter
func queryParamUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
