package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-alert/fleet-alert-server/internal/alerts"
	"github.com/fleet-alert/fleet-alert-server/internal/config"
	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
	"github.com/fleet-alert/fleet-alert-server/pkg/crypto"
)

type fakeAPIStore struct {
	storage.Store

	companies map[uuid.UUID]*models.Company
	users     map[string]*models.User
	vehicles  []*models.Vehicle
}

func (f *fakeAPIStore) GetCompany(_ context.Context, id uuid.UUID) (*models.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return company, nil
}

func (f *fakeAPIStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeAPIStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeAPIStore) GetUser(_ context.Context, companyID, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id && user.CompanyID == companyID {
			return user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeAPIStore) UpdateUser(_ context.Context, _ *models.User) error {
	return nil
}

func (f *fakeAPIStore) SearchAlerts(_ context.Context, _ storage.AlertFilters, _, _ int) ([]*models.Alert, int64, error) {
	return nil, 0, nil
}

func (f *fakeAPIStore) ListVehicles(_ context.Context, companyID uuid.UUID, _, _ int) ([]*models.Vehicle, int64, error) {
	var out []*models.Vehicle
	for _, v := range f.vehicles {
		if v.CompanyID == companyID {
			out = append(out, v)
		}
	}
	return out, int64(len(out)), nil
}

func newTestServer(t *testing.T) (*RESTServer, *fakeAPIStore, uuid.UUID) {
	t.Helper()

	companyID := uuid.New()
	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)

	store := &fakeAPIStore{
		companies: map[uuid.UUID]*models.Company{
			companyID: {ID: companyID, Name: "Acme Mining", IsActive: true},
		},
		users: map[string]*models.User{
			"ops@acme.pe": {
				ID:           uuid.New(),
				CompanyID:    companyID,
				Email:        "ops@acme.pe",
				PasswordHash: hash,
				IsActive:     true,
			},
		},
		vehicles: []*models.Vehicle{
			{ID: uuid.New(), CompanyID: companyID, VehicleCodeNorm: "MG069", Status: models.VehicleStatusActive},
		},
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "fleet-alert-server", Version: "test"},
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		},
	}

	alertSvc := alerts.NewService(store, identity.NewResolver(store), nil)
	querySvc := alerts.NewQueryService(store, alerts.NewFilterResolver(store))

	return NewRESTServer(cfg, store, alertSvc, querySvc), store, companyID
}

func doJSON(t *testing.T, s *RESTServer, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *RESTServer) (access, refresh string) {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ops@acme.pe",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["access_token"].(string), resp["refresh_token"].(string)
}

func TestHealthIsPublic(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/vehicles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/vehicles", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ops@acme.pe",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "nobody@acme.pe",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	s, store, _ := newTestServer(t)
	store.users["ops@acme.pe"].IsActive = false

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "ops@acme.pe",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginThenListVehicles(t *testing.T) {
	s, _, _ := newTestServer(t)
	access, _ := login(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/vehicles", access, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "MG069")
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestRefreshIssuesNewTokenPair(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, refresh := login(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	newAccess, ok := resp["access_token"].(string)
	require.True(t, ok)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/users/me", newAccess, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ops@acme.pe")
}

func TestCreateAlertRejectsWhitespaceVehicleCode(t *testing.T) {
	s, _, _ := newTestServer(t)
	access, _ := login(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/alerts", access, map[string]interface{}{
		"vehicleCode": "   ",
		"alertType":   "FATIGUE",
		"eventTime":   "2026-02-26T08:00:00-05:00",
		"rawPayload":  "<p>raw</p>",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestSearchAlertsRejectsGarbageAcknowledged(t *testing.T) {
	s, _, _ := newTestServer(t)
	access, _ := login(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/alerts?acknowledged=banana", access, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doJSON(t, s, http.MethodGet, "/api/v1/alerts?acknowledged=1", access, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, _ = login(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
