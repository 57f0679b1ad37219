package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

// fakeStore is an in-memory Store for service and query tests. It applies
// the same predicate semantics the SQL layer does.
type fakeStore struct {
	storage.Store

	companies   map[uuid.UUID]*models.Company
	groups      map[uuid.UUID]*models.NotificationGroup
	fleets      map[uuid.UUID]*models.Fleet
	vehicles    map[string]*models.Vehicle
	alerts      []*models.Alert
	memberships []*models.GroupMembership

	lastFilters *storage.AlertFilters
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies: map[uuid.UUID]*models.Company{},
		groups:    map[uuid.UUID]*models.NotificationGroup{},
		fleets:    map[uuid.UUID]*models.Fleet{},
		vehicles:  map[string]*models.Vehicle{},
	}
}

func (f *fakeStore) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	if c, ok := f.companies[id]; ok {
		return c, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetGroup(ctx context.Context, companyID, id uuid.UUID) (*models.NotificationGroup, error) {
	if g, ok := f.groups[id]; ok && g.CompanyID == companyID {
		return g, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetFleet(ctx context.Context, companyID, id uuid.UUID) (*models.Fleet, error) {
	if fl, ok := f.fleets[id]; ok && fl.CompanyID == companyID {
		return fl, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetVehicleByCodeNorm(ctx context.Context, companyID uuid.UUID, codeNorm string) (*models.Vehicle, error) {
	if v, ok := f.vehicles[codeNorm]; ok && v.CompanyID == companyID {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if _, ok := f.vehicles[vehicle.VehicleCodeNorm]; ok {
		return storage.ErrDuplicateKey
	}
	vehicle.ID = uuid.New()
	f.vehicles[vehicle.VehicleCodeNorm] = vehicle
	return nil
}

func (f *fakeStore) UpdateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	f.vehicles[vehicle.VehicleCodeNorm] = vehicle
	return nil
}

func (f *fakeStore) CreateAlert(ctx context.Context, alert *models.Alert) error {
	alert.ID = uuid.New()
	alert.ReceivedAt = time.Now()
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeStore) GetAlert(ctx context.Context, companyID, id uuid.UUID) (*models.Alert, error) {
	for _, a := range f.alerts {
		if a.ID == id && a.CompanyID == companyID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) UpdateAlert(ctx context.Context, alert *models.Alert) error {
	for i, a := range f.alerts {
		if a.ID == alert.ID && a.CompanyID == alert.CompanyID {
			copied := *alert
			f.alerts[i] = &copied
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) SearchAlerts(ctx context.Context, filters storage.AlertFilters, limit, offset int) ([]*models.Alert, int64, error) {
	f.lastFilters = &filters
	var matched []*models.Alert
	for _, a := range f.alerts {
		if matchAlert(a, filters) {
			matched = append(matched, a)
		}
	}
	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeStore) CountAlerts(ctx context.Context, filters storage.AlertFilters) (int64, error) {
	f.lastFilters = &filters
	var count int64
	for _, a := range f.alerts {
		if matchAlert(a, filters) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListActiveMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*models.GroupMembership, error) {
	var out []*models.GroupMembership
	for _, m := range f.memberships {
		if m.UserID == userID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) GetGroupsByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]*models.NotificationGroup, error) {
	var out []*models.NotificationGroup
	for _, id := range ids {
		if g, ok := f.groups[id]; ok && g.CompanyID == companyID {
			out = append(out, g)
		}
	}
	return out, nil
}

func matchAlert(a *models.Alert, f storage.AlertFilters) bool {
	if a.CompanyID != f.CompanyID {
		return false
	}
	if len(f.Plates) > 0 {
		if !contains(f.Plates, a.LicensePlate) {
			return false
		}
	} else if len(f.Codes) > 0 {
		if !contains(f.Codes, a.VehicleCode) {
			return false
		}
	}
	if len(f.Types) > 0 && !contains(f.Types, a.AlertType) {
		return false
	}
	if f.Acknowledged != nil && a.Acknowledged != *f.Acknowledged {
		return false
	}
	if f.From != nil && a.EventTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !a.EventTime.Before(*f.To) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
