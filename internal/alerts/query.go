package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

// SearchParams are the externally supplied search criteria. FleetID and
// GroupID are resolved to a vehicle filter before any other predicate; when
// either is requested and resolves empty, the search short-circuits to an
// empty page.
type SearchParams struct {
	Types        []string
	FleetID      *uuid.UUID
	GroupID      *uuid.UUID
	From         *time.Time
	To           *time.Time
	Acknowledged *bool
	Page         int
	PageSize     int
}

// QueryService serves filtered and paginated alert listings
type QueryService struct {
	store    storage.Store
	resolver *FilterResolver
}

// NewQueryService creates a new alert query service
func NewQueryService(store storage.Store, resolver *FilterResolver) *QueryService {
	return &QueryService{store: store, resolver: resolver}
}

// ListByGroup returns the alerts matched by a group's vehicle filter
func (s *QueryService) ListByGroup(ctx context.Context, companyID, groupID uuid.UUID, page, pageSize int) (*AlertPage, error) {
	return s.ListByGroupAndDateRange(ctx, companyID, groupID, nil, nil, page, pageSize)
}

// ListByGroupAndDateRange narrows a group listing to [from, to)
func (s *QueryService) ListByGroupAndDateRange(ctx context.Context, companyID, groupID uuid.UUID, from, to *time.Time, page, pageSize int) (*AlertPage, error) {
	filter, err := s.resolver.GroupFilter(ctx, companyID, groupID)
	if err != nil {
		return nil, err
	}
	if filter.Empty() {
		return EmptyPage(page, pageSize), nil
	}

	filters := storage.AlertFilters{CompanyID: companyID, From: from, To: to}
	filter.Apply(&filters)
	return s.page(ctx, filters, page, pageSize)
}

// ListByUser returns alerts for the union of the user's active group
// memberships. Plates from all groups are unioned first; code sets are only
// consulted when no group contributes a plate.
func (s *QueryService) ListByUser(ctx context.Context, companyID, userID uuid.UUID, page, pageSize int) (*AlertPage, error) {
	memberships, err := s.store.ListActiveMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return EmptyPage(page, pageSize), nil
	}

	groupIDs := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	groups, err := s.store.GetGroupsByIDs(ctx, companyID, groupIDs)
	if err != nil {
		return nil, err
	}

	union := VehicleFilter{}
	for _, g := range groups {
		gf := GroupFilter(g)
		union.Plates = unionSets(union.Plates, gf.Plates)
		union.Codes = unionSets(union.Codes, gf.Codes)
	}
	if union.HasPlates() {
		union.Codes = nil
	}
	if union.Empty() {
		return EmptyPage(page, pageSize), nil
	}

	filters := storage.AlertFilters{CompanyID: companyID}
	union.Apply(&filters)
	return s.page(ctx, filters, page, pageSize)
}

// CountByDay counts alerts with event time inside [day, day+1) in the given
// zone, optionally narrowed by a fleet filter.
func (s *QueryService) CountByDay(ctx context.Context, companyID uuid.UUID, day time.Time, zone *time.Location, fleetID *uuid.UUID) (int64, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, zone)
	to := from.AddDate(0, 0, 1)

	filters := storage.AlertFilters{CompanyID: companyID, From: &from, To: &to}

	if fleetID != nil {
		filter, err := s.resolver.FleetFilter(ctx, companyID, *fleetID)
		if err != nil {
			return 0, err
		}
		if filter.Empty() {
			return 0, nil
		}
		filter.Apply(&filters)
	}

	return s.store.CountAlerts(ctx, filters)
}

// CountLast24hForGroup counts a group's alerts in the trailing 24 hours
func (s *QueryService) CountLast24hForGroup(ctx context.Context, companyID, groupID uuid.UUID) (int64, error) {
	filter, err := s.resolver.GroupFilter(ctx, companyID, groupID)
	if err != nil {
		return 0, err
	}
	if filter.Empty() {
		return 0, nil
	}

	to := time.Now()
	from := to.Add(-24 * time.Hour)
	filters := storage.AlertFilters{CompanyID: companyID, From: &from, To: &to}
	filter.Apply(&filters)
	return s.store.CountAlerts(ctx, filters)
}

// Search combines all external predicates into one paged listing
func (s *QueryService) Search(ctx context.Context, companyID uuid.UUID, params SearchParams) (*AlertPage, error) {
	filter, requested, err := s.resolver.Resolve(ctx, companyID, params.FleetID, params.GroupID)
	if err != nil {
		return nil, err
	}
	if requested && filter.Empty() {
		return EmptyPage(params.Page, params.PageSize), nil
	}

	filters := storage.AlertFilters{
		CompanyID:    companyID,
		Types:        params.Types,
		Acknowledged: params.Acknowledged,
		From:         params.From,
		To:           params.To,
	}
	filter.Apply(&filters)
	return s.page(ctx, filters, params.Page, params.PageSize)
}

func (s *QueryService) page(ctx context.Context, filters storage.AlertFilters, page, pageSize int) (*AlertPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	items, total, err := s.store.SearchAlerts(ctx, filters, pageSize, offset)
	if err != nil {
		return nil, err
	}
	return NewPage(items, total, page, pageSize), nil
}

func unionSets(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, set := range [][]string{a, b} {
		for _, v := range set {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
