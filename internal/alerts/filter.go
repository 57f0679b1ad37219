package alerts

import (
	"context"

	"github.com/google/uuid"

	"github.com/fleet-alert/fleet-alert-server/internal/identity"
	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

// VehicleFilter is a resolved pair of identifier sets. Plates are the
// principal identity: when Plates is non-empty every consumer must ignore
// Codes, which exist only for groups never migrated to plate membership.
type VehicleFilter struct {
	Plates []string
	Codes  []string
}

func (f VehicleFilter) HasPlates() bool { return len(f.Plates) > 0 }
func (f VehicleFilter) HasCodes() bool  { return len(f.Codes) > 0 }

// Empty reports whether the filter matches no vehicle at all
func (f VehicleFilter) Empty() bool { return !f.HasPlates() && !f.HasCodes() }

// Apply sets the plates-first vehicle predicate on a storage filter
func (f VehicleFilter) Apply(filters *storage.AlertFilters) {
	if f.HasPlates() {
		filters.Plates = f.Plates
		return
	}
	if f.HasCodes() {
		filters.Codes = f.Codes
	}
}

// GroupFilter returns the normalized membership sets of a notification group
func GroupFilter(group *models.NotificationGroup) VehicleFilter {
	return newVehicleFilter(group.VehiclePlates, group.VehicleCodes)
}

// FleetFilter returns the normalized membership sets of a fleet
func FleetFilter(fleet *models.Fleet) VehicleFilter {
	return newVehicleFilter(fleet.VehiclePlates, fleet.VehicleCodes)
}

func newVehicleFilter(plates, codes []string) VehicleFilter {
	return VehicleFilter{
		Plates: identity.NormalizePlateSet(plates),
		Codes:  identity.NormalizeCodeSet(codes),
	}
}

// Intersect combines two resolved filters. Plates intersect with plates when
// both sides have them; otherwise the result falls back to the code sets.
// An empty side empties the whole result.
func Intersect(a, b VehicleFilter) VehicleFilter {
	if a.Empty() || b.Empty() {
		return VehicleFilter{}
	}
	if a.HasPlates() && b.HasPlates() {
		return VehicleFilter{Plates: intersectSets(a.Plates, b.Plates)}
	}
	return VehicleFilter{Codes: intersectSets(a.Codes, b.Codes)}
}

func intersectSets(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// FilterResolver loads fleet and group membership sets and combines them
// into the effective vehicle filter for a query.
type FilterResolver struct {
	store storage.Store
}

// NewFilterResolver creates a new vehicle-set resolver
func NewFilterResolver(store storage.Store) *FilterResolver {
	return &FilterResolver{store: store}
}

// GroupFilter resolves a group's filter by id, scoped to the company
func (r *FilterResolver) GroupFilter(ctx context.Context, companyID, groupID uuid.UUID) (VehicleFilter, error) {
	group, err := r.store.GetGroup(ctx, companyID, groupID)
	if err != nil {
		return VehicleFilter{}, err
	}
	return GroupFilter(group), nil
}

// FleetFilter resolves a fleet's filter by id, scoped to the company
func (r *FilterResolver) FleetFilter(ctx context.Context, companyID, fleetID uuid.UUID) (VehicleFilter, error) {
	fleet, err := r.store.GetFleet(ctx, companyID, fleetID)
	if err != nil {
		return VehicleFilter{}, err
	}
	return FleetFilter(fleet), nil
}

// Resolve computes the effective filter for an optional fleet and group pair.
// The second return value reports whether any filter was requested at all:
// when it is true and the filter is empty, callers must short-circuit to an
// empty result instead of querying with an unbounded predicate.
func (r *FilterResolver) Resolve(ctx context.Context, companyID uuid.UUID, fleetID, groupID *uuid.UUID) (VehicleFilter, bool, error) {
	if fleetID == nil && groupID == nil {
		return VehicleFilter{}, false, nil
	}

	var fleetFilter, groupFilter VehicleFilter
	var err error

	if fleetID != nil {
		fleetFilter, err = r.FleetFilter(ctx, companyID, *fleetID)
		if err != nil {
			return VehicleFilter{}, true, err
		}
	}
	if groupID != nil {
		groupFilter, err = r.GroupFilter(ctx, companyID, *groupID)
		if err != nil {
			return VehicleFilter{}, true, err
		}
	}

	if fleetID != nil && groupID != nil {
		return Intersect(fleetFilter, groupFilter), true, nil
	}
	if fleetID != nil {
		return fleetFilter, true, nil
	}
	return groupFilter, true, nil
}
