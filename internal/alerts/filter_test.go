package alerts

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/fleet-alert/fleet-alert-server/internal/models"
	"github.com/fleet-alert/fleet-alert-server/internal/storage"
)

func TestGroupFilterNormalizesSets(t *testing.T) {
	group := &models.NotificationGroup{
		VehiclePlates: pq.StringArray{" abc-123 ", "abc 123", ""},
		VehicleCodes:  pq.StringArray{" mg 069 ", "mg069"},
	}

	filter := GroupFilter(group)

	assert.Equal(t, []string{"ABC123"}, filter.Plates)
	assert.Equal(t, []string{"MG069"}, filter.Codes)
}

func TestApplyPlatesFirst(t *testing.T) {
	filter := VehicleFilter{
		Plates: []string{"ABC123"},
		Codes:  []string{"MG069"},
	}

	var filters storage.AlertFilters
	filter.Apply(&filters)

	assert.Equal(t, []string{"ABC123"}, filters.Plates)
	assert.Empty(t, filters.Codes)
}

func TestApplyCodesFallback(t *testing.T) {
	filter := VehicleFilter{Codes: []string{"MG069"}}

	var filters storage.AlertFilters
	filter.Apply(&filters)

	assert.Empty(t, filters.Plates)
	assert.Equal(t, []string{"MG069"}, filters.Codes)
}

func TestIntersectPlates(t *testing.T) {
	a := VehicleFilter{Plates: []string{"AAA111", "BBB222"}, Codes: []string{"C1"}}
	b := VehicleFilter{Plates: []string{"BBB222", "CCC333"}, Codes: []string{"C2"}}

	result := Intersect(a, b)

	assert.Equal(t, []string{"BBB222"}, result.Plates)
	assert.Empty(t, result.Codes)
}

func TestIntersectCodesFallback(t *testing.T) {
	a := VehicleFilter{Codes: []string{"MG069", "MG070"}}
	b := VehicleFilter{Plates: []string{"AAA111"}, Codes: []string{"MG070"}}

	result := Intersect(a, b)

	assert.Empty(t, result.Plates)
	assert.Equal(t, []string{"MG070"}, result.Codes)
}

func TestIntersectEmptySide(t *testing.T) {
	a := VehicleFilter{Plates: []string{"AAA111"}}

	assert.True(t, Intersect(a, VehicleFilter{}).Empty())
	assert.True(t, Intersect(VehicleFilter{}, a).Empty())
}

func TestIntersectDisjointPlates(t *testing.T) {
	a := VehicleFilter{Plates: []string{"AAA111"}}
	b := VehicleFilter{Plates: []string{"BBB222"}}

	assert.True(t, Intersect(a, b).Empty())
}
