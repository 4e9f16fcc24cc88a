package geometry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyscout/internal/models"
)

func located(address string, lat, lon float64) models.Property {
	return models.NewProperty(models.Property{
		Address:   address,
		Price:     2_000_000,
		Area:      models.IntPtr(16_000),
		Latitude:  models.Float64Ptr(lat),
		Longitude: models.Float64Ptr(lon),
	})
}

func TestConvexHull(t *testing.T) {
	hull := ConvexHull([]orb.Point{{0, 0}, {2, 0}, {1, 1}, {2, 2}, {0, 2}})
	require.NotNil(t, hull)
	assert.True(t, hull.Closed())
	assert.Len(t, hull, 5)
	assert.NotContains(t, hull, orb.Point{1, 1})
	assert.Equal(t, orb.CCW, hull.Orientation())

	assert.Nil(t, ConvexHull([]orb.Point{{0, 0}, {1, 1}}))
	assert.Nil(t, ConvexHull([]orb.Point{{0, 0}, {1, 1}, {2, 2}}))
}

func TestCompsFeatureCollection(t *testing.T) {
	target := located("898 South Clinton Ave", 43.137, -77.598)
	comps := []models.Property{
		located("a", 43.140, -77.600),
		located("b", 43.130, -77.590),
		located("c", 43.135, -77.610),
		models.NewProperty(models.Property{Address: "unlocated", Price: 1}),
	}

	fc := CompsFeatureCollection(&target, comps, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, fc.Features, 5)

	roles := map[string]int{}
	for _, f := range fc.Features {
		roles[f.Properties.MustString("role")]++
	}
	assert.Equal(t, map[string]int{"comparable": 3, "target": 1, "comp_area": 1}, roles)

	first := fc.Features[0]
	assert.Equal(t, orb.Point{-77.600, 43.140}, first.Geometry)
	assert.Equal(t, 125.0, first.Properties["price_per_sf"])

	data, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"FeatureCollection"`)
	assert.Contains(t, string(data), `"type":"Polygon"`)
}

func TestCompsFeatureCollectionWithoutCoordinates(t *testing.T) {
	fc := CompsFeatureCollection(nil, []models.Property{models.NewProperty(models.Property{Address: "x", Price: 1})}, time.Now())
	assert.Empty(t, fc.Features)
}
