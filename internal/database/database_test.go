package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propertyscout/internal/models"
)

func setupTestDatabase(t *testing.T) *Database {
	db, err := NewTestDB()
	require.NoError(t, err)
	require.NoError(t, MigrateSchema(db))

	d := Wrap(db, logrus.New())
	t.Cleanup(func() { d.Close() })
	return d
}

func testComparable(address string, price float64, sf int, saleDate, propertyType string) *models.Property {
	p := models.NewProperty(models.Property{
		Address:      address,
		Price:        price,
		Area:         models.IntPtr(sf),
		SaleDate:     models.StringPtr(saleDate),
		PropertyType: propertyType,
	})
	return &p
}

func TestUpsertComparables(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	batch := []*models.Property{
		testComparable("1 Main St", 1_000_000, 10_000, "2025-01-01", "Mixed-Use"),
		testComparable("2 Main St", 2_000_000, 10_000, "2025-02-01", "Multi-Family"),
	}
	require.NoError(t, UpsertComparables(d.GetDB(), batch))

	count, err := d.CountComparables(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Same address replaces the price instead of adding a row.
	updated := []*models.Property{testComparable("1 Main St", 1_200_000, 10_000, "2025-03-01", "Mixed-Use")}
	require.NoError(t, UpsertComparables(d.GetDB(), updated))

	records, err := d.ListComparables(ctx, models.ComparableFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1 Main St", records[0].Address)
	assert.Equal(t, 1_200_000.0, records[0].Price)

	psf, ok := records[0].ToProperty().PricePerArea()
	assert.True(t, ok)
	assert.Equal(t, 120.0, psf)
}

func TestUpsertComparablesRejectsMissingAddress(t *testing.T) {
	d := setupTestDatabase(t)

	err := UpsertComparables(d.GetDB(), []*models.Property{{Price: 1}})
	assert.Error(t, err)
}

func TestListComparablesFilter(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, UpsertComparables(d.GetDB(), []*models.Property{
		testComparable("1 Main St", 1_000_000, 10_000, "2025-01-01", "Mixed-Use"),
		testComparable("2 Main St", 2_000_000, 10_000, "2025-02-01", "Multi-Family"),
		testComparable("3 Main St", 3_000_000, 10_000, "2025-03-01", "Office"),
	}))

	records, err := d.ListComparables(ctx, models.ComparableFilter{PropertyTypes: []string{"Mixed-Use", "Multi-Family"}})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2 Main St", records[0].Address)

	records, err = d.ListComparables(ctx, models.ComparableFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "3 Main St", records[0].Address)
}

func TestSaveAndGetAnalysis(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	target := models.NewTargetProperty("898 South Clinton Ave", 7_190_000, 22_000, 11)
	analysis := &models.InvestmentAnalysis{
		InvestmentScore: 58,
		TargetProperty:  target,
		PriceAnalysis: models.PriceAnalysis{
			AskingPrice:         3_000_000,
			EstimatedValueRange: models.ValueRange{Low: 2_828_000, High: 3_456_000},
		},
		Recommendations: models.Recommendations{
			Tier:                  models.TierConsider,
			Action:                models.ActionConsider,
			SuggestedCounterOffer: 2_850_000,
		},
		GeneratedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}

	record, err := d.SaveAnalysis(ctx, analysis)
	require.NoError(t, err)
	assert.Len(t, record.RunID, 36)
	assert.Equal(t, 58, record.Score)
	assert.Equal(t, models.TierConsider, record.Tier)

	loaded, err := d.GetAnalysis(ctx, record.RunID)
	require.NoError(t, err)
	assert.Equal(t, 58, loaded.InvestmentScore)
	assert.Equal(t, "898 South Clinton Ave", loaded.TargetProperty.Address)
	psf, ok := loaded.TargetProperty.PricePerArea()
	assert.True(t, ok)
	assert.Equal(t, 7_190_000.0/22_000, psf)

	history, err := d.ListAnalyses(ctx, 5)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.RunID, history[0].RunID)

	_, err = d.GetAnalysis(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) GeocodeAddress(ctx context.Context, address string) (orb.Point, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(orb.Point), args.Error(1)
}

func TestUpdateMissingCoordinates(t *testing.T) {
	d := setupTestDatabase(t)
	ctx := context.Background()

	located := testComparable("located", 1_000_000, 10_000, "2025-01-01", "Mixed-Use")
	located.Latitude = models.Float64Ptr(43.14)
	located.Longitude = models.Float64Ptr(-77.6)
	batch := []*models.Property{
		located,
		testComparable("found", 1_000_000, 10_000, "2025-01-02", "Mixed-Use"),
		testComparable("lost", 1_000_000, 10_000, "2025-01-03", "Mixed-Use"),
	}
	require.NoError(t, UpsertComparables(d.GetDB(), batch))

	geocoder := &MockGeocoder{}
	geocoder.On("GeocodeAddress", mock.Anything, "found").Return(orb.Point{-77.61, 43.13}, nil)
	geocoder.On("GeocodeAddress", mock.Anything, "lost").Return(orb.Point{}, errors.New("no results"))

	updated, err := d.UpdateMissingCoordinates(ctx, geocoder)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	geocoder.AssertExpectations(t)
	geocoder.AssertNotCalled(t, "GeocodeAddress", mock.Anything, "located")

	records, err := d.ListComparables(ctx, models.ComparableFilter{})
	require.NoError(t, err)
	byAddress := map[string]models.ComparableRecord{}
	for _, r := range records {
		byAddress[r.Address] = r
	}
	require.NotNil(t, byAddress["found"].Latitude)
	assert.Equal(t, 43.13, *byAddress["found"].Latitude)
	assert.Equal(t, -77.61, *byAddress["found"].Longitude)
	assert.Nil(t, byAddress["lost"].Latitude)
}
