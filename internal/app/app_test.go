package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyscout/config"
	"propertyscout/internal/comps"
	"propertyscout/internal/models"
)

func testApp(t *testing.T) *App {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "db", "scout.db"))
	t.Setenv("GEOCODER_CACHE_DIR", "")
	t.Setenv("GEOCODER_URL", "http://127.0.0.1:0")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	a, err := New(cfg, logrus.New())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewBuildsEngineWithFallback(t *testing.T) {
	a := testApp(t)

	target := models.NewTargetProperty("898 South Clinton Ave, Rochester NY 14620", 7_190_000, 22_000, 11)
	analysis, err := a.Engine.Analyze(context.Background(), target, 3_000_000)
	require.NoError(t, err)
	assert.Equal(t, 58, analysis.InvestmentScore)
	assert.Len(t, analysis.ComparableProperties, 4)
}

func TestProviderSources(t *testing.T) {
	a := testApp(t)

	p, err := a.Provider("static")
	require.NoError(t, err)
	assert.IsType(t, &comps.StaticProvider{}, p)

	p, err = a.Provider("db")
	require.NoError(t, err)
	got, err := p.Comparables(context.Background(), models.Property{Address: "x"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = a.Provider("zillow")
	assert.Error(t, err)
}

func TestStoredComparablesFeedAnalysis(t *testing.T) {
	a := testApp(t)
	a.StartProcessing()

	batch := make([]*models.Property, 0, 2)
	for _, c := range comps.ReferenceComparables()[:2] {
		c := c
		c.Latitude, c.Longitude, c.DistanceMiles = nil, nil, nil
		batch = append(batch, &c)
	}
	require.NoError(t, a.Queue.Push(batch))
	a.Queue.Wait()

	engine, err := a.NewEngine("db")
	require.NoError(t, err)

	target := models.NewTargetProperty("898 South Clinton Ave, Rochester NY 14620", 7_190_000, 22_000, 11)
	analysis, err := engine.Analyze(context.Background(), target, 3_000_000)
	require.NoError(t, err)
	assert.Len(t, analysis.ComparableProperties, 2)
}

func TestChecklistTargetDefault(t *testing.T) {
	a := testApp(t)
	assert.Equal(t, "South Clinton Village", a.ChecklistTarget().Name)
}
