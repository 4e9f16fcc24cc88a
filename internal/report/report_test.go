package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyscout/internal/analyzer"
	"propertyscout/internal/comps"
	"propertyscout/internal/models"
)

var fixedNow = time.Date(2026, 1, 15, 9, 30, 5, 0, time.UTC)

func analyze(t *testing.T, asking float64) *models.InvestmentAnalysis {
	engine := analyzer.NewEngine(comps.NewReferenceProvider(), analyzer.DefaultParams())
	engine.SetClock(func() time.Time { return fixedNow })

	target := models.NewTargetProperty("898 South Clinton Ave, Rochester NY 14620", 7_190_000, 22_000, 11)
	a, err := engine.Analyze(context.Background(), target, asking)
	require.NoError(t, err)
	return a
}

func TestScenarioKey(t *testing.T) {
	assert.Equal(t, "scenario_3m", ScenarioKey(3_000_000))
	assert.Equal(t, "scenario_7.19m", ScenarioKey(7_190_000))
	assert.Equal(t, "scenario_2.5m", ScenarioKey(2_500_000))
}

func TestCheckScenarios(t *testing.T) {
	assert.NoError(t, CheckScenarios([]float64{3_000_000, 7_190_000}))

	err := CheckScenarios([]float64{3_000_000, 7_190_000, 3_001_000})
	assert.True(t, errors.Is(err, ErrDuplicateScenario))
	assert.Contains(t, err.Error(), "scenario_3m")
}

func TestWriteInvestmentReport(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteInvestmentReport(dir, []*models.InvestmentAnalysis{analyze(t, 3_000_000), analyze(t, 7_190_000)}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "investment_report_20260115_093005.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "scenario_3m")
	require.Contains(t, doc, "scenario_7.19m")

	scenario := doc["scenario_3m"]
	for _, key := range []string{"investment_score", "target_property", "comparable_properties", "price_analysis", "recommendations", "generated_at"} {
		assert.Contains(t, scenario, key)
	}

	var score int
	require.NoError(t, json.Unmarshal(scenario["investment_score"], &score))
	assert.Equal(t, 58, score)

	var comps []models.Property
	require.NoError(t, json.Unmarshal(scenario["comparable_properties"], &comps))
	assert.Len(t, comps, 4)
}

func TestGenerateChecklist(t *testing.T) {
	r := GenerateChecklist(DefaultTarget(), nil, fixedNow)

	assert.Equal(t, "South Clinton Village", r.ReportMetadata.TargetProperty.Name)
	lv := r.Findings.Task1.ListingVerification
	assert.Nil(t, lv.Price)
	assert.Nil(t, lv.URL)
	assert.Equal(t, "UNKNOWN", lv.Status)
	assert.Equal(t, "$7.19M", lv.ConflictingData.ReportedAsking)
	assert.Equal(t, SearchDomains, lv.SearchDomains)

	assert.Equal(t, "14620", r.Findings.Task2.SearchCriteria.Zip)
	assert.NotNil(t, r.Findings.Task2.CompsTable)
	assert.Empty(t, r.Findings.Task2.CompsTable)

	assert.Equal(t, "Mark Chiarenza", r.Findings.Task3.BrokerHistory.Agent)
	assert.Equal(t, "Benchmark Realty Advisors", r.Findings.Task3.BrokerHistory.Firm)
	require.Len(t, r.Recommendations.NextSteps, 5)
	assert.Equal(t, "Contact Mark Chiarenza for listing details", r.Recommendations.NextSteps[0])
}

func TestWriteChecklist(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteChecklist(dir, GenerateChecklist(DefaultTarget(), comps.ReferenceComparables(), fixedNow))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rochester_report_20260115_093005.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Findings struct {
			Task1 struct {
				ListingVerification map[string]interface{} `json:"listing_verification"`
			} `json:"task_1"`
			Task2 struct {
				CompsTable []map[string]interface{} `json:"comps_table"`
			} `json:"task_2"`
		} `json:"findings"`
		Recommendations struct {
			NextSteps []string `json:"next_steps"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	lv := doc.Findings.Task1.ListingVerification
	assert.Contains(t, lv, "price")
	assert.Nil(t, lv["price"])
	assert.Len(t, doc.Findings.Task2.CompsTable, 4)
	assert.Equal(t, 148.65, doc.Findings.Task2.CompsTable[0]["price_per_sf"])
	assert.Len(t, doc.Recommendations.NextSteps, 5)
}

func TestConsoleScenario(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	c.Header()
	c.Scenario(1, analyze(t, 3_000_000))

	out := buf.String()
	assert.Contains(t, out, "ROCHESTER PROPERTY INVESTMENT ANALYSIS")
	assert.Contains(t, out, "SCENARIO 1: $3M Asking Price")
	assert.Contains(t, out, "Investment Score: 58/100")
	assert.Contains(t, out, "Asking: $3,000,000")
	assert.Contains(t, out, "Price/SF: $136.36")
	assert.Contains(t, out, "Recommendation: "+models.ActionConsider)
	assert.Contains(t, out, "Suggested Counter: $2,850,000")
	assert.Contains(t, out, "1. 1000 S Clinton Ave, Rochester NY 14620")
	assert.Contains(t, out, "Sold: $2,750,000 on 2025-08-15")
	assert.Contains(t, out, "PSF: $148.65 | Cap: 6.8% | Units: 12")
	assert.NotContains(t, out, "320 Highland Ave")
	assert.NotContains(t, out, ColorReset)
}

func TestConsoleParcels(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	c.Parcels("nowhere", nil)
	assert.Contains(t, buf.String(), "No property found for 'nowhere'")

	buf.Reset()
	c.Parcels("church", []models.Parcel{{
		SiteAddress:       "30 CHURCH ST",
		OwnerName:         "CITY OF ROCHESTER",
		CurrentTotalValue: models.Float64Ptr(1_250_000),
		Zoning:            "CCD-B",
	}})
	out := buf.String()
	assert.Contains(t, out, "Found 1 match(es)")
	assert.Contains(t, out, "Value:   $1,250,000")
	assert.Contains(t, out, "Sale:    N/A")

	buf.Reset()
	c.LookupError(errors.New("timeout"))
	assert.Contains(t, buf.String(), "Connection Error: timeout")
}
