package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"propertyscout/internal/models"
)

const timestampLayout = "20060102_150405"

// ScenarioKey names an asking-price scenario in millions, e.g. 3,000,000 ->
// "scenario_3m" and 7,190,000 -> "scenario_7.19m".
func ScenarioKey(askingPrice float64) string {
	millions := models.Round(askingPrice/1_000_000, 2)
	return "scenario_" + strconv.FormatFloat(millions, 'f', -1, 64) + "m"
}

// ErrDuplicateScenario is returned when two asking prices share a scenario key.
var ErrDuplicateScenario = errors.New("duplicate asking-price scenario")

// CheckScenarios rejects asking prices whose scenario keys collide, so no
// scenario in a report overwrites another.
func CheckScenarios(askingPrices []float64) error {
	seen := make(map[string]bool, len(askingPrices))
	for _, p := range askingPrices {
		key := ScenarioKey(p)
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateScenario, key)
		}
		seen[key] = true
	}
	return nil
}

// InvestmentReportName is the file name for a report generated at now.
func InvestmentReportName(now time.Time) string {
	return fmt.Sprintf("investment_report_%s.json", now.Format(timestampLayout))
}

// BuildInvestmentReport keys each analysis by its asking-price scenario.
func BuildInvestmentReport(analyses []*models.InvestmentAnalysis) map[string]*models.InvestmentAnalysis {
	out := make(map[string]*models.InvestmentAnalysis, len(analyses))
	for _, a := range analyses {
		if a == nil {
			continue
		}
		out[ScenarioKey(a.PriceAnalysis.AskingPrice)] = a
	}
	return out
}

// WriteInvestmentReport writes the scenarios as indented JSON under dir and
// returns the file path.
func WriteInvestmentReport(dir string, analyses []*models.InvestmentAnalysis, now time.Time) (string, error) {
	return writeJSON(dir, InvestmentReportName(now), BuildInvestmentReport(analyses))
}

func writeJSON(dir, name string, v interface{}) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
