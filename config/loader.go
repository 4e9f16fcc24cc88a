package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"propertyscout/internal/models"
)

// scoringFile is the layout of the SCORING_FILE document. Keys left out
// keep the values already loaded from the environment.
type scoringFile struct {
	Scoring struct {
		BaselineCapRate    *float64  `yaml:"baseline_cap_rate"`
		LocationScore      *int      `yaml:"location_score"`
		MarketTimingScore  *int      `yaml:"market_timing_score"`
		StrongBuyThreshold *int      `yaml:"strong_buy_threshold"`
		ConsiderThreshold  *int      `yaml:"consider_threshold"`
		StaticInsights     *[]string `yaml:"static_insights"`
	} `yaml:"scoring"`
	Checklist struct {
		Target *models.ListingTarget `yaml:"target"`
	} `yaml:"checklist"`
}

// LoadScoringFile applies the YAML overrides at path.
func (c *Config) LoadScoringFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read scoring file: %w", err)
	}

	var doc scoringFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse scoring file: %w", err)
	}

	s := doc.Scoring
	if s.BaselineCapRate != nil {
		c.Scoring.BaselineCapRate = *s.BaselineCapRate
	}
	if s.LocationScore != nil {
		c.Scoring.LocationScore = *s.LocationScore
	}
	if s.MarketTimingScore != nil {
		c.Scoring.MarketTimingScore = *s.MarketTimingScore
	}
	if s.StrongBuyThreshold != nil {
		c.Scoring.StrongBuyThreshold = *s.StrongBuyThreshold
	}
	if s.ConsiderThreshold != nil {
		c.Scoring.ConsiderThreshold = *s.ConsiderThreshold
	}
	if s.StaticInsights != nil {
		c.staticInsights = append([]string{}, (*s.StaticInsights)...)
	}
	if doc.Checklist.Target != nil {
		c.target = doc.Checklist.Target
	}
	return nil
}
