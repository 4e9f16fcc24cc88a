package analyzer

import (
	"fmt"

	"propertyscout/internal/models"
)

// Params holds the scoring inputs that are not derived from comparables.
type Params struct {
	// BaselineCapRate is the estimated cap rate (percent) used for the
	// cap-rate potential component.
	BaselineCapRate   float64  `yaml:"baseline_cap_rate"`
	LocationScore     int      `yaml:"location_score"`
	MarketTimingScore int      `yaml:"market_timing_score"`
	StrongBuyAt       int      `yaml:"strong_buy_threshold"`
	ConsiderAt        int      `yaml:"consider_threshold"`
	StaticInsights    []string `yaml:"static_insights"`
}

// Point budgets per component.
const (
	MaxPriceScore        = 40
	MaxCapRateScore      = 30
	MaxLocationScore     = 20
	MaxMarketTimingScore = 10
	MaxScore             = 100
)

// DefaultParams returns the Rochester mixed-use defaults.
func DefaultParams() Params {
	return Params{
		BaselineCapRate:   6.5,
		LocationScore:     15,
		MarketTimingScore: 8,
		StrongBuyAt:       70,
		ConsiderAt:        50,
		StaticInsights: []string{
			"4 strong comps found within 1 mile",
			"South Wedge location is desirable and appreciating",
		},
	}
}

// Validate validates the parameters
func (p Params) Validate() error {
	if p.BaselineCapRate < 0 {
		return fmt.Errorf("baseline cap rate cannot be negative")
	}
	if p.LocationScore < 0 || p.LocationScore > MaxLocationScore {
		return fmt.Errorf("location score must be between 0 and %d", MaxLocationScore)
	}
	if p.MarketTimingScore < 0 || p.MarketTimingScore > MaxMarketTimingScore {
		return fmt.Errorf("market timing score must be between 0 and %d", MaxMarketTimingScore)
	}
	if p.ConsiderAt <= 0 || p.ConsiderAt > p.StrongBuyAt || p.StrongBuyAt > MaxScore {
		return fmt.Errorf("invalid recommendation thresholds: consider=%d strong_buy=%d", p.ConsiderAt, p.StrongBuyAt)
	}
	return nil
}

// Tier maps a score onto a recommendation tier.
func (p Params) Tier(score int) models.RecommendationTier {
	switch {
	case score >= p.StrongBuyAt:
		return models.TierStrongBuy
	case score >= p.ConsiderAt:
		return models.TierConsider
	default:
		return models.TierPass
	}
}
