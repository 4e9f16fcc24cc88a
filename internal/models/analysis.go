package models

import (
	"encoding/json"
	"time"
)

// RecommendationTier is the bucket an investment score falls into.
type RecommendationTier string

const (
	TierStrongBuy RecommendationTier = "strong_buy"
	TierConsider  RecommendationTier = "consider"
	TierPass      RecommendationTier = "pass"
)

// Action texts shown for each tier.
const (
	ActionStrongBuy = "STRONG BUY - Property is undervalued relative to comps"
	ActionConsider  = "CONSIDER - Fair market value, negotiate terms"
	ActionPass      = "PASS - Overpriced for market conditions"
)

// Action returns the human readable action for the tier.
func (t RecommendationTier) Action() string {
	switch t {
	case TierStrongBuy:
		return ActionStrongBuy
	case TierConsider:
		return ActionConsider
	default:
		return ActionPass
	}
}

type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Midpoint returns the centre of the range.
func (r ValueRange) Midpoint() float64 {
	return (r.Low + r.High) / 2
}

// ScoreBreakdown holds the additive parts of an investment score.
type ScoreBreakdown struct {
	PriceScore        int `json:"price_score"`
	CapRateScore      int `json:"cap_rate_score"`
	LocationScore     int `json:"location_score"`
	MarketTimingScore int `json:"market_timing_score"`
	Total             int `json:"total"`
}

type PriceAnalysis struct {
	AskingPrice         float64    `json:"asking_price"`
	AskingPricePSF      float64    `json:"asking_price_psf"`
	AvgCompPricePSF     float64    `json:"avg_comp_price_psf"`
	EstimatedValueRange ValueRange `json:"estimated_value_range"`
	ValueVariancePct    float64    `json:"value_variance_pct"`
}

type Recommendations struct {
	Tier                  RecommendationTier `json:"tier"`
	Action                string             `json:"action"`
	SuggestedCounterOffer float64            `json:"suggested_counter_offer"`
	KeyInsights           []string           `json:"key_insights"`
}

// InvestmentAnalysis is the result of one analysis run.
type InvestmentAnalysis struct {
	InvestmentScore      int             `json:"investment_score"`
	ScoreBreakdown       ScoreBreakdown  `json:"score_breakdown"`
	TargetProperty       Property        `json:"target_property"`
	ComparableProperties []Property      `json:"comparable_properties"`
	PriceAnalysis        PriceAnalysis   `json:"price_analysis"`
	Recommendations      Recommendations `json:"recommendations"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// UnmarshalJSON restores a stored analysis; the target keeps its unrounded
// price per square foot.
func (a *InvestmentAnalysis) UnmarshalJSON(data []byte) error {
	type analysis InvestmentAnalysis
	var raw analysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = InvestmentAnalysis(raw)
	a.TargetProperty = sealTarget(a.TargetProperty)
	return nil
}
