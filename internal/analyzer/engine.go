package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"propertyscout/internal/models"
)

var (
	// ErrInsufficientComparables is returned when comparables exist but none
	// has a price per square foot to average.
	ErrInsufficientComparables = errors.New("insufficient comparable data: no comparable has a price per square foot")

	// ErrInvalidAskingPrice is returned by Analyze for an asking price <= 0.
	ErrInvalidAskingPrice = errors.New("asking price must be positive")
)

// ComparableProvider supplies the comparable sales for a target.
type ComparableProvider interface {
	Comparables(ctx context.Context, target models.Property) ([]models.Property, error)
}

// Engine scores targets against comparables. It keeps no per-target state.
type Engine struct {
	params   Params
	provider ComparableProvider
	now      func() time.Time
}

// NewEngine creates a new engine
func NewEngine(provider ComparableProvider, params Params) *Engine {
	return &Engine{
		params:   params,
		provider: provider,
		now:      time.Now,
	}
}

// SetClock replaces the clock used for GeneratedAt.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Params returns the scoring parameters in use.
func (e *Engine) Params() Params {
	return e.params
}

// CapitalizationRate returns noi/price as a percentage rounded to two
// decimals, or 0 when price <= 0.
func CapitalizationRate(noi, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return models.Round(noi/price*100, 2)
}

// AveragePricePerArea averages the defined, non-zero price per square foot
// of comps.
func AveragePricePerArea(comps []models.Property) (float64, error) {
	var sum float64
	var n int
	for _, c := range comps {
		psf, ok := c.PricePerArea()
		if !ok || psf == 0 {
			continue
		}
		sum += psf
		n++
	}
	if n == 0 {
		return 0, ErrInsufficientComparables
	}
	return sum / float64(n), nil
}

// EstimateValueRange estimates the target's fair value from comps.
func EstimateValueRange(target models.Property, comps []models.Property) (models.ValueRange, error) {
	fallback := models.ValueRange{Low: target.Price * 0.85, High: target.Price * 1.15}
	if len(comps) == 0 {
		return fallback, nil
	}

	avg, err := AveragePricePerArea(comps)
	if err != nil {
		return models.ValueRange{}, err
	}

	area := target.AreaValue()
	if area <= 0 {
		return fallback, nil
	}
	return models.ValueRange{
		Low:  models.RoundToThousand(avg * 0.9 * float64(area)),
		High: models.RoundToThousand(avg * 1.1 * float64(area)),
	}, nil
}

// PriceScore awards up to 40 points for an asking PSF / comp PSF ratio.
func PriceScore(ratio float64) int {
	switch {
	case ratio <= 0.80:
		return 40
	case ratio <= 0.95:
		return 30
	case ratio <= 1.05:
		return 20
	case ratio <= 1.15:
		return 10
	default:
		return 0
	}
}

// CapRateScore awards up to 30 points for an estimated cap rate in percent.
func CapRateScore(rate float64) int {
	switch {
	case rate >= 8.0:
		return 30
	case rate >= 7.0:
		return 22
	case rate >= 6.0:
		return 15
	default:
		return 8
	}
}

// InvestmentScore computes the 0-100 score for buying target at askingPrice.
func (e *Engine) InvestmentScore(target models.Property, comps []models.Property, askingPrice float64) (models.ScoreBreakdown, error) {
	var b models.ScoreBreakdown

	if len(comps) > 0 {
		avg, err := AveragePricePerArea(comps)
		if err != nil {
			return models.ScoreBreakdown{}, err
		}
		if targetPSF := askingPricePerArea(target, askingPrice); targetPSF != 0 {
			b.PriceScore = PriceScore(targetPSF / avg)
		}
	}

	b.CapRateScore = CapRateScore(e.params.BaselineCapRate)
	b.LocationScore = e.params.LocationScore
	b.MarketTimingScore = e.params.MarketTimingScore

	total := b.PriceScore + b.CapRateScore + b.LocationScore + b.MarketTimingScore
	b.Total = max(0, min(total, MaxScore))
	return b, nil
}

// Analyze runs the full analysis of target at askingPrice.
func (e *Engine) Analyze(ctx context.Context, target models.Property, askingPrice float64) (*models.InvestmentAnalysis, error) {
	if askingPrice <= 0 {
		return nil, ErrInvalidAskingPrice
	}
	if e.provider == nil {
		return nil, errors.New("no comparable provider configured")
	}

	comps, err := e.provider.Comparables(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to load comparables: %w", err)
	}

	valueRange, err := EstimateValueRange(target, comps)
	if err != nil {
		return nil, err
	}

	breakdown, err := e.InvestmentScore(target, comps, askingPrice)
	if err != nil {
		return nil, err
	}

	// An empty comparable set averages to zero; a non-empty set without
	// any PSF already failed above.
	var avgPSF float64
	if len(comps) > 0 {
		avgPSF, _ = AveragePricePerArea(comps)
	}

	priceAnalysis := models.PriceAnalysis{
		AskingPrice:         askingPrice,
		AskingPricePSF:      models.Round(askingPricePerArea(target, askingPrice), 2),
		AvgCompPricePSF:     models.Round(avgPSF, 2),
		EstimatedValueRange: valueRange,
		ValueVariancePct:    variancePct(askingPrice, valueRange),
	}

	tier := e.params.Tier(breakdown.Total)
	recommendations := models.Recommendations{
		Tier:                  tier,
		Action:                tier.Action(),
		SuggestedCounterOffer: counterOffer(tier, askingPrice, valueRange),
		KeyInsights:           e.insights(priceAnalysis.ValueVariancePct, avgPSF),
	}

	return &models.InvestmentAnalysis{
		InvestmentScore:      breakdown.Total,
		ScoreBreakdown:       breakdown,
		TargetProperty:       target,
		ComparableProperties: comps,
		PriceAnalysis:        priceAnalysis,
		Recommendations:      recommendations,
		GeneratedAt:          e.now(),
	}, nil
}

func askingPricePerArea(target models.Property, askingPrice float64) float64 {
	area := target.AreaValue()
	if area <= 0 {
		return 0
	}
	return askingPrice / float64(area)
}

func variancePct(askingPrice float64, r models.ValueRange) float64 {
	mid := r.Midpoint()
	if mid == 0 {
		return 0
	}
	return models.Round((askingPrice-mid)/mid*100, 1)
}

func counterOffer(tier models.RecommendationTier, askingPrice float64, r models.ValueRange) float64 {
	switch tier {
	case models.TierStrongBuy:
		return models.RoundToThousand(askingPrice * 0.92)
	case models.TierConsider:
		return models.RoundToThousand(askingPrice * 0.95)
	default:
		return models.RoundToThousand(r.Low)
	}
}

func (e *Engine) insights(variance, avgPSF float64) []string {
	direction := "below"
	if variance > 0 {
		direction = "above"
	}
	insights := []string{
		fmt.Sprintf("Asking price is %s%% %s estimated value", strconv.FormatFloat(variance, 'f', 1, 64), direction),
		fmt.Sprintf("Average comparable PSF: $%.2f", avgPSF),
	}
	return append(insights, e.params.StaticInsights...)
}
