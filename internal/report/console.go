package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"propertyscout/internal/models"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Console prints analyses and parcel lookups for a terminal.
type Console struct {
	w      io.Writer
	colors bool
}

func NewConsole(w io.Writer, colors bool) *Console {
	return &Console{w: w, colors: colors}
}

func (c *Console) paint(color, s string) string {
	if !c.colors {
		return s
	}
	return color + s + ColorReset
}

func (c *Console) tierColor(tier models.RecommendationTier) string {
	switch tier {
	case models.TierStrongBuy:
		return ColorGreen
	case models.TierConsider:
		return ColorYellow
	default:
		return ColorRed
	}
}

// Header prints the analysis banner.
func (c *Console) Header() {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w, c.paint(ColorBold, "ROCHESTER PROPERTY INVESTMENT ANALYSIS"))
	fmt.Fprintln(c.w, rule)
}

// Scenario prints one analysed asking-price scenario with its top three comparables.
func (c *Console) Scenario(n int, a *models.InvestmentAnalysis) {
	pa := a.PriceAnalysis
	rec := a.Recommendations

	fmt.Fprintf(c.w, "\n📊 SCENARIO %d: %s Asking Price\n", n, millions(pa.AskingPrice))
	fmt.Fprintf(c.w, "\n🎯 Investment Score: %s\n", c.paint(c.tierColor(rec.Tier), fmt.Sprintf("%d/100", a.InvestmentScore)))
	fmt.Fprintf(c.w, "💰 Asking: %s\n", models.FormatUSD(pa.AskingPrice))
	fmt.Fprintf(c.w, "📐 Price/SF: $%.2f\n", pa.AskingPricePSF)
	fmt.Fprintf(c.w, "📈 Avg Comp PSF: $%.2f\n", pa.AvgCompPricePSF)
	fmt.Fprintf(c.w, "📏 Estimated Value: %s - %s (%+.1f%%)\n",
		models.FormatUSD(pa.EstimatedValueRange.Low), models.FormatUSD(pa.EstimatedValueRange.High), pa.ValueVariancePct)
	fmt.Fprintf(c.w, "💡 Recommendation: %s\n", c.paint(c.tierColor(rec.Tier), rec.Action))
	if rec.SuggestedCounterOffer > 0 {
		fmt.Fprintf(c.w, "🤝 Suggested Counter: %s\n", models.FormatUSD(rec.SuggestedCounterOffer))
	}
	for _, insight := range rec.KeyInsights {
		fmt.Fprintf(c.w, "   • %s\n", insight)
	}

	top := a.ComparableProperties
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) == 0 {
		return
	}

	fmt.Fprintln(c.w, "\n🏘️  Top 3 Comparable Properties:")
	for i, comp := range top {
		psf, _ := comp.PricePerArea()
		fmt.Fprintf(c.w, "\n  %d. %s\n", i+1, comp.Address)
		fmt.Fprintf(c.w, "     Sold: %s on %s\n", models.FormatUSD(comp.Price), orNA(comp.SaleDate))
		fmt.Fprintf(c.w, "     PSF: $%.2f | Cap: %s%% | Units: %s\n", psf, floatOrNA(comp.CapRate), intOrNA(comp.Units))
		fmt.Fprintf(c.w, "     Distance: %s mi\n", floatOrNA(comp.DistanceMiles))
	}
}

// Saved prints where a report was written.
func (c *Console) Saved(path string) {
	fmt.Fprintf(c.w, "\n\n%s Full report saved to: %s\n", c.paint(ColorGreen, "✅"), path)
}

// Parcels prints the result of a parcel lookup for address.
func (c *Console) Parcels(address string, parcels []models.Parcel) {
	if len(parcels) == 0 {
		fmt.Fprintf(c.w, "❌ No property found for '%s'. Try just the street name.\n", address)
		return
	}

	fmt.Fprintf(c.w, "\n%s Found %d match(es):\n", c.paint(ColorGreen, "✅"), len(parcels))
	for _, p := range parcels {
		fmt.Fprintln(c.w, "---")
		fmt.Fprintf(c.w, "📍 Address: %s\n", p.SiteAddress)
		fmt.Fprintf(c.w, "👤 Owner:   %s\n", p.OwnerName)
		fmt.Fprintf(c.w, "💰 Value:   %s\n", usdOrNA(p.CurrentTotalValue))
		fmt.Fprintf(c.w, "🏷️ Sale:    %s\n", usdOrNA(p.SalePrice))
		fmt.Fprintf(c.w, "🏗️ Zoning:  %s\n", p.Zoning)
	}
	fmt.Fprint(c.w, "---\n\n")
}

// LookupError prints a failed parcel lookup.
func (c *Console) LookupError(err error) {
	fmt.Fprintf(c.w, "%s Connection Error: %v\n", c.paint(ColorYellow, "⚠️"), err)
}

func millions(v float64) string {
	return "$" + strconv.FormatFloat(models.Round(v/1_000_000, 2), 'f', -1, 64) + "M"
}

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func usdOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return models.FormatUSD(*v)
}
