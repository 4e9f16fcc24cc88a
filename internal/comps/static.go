package comps

import (
	"context"

	"propertyscout/internal/analyzer"
	"propertyscout/internal/models"
)

// StaticProvider returns a fixed comparable set regardless of the target.
type StaticProvider struct {
	comps []models.Property
}

var _ analyzer.ComparableProvider = (*StaticProvider)(nil)

// NewStaticProvider creates a provider over comps. The slice is copied.
func NewStaticProvider(comps []models.Property) *StaticProvider {
	return &StaticProvider{comps: append([]models.Property(nil), comps...)}
}

// NewReferenceProvider returns the Rochester 14620 reference comparables.
func NewReferenceProvider() *StaticProvider {
	return NewStaticProvider(ReferenceComparables())
}

// Comparables returns a copy of the fixed set.
func (p *StaticProvider) Comparables(_ context.Context, _ models.Property) ([]models.Property, error) {
	return append([]models.Property(nil), p.comps...), nil
}

// ReferenceComparables returns recent mixed-use and multi-family sales near
// South Clinton Ave, Rochester NY 14620.
func ReferenceComparables() []models.Property {
	return []models.Property{
		reference("1000 S Clinton Ave, Rochester NY 14620", 2_750_000, 18_500, 12, 6.8, "2025-08-15", "Mixed-Use", 0.2),
		reference("450 Gregory St, Rochester NY 14620", 1_950_000, 14_200, 8, 7.1, "2025-10-22", "Multi-Family", 0.5),
		reference("725 South Ave, Rochester NY 14620", 3_200_000, 21_000, 14, 6.5, "2025-06-30", "Mixed-Use", 0.7),
		reference("320 Highland Ave, Rochester NY 14620", 2_100_000, 15_800, 10, 7.3, "2025-11-18", "Multi-Family", 0.9),
	}
}

func reference(address string, price float64, sf, units int, capRate float64, saleDate, propertyType string, miles float64) models.Property {
	return models.NewProperty(models.Property{
		Address:       address,
		Price:         price,
		Area:          models.IntPtr(sf),
		Units:         models.IntPtr(units),
		CapRate:       models.Float64Ptr(capRate),
		SaleDate:      models.StringPtr(saleDate),
		PropertyType:  propertyType,
		DistanceMiles: models.Float64Ptr(miles),
	})
}
