package comps

import (
	"context"

	"propertyscout/internal/analyzer"
	"propertyscout/internal/models"
)

// FallbackProvider serves from primary and switches to fallback when
// primary has no comparables for the target. Errors from primary are returned.
type FallbackProvider struct {
	primary  analyzer.ComparableProvider
	fallback analyzer.ComparableProvider
}

var _ analyzer.ComparableProvider = (*FallbackProvider)(nil)

func NewFallbackProvider(primary, fallback analyzer.ComparableProvider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback}
}

func (p *FallbackProvider) Comparables(ctx context.Context, target models.Property) ([]models.Property, error) {
	comps, err := p.primary.Comparables(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(comps) > 0 {
		return comps, nil
	}
	return p.fallback.Comparables(ctx, target)
}
