package comps

import (
	"context"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"propertyscout/internal/analyzer"
	"propertyscout/internal/models"
)

const metersPerMile = 1609.344

// Store is the read side of the comparables table.
type Store interface {
	ListComparables(ctx context.Context, filter models.ComparableFilter) ([]models.ComparableRecord, error)
}

// Geocoder resolves an address to a point.
type Geocoder interface {
	GeocodeAddress(ctx context.Context, address string) (orb.Point, error)
}

type StoreOptions struct {
	PropertyTypes    []string
	MaxDistanceMiles float64
	Limit            int
}

// StoreProvider serves comparables from storage, nearest first when
// distances are known.
type StoreProvider struct {
	store    Store
	geocoder Geocoder
	logger   *logrus.Logger
	opts     StoreOptions
}

var _ analyzer.ComparableProvider = (*StoreProvider)(nil)

// NewStoreProvider creates a store-backed provider. geocoder may be nil.
func NewStoreProvider(store Store, geocoder Geocoder, logger *logrus.Logger, opts StoreOptions) *StoreProvider {
	return &StoreProvider{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
		opts:     opts,
	}
}

func (p *StoreProvider) Comparables(ctx context.Context, target models.Property) ([]models.Property, error) {
	records, err := p.store.ListComparables(ctx, models.ComparableFilter{PropertyTypes: p.opts.PropertyTypes})
	if err != nil {
		return nil, fmt.Errorf("failed to list comparables: %w", err)
	}

	if len(records) == 0 {
		return []models.Property{}, nil
	}

	origin, hasOrigin := p.origin(ctx, target)

	result := make([]models.Property, 0, len(records))
	for _, r := range records {
		if r.Address == target.Address {
			continue
		}
		comp := r.ToProperty()
		if hasOrigin && comp.HasCoordinates() {
			meters := geo.Distance(origin, orb.Point{*comp.Longitude, *comp.Latitude})
			comp = comp.WithDistance(models.Round(meters/metersPerMile, 2))
		}
		if p.opts.MaxDistanceMiles > 0 && comp.DistanceMiles != nil && *comp.DistanceMiles > p.opts.MaxDistanceMiles {
			continue
		}
		result = append(result, comp)
	}

	sort.SliceStable(result, func(i, j int) bool {
		di, dj := result[i].DistanceMiles, result[j].DistanceMiles
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})

	if p.opts.Limit > 0 && len(result) > p.opts.Limit {
		result = result[:p.opts.Limit]
	}

	p.logger.WithFields(logrus.Fields{
		"target":      target.Address,
		"comparables": len(result),
	}).Debug("Loaded comparables from store")
	return result, nil
}

func (p *StoreProvider) origin(ctx context.Context, target models.Property) (orb.Point, bool) {
	if target.HasCoordinates() {
		return orb.Point{*target.Longitude, *target.Latitude}, true
	}
	if p.geocoder == nil || target.Address == "" {
		return orb.Point{}, false
	}
	point, err := p.geocoder.GeocodeAddress(ctx, target.Address)
	if err != nil {
		p.logger.WithError(err).WithField("address", target.Address).Warn("Could not geocode target, distances unavailable")
		return orb.Point{}, false
	}
	return point, true
}
