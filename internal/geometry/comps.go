package geometry

import (
	"sort"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"propertyscout/internal/models"
)

// CompsFeatureCollection builds a map layer for a comparable set: one point
// per geocoded comparable, the target point when it has coordinates, and the
// convex hull of the comparables when at least three are located.
func CompsFeatureCollection(target *models.Property, comps []models.Property, now time.Time) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	points := make([]orb.Point, 0, len(comps))
	for _, c := range comps {
		if !c.HasCoordinates() {
			continue
		}
		pt := orb.Point{*c.Longitude, *c.Latitude}
		points = append(points, pt)

		feature := geojson.NewFeature(pt)
		feature.Properties = propertyProperties(c, "comparable")
		fc.Append(feature)
	}

	if target != nil && target.HasCoordinates() {
		feature := geojson.NewFeature(orb.Point{*target.Longitude, *target.Latitude})
		feature.Properties = propertyProperties(*target, "target")
		fc.Append(feature)
	}

	if hull := ConvexHull(points); hull != nil {
		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"role":        "comp_area",
			"point_count": len(points),
			"hull_type":   "convex",
			"generated":   now.Format(time.RFC3339),
		}
		fc.Append(feature)
	}

	return fc
}

func propertyProperties(p models.Property, role string) geojson.Properties {
	props := geojson.Properties{
		"role":          role,
		"address":       p.Address,
		"price":         p.Price,
		"property_type": p.PropertyType,
	}
	if psf, ok := p.PricePerArea(); ok {
		props["price_per_sf"] = psf
	}
	if p.SaleDate != nil {
		props["sale_date"] = *p.SaleDate
	}
	if p.DistanceMiles != nil {
		props["distance_miles"] = *p.DistanceMiles
	}
	return props
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// ConvexHull returns the closed counter-clockwise hull of points, or nil
// when fewer than three non-collinear points are given.
func ConvexHull(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}

	pts := append([]orb.Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	hull := make([]orb.Point, 0, 2*len(pts))
	// Lower hull
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper hull
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// The last point repeats the first, closing the ring.
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}
