package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultPropertyType is used when a property is built without a type.
const DefaultPropertyType = "Unknown"

// ErrInvalidComparable is returned by ValidateComparable.
var ErrInvalidComparable = errors.New("invalid comparable")

// TargetPropertyType is the category every analysed target is filed under.
const TargetPropertyType = "Mixed-Use"

// Property is a target or comparable property. Build it with NewProperty:
// the price per square foot is derived there once and is never settable afterwards.
type Property struct {
	Address       string
	Price         float64
	Area          *int
	Units         *int
	CapRate       *float64
	SaleDate      *string
	PropertyType  string
	DistanceMiles *float64
	Latitude      *float64
	Longitude     *float64

	pricePerArea *float64
}

// NewProperty seals p: it fills the default property type and derives the
// price per square foot from Price and Area.
func NewProperty(p Property) Property {
	if p.PropertyType == "" {
		p.PropertyType = DefaultPropertyType
	}
	p.pricePerArea = nil
	if p.Area != nil && *p.Area > 0 {
		psf := PricePerUnitArea(p.Price, *p.Area)
		p.pricePerArea = &psf
	}
	return p
}

// NewTargetProperty builds the property under analysis. Unlike comparables,
// its price per square foot is kept unrounded.
func NewTargetProperty(address string, price float64, area, units int) Property {
	p := Property{
		Address:      address,
		Price:        price,
		PropertyType: TargetPropertyType,
	}
	if area != 0 {
		p.Area = IntPtr(area)
	}
	if units != 0 {
		p.Units = IntPtr(units)
	}
	return sealTarget(p)
}

func sealTarget(p Property) Property {
	p = NewProperty(p)
	if p.Area != nil && *p.Area > 0 {
		psf := p.Price / float64(*p.Area)
		p.pricePerArea = &psf
	}
	return p
}

// ValidateComparable checks the fields a stored comparable needs.
func ValidateComparable(p Property) error {
	if strings.TrimSpace(p.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidComparable)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidComparable)
	}
	return nil
}

// PricePerArea returns the derived price per square foot and whether it is defined.
func (p Property) PricePerArea() (float64, bool) {
	if p.pricePerArea == nil {
		return 0, false
	}
	return *p.pricePerArea, true
}

// AreaValue returns the area or 0 when unknown.
func (p Property) AreaValue() int {
	if p.Area == nil {
		return 0
	}
	return *p.Area
}

// HasCoordinates reports whether both latitude and longitude are set.
func (p Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// WithDistance returns a copy of p with the distance from the target set.
func (p Property) WithDistance(miles float64) Property {
	p.DistanceMiles = Float64Ptr(miles)
	return p
}

type propertyJSON struct {
	Address       string   `json:"address"`
	Price         float64  `json:"price"`
	PricePerSF    *float64 `json:"price_per_sf"`
	SquareFeet    *int     `json:"square_feet"`
	Units         *int     `json:"units"`
	CapRate       *float64 `json:"cap_rate"`
	SaleDate      *string  `json:"sale_date"`
	PropertyType  string   `json:"property_type"`
	DistanceMiles *float64 `json:"distance_miles"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// MarshalJSON writes the property using the report field names.
func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(propertyJSON{
		Address:       p.Address,
		Price:         p.Price,
		PricePerSF:    p.pricePerArea,
		SquareFeet:    p.Area,
		Units:         p.Units,
		CapRate:       p.CapRate,
		SaleDate:      p.SaleDate,
		PropertyType:  p.PropertyType,
		DistanceMiles: p.DistanceMiles,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
	})
}

// UnmarshalJSON reads a property and re-derives price_per_sf from price and
// square_feet; an incoming price_per_sf is ignored.
func (p *Property) UnmarshalJSON(data []byte) error {
	var raw propertyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = NewProperty(Property{
		Address:       raw.Address,
		Price:         raw.Price,
		Area:          raw.SquareFeet,
		Units:         raw.Units,
		CapRate:       raw.CapRate,
		SaleDate:      raw.SaleDate,
		PropertyType:  raw.PropertyType,
		DistanceMiles: raw.DistanceMiles,
		Latitude:      raw.Latitude,
		Longitude:     raw.Longitude,
	})
	return nil
}

func IntPtr(v int) *int             { return &v }
func Float64Ptr(v float64) *float64 { return &v }
func StringPtr(v string) *string    { return &v }
