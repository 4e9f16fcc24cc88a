package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPropertyDerivesPricePerArea(t *testing.T) {
	p := NewProperty(Property{Address: "a", Price: 3_000_000, Area: IntPtr(22_000)})
	psf, ok := p.PricePerArea()
	require.True(t, ok)
	assert.Equal(t, 136.36, psf)
	assert.Equal(t, DefaultPropertyType, p.PropertyType)

	noArea := NewProperty(Property{Address: "b", Price: 1_000_000})
	_, ok = noArea.PricePerArea()
	assert.False(t, ok)

	zeroArea := NewProperty(Property{Address: "c", Price: 1_000_000, Area: IntPtr(0)})
	_, ok = zeroArea.PricePerArea()
	assert.False(t, ok)
}

func TestNewTargetProperty(t *testing.T) {
	p := NewTargetProperty("898 South Clinton Ave", 7_190_000, 22_000, 0)
	assert.Equal(t, TargetPropertyType, p.PropertyType)
	assert.Equal(t, 22_000, p.AreaValue())
	assert.Nil(t, p.Units)

	psf, ok := p.PricePerArea()
	require.True(t, ok)
	assert.Equal(t, 7_190_000.0/22_000, psf)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price_per_sf":326.8181818181818`)

	noArea := NewTargetProperty("x", 1_000_000, 0, 0)
	_, ok = noArea.PricePerArea()
	assert.False(t, ok)
}

func TestInvestmentAnalysisJSONKeepsTargetPricePerArea(t *testing.T) {
	a := InvestmentAnalysis{
		TargetProperty:       NewTargetProperty("898 South Clinton Ave", 7_190_000, 22_000, 11),
		ComparableProperties: []Property{NewProperty(Property{Address: "c", Price: 1_000_001, Area: IntPtr(3)})},
	}
	data, err := json.Marshal(a)
	require.NoError(t, err)

	var loaded InvestmentAnalysis
	require.NoError(t, json.Unmarshal(data, &loaded))
	psf, ok := loaded.TargetProperty.PricePerArea()
	require.True(t, ok)
	assert.Equal(t, 7_190_000.0/22_000, psf)

	compPSF, ok := loaded.ComparableProperties[0].PricePerArea()
	require.True(t, ok)
	assert.Equal(t, 333333.67, compPSF)
}

func TestPropertyJSON(t *testing.T) {
	p := NewProperty(Property{
		Address:  "725 South Ave",
		Price:    3_200_000,
		Area:     IntPtr(21_000),
		Units:    IntPtr(14),
		CapRate:  Float64Ptr(6.5),
		SaleDate: StringPtr("2025-06-30"),
	}).WithDistance(0.7)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, 152.38, raw["price_per_sf"])
	assert.Equal(t, 21_000.0, raw["square_feet"])
	assert.Equal(t, 0.7, raw["distance_miles"])
	assert.NotContains(t, raw, "latitude")

	var back Property
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, p, back)
}

func TestPropertyUnmarshalIgnoresPricePerArea(t *testing.T) {
	var p Property
	require.NoError(t, json.Unmarshal([]byte(`{"address":"x","price":1000000,"square_feet":10000,"price_per_sf":999}`), &p))

	psf, ok := p.PricePerArea()
	require.True(t, ok)
	assert.Equal(t, 100.0, psf)
	assert.Equal(t, DefaultPropertyType, p.PropertyType)
}

func TestValidateComparable(t *testing.T) {
	assert.NoError(t, ValidateComparable(Property{Address: "1 Main St", Price: 1}))

	err := ValidateComparable(Property{Address: "  ", Price: 1_000_000})
	assert.ErrorIs(t, err, ErrInvalidComparable)
	assert.Contains(t, err.Error(), "address")

	err = ValidateComparable(Property{Address: "1 Main St", Price: 0})
	assert.ErrorIs(t, err, ErrInvalidComparable)
	assert.Contains(t, err.Error(), "price")
}
