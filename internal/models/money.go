package models

import (
	"math"
	"strconv"
	"strings"
)

// Round rounds x to the given number of decimal places. Rounding is done on
// the exact decimal value of x with ties to even, so 142.815 (stored as
// 142.81499...) rounds to 142.81.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return v
}

// RoundToThousand rounds x to the nearest thousand, ties to even.
func RoundToThousand(x float64) float64 {
	return math.RoundToEven(x/1000) * 1000
}

// PricePerUnitArea returns price/area rounded to cents, or 0 when area <= 0.
func PricePerUnitArea(price float64, area int) float64 {
	if area <= 0 {
		return 0
	}
	return Round(price/float64(area), 2)
}

// FormatUSD renders x as whole dollars with thousands separators, e.g. $3,000,000.
func FormatUSD(x float64) string {
	rounded := math.Round(x)
	neg := rounded < 0
	digits := strconv.FormatFloat(math.Abs(rounded), 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
