package models

import "time"

// ComparableRecord is the stored form of a comparable sale.
// Nullable columns use pointers so NULL survives the round trip.
type ComparableRecord struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Address       string   `gorm:"size:500;uniqueIndex;not null" json:"address"`
	Price         float64  `gorm:"not null" json:"price"`
	SquareFeet    *int     `gorm:"column:square_feet" json:"square_feet"`
	Units         *int     `json:"units"`
	CapRate       *float64 `json:"cap_rate"`
	SaleDate      *string  `gorm:"size:10;index" json:"sale_date"`
	PropertyType  string   `gorm:"size:100;index;default:'Unknown'" json:"property_type"`
	DistanceMiles *float64 `json:"distance_miles"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ComparableRecord) TableName() string {
	return "comparables"
}

// ToProperty converts the stored row into a sealed Property.
func (r ComparableRecord) ToProperty() Property {
	return NewProperty(Property{
		Address:       r.Address,
		Price:         r.Price,
		Area:          r.SquareFeet,
		Units:         r.Units,
		CapRate:       r.CapRate,
		SaleDate:      r.SaleDate,
		PropertyType:  r.PropertyType,
		DistanceMiles: r.DistanceMiles,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
	})
}

// ComparableRecordFromProperty builds a row from a property.
func ComparableRecordFromProperty(p Property) ComparableRecord {
	propertyType := p.PropertyType
	if propertyType == "" {
		propertyType = DefaultPropertyType
	}
	return ComparableRecord{
		Address:       p.Address,
		Price:         p.Price,
		SquareFeet:    p.Area,
		Units:         p.Units,
		CapRate:       p.CapRate,
		SaleDate:      p.SaleDate,
		PropertyType:  propertyType,
		DistanceMiles: p.DistanceMiles,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
	}
}

// AnalysisRecord is one persisted analysis run. Payload holds the full
// InvestmentAnalysis as JSON.
type AnalysisRecord struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	RunID        string             `gorm:"size:36;uniqueIndex;not null" json:"run_id"`
	Address      string             `gorm:"size:500;index" json:"address"`
	AskingPrice  float64            `json:"asking_price"`
	Score        int                `json:"investment_score"`
	Tier         RecommendationTier `gorm:"size:20" json:"tier"`
	ValueLow     float64            `json:"value_low"`
	ValueHigh    float64            `json:"value_high"`
	CounterOffer float64            `json:"suggested_counter_offer"`
	Payload      string             `gorm:"type:text" json:"-"`
	CreatedAt    time.Time          `gorm:"index" json:"created_at"`
}

func (AnalysisRecord) TableName() string {
	return "analyses"
}

// ComparableFilter narrows the comparables loaded from storage.
type ComparableFilter struct {
	PropertyTypes []string
	Limit         int
}
