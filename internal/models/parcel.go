package models

// Parcel is a municipal tax parcel record returned by the GIS lookup.
type Parcel struct {
	SiteAddress       string   `json:"site_address"`
	OwnerName         string   `json:"owner_name"`
	CurrentTotalValue *float64 `json:"current_total_value"`
	SalePrice         *float64 `json:"sale_price"`
	Zoning            string   `json:"zoning"`
}
