package entities

// Trend of a market price.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// MarketPrice is a mandi quote for one crop.
type MarketPrice struct {
	Meta
	Crop   string  `json:"crop"`
	Price  float64 `json:"price"`
	Unit   string  `json:"unit"`   // e.g. "per quintal"
	Market string  `json:"market"` // e.g. "Delhi Mandi"
	Date   string  `json:"date"`   // YYYY-MM-DD
	Trend  Trend   `json:"trend"`
}
