package messages

import "time"

// MarketPriceEvent is published when a new mandi quote is recorded.
type MarketPriceEvent struct {
	Crop      string    `json:"crop"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Market    string    `json:"market"`
	Trend     string    `json:"trend"`
	Timestamp time.Time `json:"timestamp"`
}
