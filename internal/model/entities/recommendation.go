package entities

// Recommendation is the stored result of one scoring request.
type Recommendation struct {
	Meta
	UserID string `json:"userId"`
	SoilReading
	Latitude         *float64             `json:"latitude,omitempty"`
	Longitude        *float64             `json:"longitude,omitempty"`
	Region           string               `json:"region,omitempty"`
	Path             string               `json:"path"` // "rules" | "fallback"
	RecommendedCrops []CropRecommendation `json:"recommendedCrops"`
	WeatherData      *WeatherData         `json:"weatherData,omitempty"`
}

// WeatherData is a snapshot of current conditions at the reading coordinates.
type WeatherData struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	Rainfall    float64 `json:"rainfall"`    // mm, last hour
	Forecast    string  `json:"forecast"`
	LocalTime   string  `json:"localTime,omitempty"`
}
