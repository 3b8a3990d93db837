package entities

// WeatherAlert warns farmers of a location until ValidUntil (unix millis).
type WeatherAlert struct {
	Meta
	Location   string `json:"location"`
	AlertType  string `json:"alertType"` // drought, flood, frost, ...
	Severity   string `json:"severity"`  // low, medium, high
	Message    string `json:"message"`
	ValidUntil int64  `json:"validUntil"`
}
