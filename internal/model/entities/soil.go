package entities

// SoilReading is the input of a recommendation request.
// Values are taken as given: no range is enforced and nothing is clamped.
type SoilReading struct {
	Nitrogen          float64 `json:"nitrogen"`          // kg/ha
	Phosphorus        float64 `json:"phosphorus"`        // kg/ha
	Potassium         float64 `json:"potassium"`         // kg/ha
	PH                float64 `json:"ph"`                // 0-14 expected
	SoilMoisture      float64 `json:"soilMoisture"`      // % expected
	WaterAvailability float64 `json:"waterAvailability"` // % expected
	Location          string  `json:"location"`          // free text, may be empty
}
