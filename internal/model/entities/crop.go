package entities

// CropRecommendation is one ranked crop in a recommendation.
type CropRecommendation struct {
	Name             string  `json:"name"`
	Confidence       float64 `json:"confidence"`
	Explanation      string  `json:"explanation"`
	ProfitEstimate   int     `json:"profitEstimate"`
	WaterUsage       string  `json:"waterUsage"`
	FertilizerAdvice string  `json:"fertilizerAdvice"`
	IrrigationAdvice string  `json:"irrigationAdvice"`
}
