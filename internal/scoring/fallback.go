package scoring

import (
	"math"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

const (
	// partialCredit is the share of a weight granted when a sub-condition fails.
	// Pending product review: it keeps fallback confidences from looking near zero.
	partialCredit = 0.4

	minFallbackConfidence = 0.35
	maxFallbackConfidence = 0.82
)

// Condition is one weighted sub-condition of a fallback crop.
type Condition struct {
	Weight float64
	Met    func(entities.SoilReading) bool
}

// FallbackRule scores a crop with partial credit when no strict rule matched.
type FallbackRule struct {
	Crop       string
	PriceKey   string
	Profit     int
	Conditions []Condition
	Advice     Advice
}

// Confidence sums the weighted conditions left to right and clamps the total.
func (f FallbackRule) Confidence(r entities.SoilReading) float64 {
	total := 0.0
	for _, c := range f.Conditions {
		total += score(c.Met != nil && c.Met(r), c.Weight)
	}
	return clampConfidence(total)
}

// GenerateFallback always returns one entry per fallback rule, in rule order.
func GenerateFallback(rules []FallbackRule, r entities.SoilReading, prices RegionPrices) []entities.CropRecommendation {
	out := make([]entities.CropRecommendation, 0, len(rules))
	for _, f := range rules {
		out = append(out, recommendation(f.Crop, f.Confidence(r), withPrice(prices, f.PriceKey, f.Profit), f.Advice))
	}
	return out
}

func score(met bool, weight float64) float64 {
	if met {
		return weight
	}
	return weight * partialCredit
}

func clampConfidence(x float64) float64 {
	return math.Max(minFallbackConfidence, math.Min(maxFallbackConfidence, x))
}

// DefaultFallback lists the six fallback crops in output order.
func DefaultFallback() []FallbackRule {
	neutralPH := func(s entities.SoilReading) bool { return between(s.PH, 6.0, 7.5) }
	return []FallbackRule{
		{
			Crop: "Wheat", Profit: 38000,
			Conditions: []Condition{
				{0.35, neutralPH},
				{0.35, func(s entities.SoilReading) bool { return s.Nitrogen >= 35 }},
				{0.3, func(s entities.SoilReading) bool { return s.SoilMoisture >= 25 }},
			},
			Advice: Advice{
				Explanation:      "Wheat grows well in moderate nitrogen conditions with balanced pH levels.",
				WaterUsage:       "Medium (450-650mm)",
				FertilizerAdvice: "Apply balanced NPK fertilizer. Use DAP during sowing.",
				IrrigationAdvice: "Water at crown root initiation and grain filling stages",
			},
		},
		{
			Crop: "Pulses (Lentils)", PriceKey: "Pulses", Profit: 42000,
			Conditions: []Condition{
				{0.4, neutralPH},
				{0.3, func(s entities.SoilReading) bool { return s.Potassium >= 120 }},
				{0.3, func(s entities.SoilReading) bool { return s.WaterAvailability >= 25 }},
			},
			Advice: Advice{
				Explanation:      "Pulses fix their own nitrogen and prefer neutral pH with adequate potassium.",
				WaterUsage:       "Low (300-400mm)",
				FertilizerAdvice: "Minimal nitrogen, focus on phosphorus and potassium.",
				IrrigationAdvice: "Water during pod filling stage, avoid waterlogging.",
			},
		},
		{
			Crop: "Soybean", Profit: 48000,
			Conditions: []Condition{
				{0.4, neutralPH},
				{0.3, func(s entities.SoilReading) bool { return s.SoilMoisture >= 30 }},
				{0.3, func(s entities.SoilReading) bool { return s.WaterAvailability >= 35 }},
			},
			Advice: Advice{
				Explanation:      "Soybean is a nitrogen-fixing legume that thrives in well-drained soils.",
				WaterUsage:       "Medium (450-700mm)",
				FertilizerAdvice: "Low nitrogen, moderate phosphorus and potassium.",
				IrrigationAdvice: "Critical water need during flowering and pod filling.",
			},
		},
		{
			Crop: "Maize", PriceKey: "Maize", Profit: 35000,
			Conditions: []Condition{
				{0.4, func(s entities.SoilReading) bool { return between(s.PH, 5.8, 8.6) }},
				{0.3, func(s entities.SoilReading) bool { return s.Phosphorus >= 15 }},
				{0.3, func(s entities.SoilReading) bool { return s.WaterAvailability >= 30 }},
			},
			Advice: Advice{
				Explanation:      "Maize requires good phosphorus and balanced pH.",
				WaterUsage:       "Medium (500-800mm)",
				FertilizerAdvice: "Use high-nitrogen fertilizers during vegetative growth.",
				IrrigationAdvice: "Regular irrigation during silking and grain filling stages.",
			},
		},
		{
			Crop: "Rice", PriceKey: "Rice", Profit: 45000,
			Conditions: []Condition{
				{0.35, func(s entities.SoilReading) bool { return between(s.PH, 5.5, 7.0) }},
				{0.4, func(s entities.SoilReading) bool { return s.WaterAvailability >= 60 }},
				{0.25, func(s entities.SoilReading) bool { return s.SoilMoisture >= 30 }},
			},
			Advice: Advice{
				Explanation:      "Rice thrives in nitrogen-rich, well-watered conditions with moderate soil moisture.",
				WaterUsage:       "High (1500-2000mm)",
				FertilizerAdvice: "Use organic compost and bio-fertilizers. Apply NPK in 4:2:1 ratio.",
				IrrigationAdvice: "Maintain 2-5cm water level throughout growing season.",
			},
		},
		{
			Crop: "Cotton", Profit: 65000,
			Conditions: []Condition{
				{0.4, func(s entities.SoilReading) bool { return s.Potassium >= 150 }},
				{0.3, func(s entities.SoilReading) bool { return s.WaterAvailability >= 45 }},
				{0.3, func(s entities.SoilReading) bool { return between(s.PH, 6.0, 8.0) }},
			},
			Advice: Advice{
				Explanation:      "Cotton needs high potassium for fiber development and adequate water.",
				WaterUsage:       "High (700-1300mm)",
				FertilizerAdvice: "Focus on potassium-rich fertilizers during boll development.",
				IrrigationAdvice: "Irrigate during flowering and boll formation.",
			},
		},
	}
}
