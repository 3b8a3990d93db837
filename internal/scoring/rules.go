package scoring

import (
	"math"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// yieldQuintalsPerHa converts a price per quintal into a per-hectare profit baseline.
const yieldQuintalsPerHa = 20

// Advice is the fixed text attached to a crop.
type Advice struct {
	Explanation      string
	WaterUsage       string
	FertilizerAdvice string
	IrrigationAdvice string
}

// Rule is one crop eligibility rule. Confidence is a literal, not computed.
type Rule struct {
	Crop       string
	PriceKey   string // key in the region price table; "" keeps Profit fixed
	Confidence float64
	Profit     int // used when the region has no price for PriceKey
	Match      func(entities.SoilReading) bool
	Advice     Advice
}

// EvaluateRules returns one recommendation per matching rule, in rule order.
// Rules overlap on purpose: a reading may match several crops.
func EvaluateRules(rules []Rule, r entities.SoilReading, prices RegionPrices) []entities.CropRecommendation {
	var out []entities.CropRecommendation
	for _, rule := range rules {
		if rule.Match == nil || !rule.Match(r) {
			continue
		}
		out = append(out, recommendation(rule.Crop, rule.Confidence, withPrice(prices, rule.PriceKey, rule.Profit), rule.Advice))
	}
	return out
}

func recommendation(crop string, confidence float64, profit int, a Advice) entities.CropRecommendation {
	return entities.CropRecommendation{
		Name:             crop,
		Confidence:       confidence,
		Explanation:      a.Explanation,
		ProfitEstimate:   profit,
		WaterUsage:       a.WaterUsage,
		FertilizerAdvice: a.FertilizerAdvice,
		IrrigationAdvice: a.IrrigationAdvice,
	}
}

// withPrice scales a non-zero regional price to a per-hectare estimate, else returns fallback.
func withPrice(prices RegionPrices, key string, fallback int) int {
	if key == "" {
		return fallback
	}
	p, ok := prices.Price(key)
	if !ok || p == 0 || math.IsNaN(p) || math.Abs(p) > MaxPrice {
		return fallback
	}
	return int(roundHalfUp(p * yieldQuintalsPerHa))
}

// roundHalfUp rounds .5 towards +Inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func between(v, lo, hi float64) bool { return v >= lo && v <= hi }

// DefaultRules are the crop rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Crop: "Rice", PriceKey: "Rice", Confidence: 0.85, Profit: 45000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 5.5, 7.0) && s.WaterAvailability >= 70 && s.SoilMoisture >= 30
			},
			Advice: Advice{
				Explanation:      "Ideal pH with high water availability and adequate moisture supports rice.",
				WaterUsage:       "High (1500-2000mm)",
				FertilizerAdvice: "Apply 120kg N, 60kg P2O5, 40kg K2O per hectare",
				IrrigationAdvice: "Maintain 2-5cm standing water during growing season",
			},
		},
		{
			// nessun prezzo regionale per il frumento: resta il valore base
			Crop: "Wheat", Confidence: 0.8, Profit: 38000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 6.0, 7.5) && s.Nitrogen >= 40
			},
			Advice: Advice{
				Explanation:      "Good nitrogen and suitable pH range favor wheat.",
				WaterUsage:       "Medium (450-650mm)",
				FertilizerAdvice: "Apply 100kg N, 50kg P2O5, 30kg K2O per hectare",
				IrrigationAdvice: "4-6 irrigations during crop cycle",
			},
		},
		{
			Crop: "Maize", PriceKey: "Maize", Confidence: 0.75, Profit: 42000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 5.8, 8.6) && s.Phosphorus >= 20
			},
			Advice: Advice{
				Explanation:      "Adequate phosphorus and broad pH suitability for maize.",
				WaterUsage:       "Medium (500-800mm)",
				FertilizerAdvice: "Apply 150kg N, 75kg P2O5, 50kg K2O per hectare",
				IrrigationAdvice: "Irrigate at tasseling and grain filling stages",
			},
		},
		{
			Crop: "Pulses (Lentils)", PriceKey: "Pulses", Confidence: 0.7, Profit: 35000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 6.0, 7.5) && s.Potassium >= 30
			},
			Advice: Advice{
				Explanation:      "Neutral pH and good potassium favor pulses.",
				WaterUsage:       "Low (300-400mm)",
				FertilizerAdvice: "Apply 20kg N, 40kg P2O5, 20kg K2O per hectare",
				IrrigationAdvice: "2-3 light irrigations; avoid waterlogging",
			},
		},
		{
			// dryland: basta una delle due condizioni
			Crop: "Millets", PriceKey: "Millets", Confidence: 0.68, Profit: 30000,
			Match: func(s entities.SoilReading) bool {
				return s.WaterAvailability <= 50 || s.SoilMoisture <= 35
			},
			Advice: Advice{
				Explanation:      "Lower water availability suits hardy millets.",
				WaterUsage:       "Low (250-350mm)",
				FertilizerAdvice: "Low to moderate N; balanced P and K",
				IrrigationAdvice: "Minimal irrigation; rainfed suitable",
			},
		},
		{
			Crop: "Potato", PriceKey: "Potato", Confidence: 0.62, Profit: 32000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 5.2, 7.5) && s.Potassium >= 150
			},
			Advice: Advice{
				Explanation:      "Good potassium and suitable pH support tuber growth.",
				WaterUsage:       "Medium (500-700mm)",
				FertilizerAdvice: "Balanced NPK; emphasize K for tuber development",
				IrrigationAdvice: "Maintain moist soil; critical at tuber initiation",
			},
		},
		{
			Crop: "Soybean", Confidence: 0.57, Profit: 48000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 6.0, 7.5) && s.SoilMoisture >= 30
			},
			Advice: Advice{
				Explanation:      "Nitrogen-fixing legume that thrives in well-drained soils.",
				WaterUsage:       "Medium (450-700mm)",
				FertilizerAdvice: "Low N; moderate P and K; consider Rhizobium inoculation",
				IrrigationAdvice: "Critical irrigation during flowering and pod filling",
			},
		},
		{
			Crop: "Cotton", Confidence: 0.47, Profit: 65000,
			Match: func(s entities.SoilReading) bool {
				return s.Potassium >= 180 && s.WaterAvailability >= 50 && between(s.PH, 6.0, 8.0)
			},
			Advice: Advice{
				Explanation:      "High potassium and adequate water availability support cotton.",
				WaterUsage:       "High (700-1300mm)",
				FertilizerAdvice: "Focus on potassium-rich fertilizers during boll development",
				IrrigationAdvice: "Irrigate during flowering and boll formation",
			},
		},
		{
			Crop: "Sugarcane", Confidence: 0.78, Profit: 65000,
			Match: func(s entities.SoilReading) bool {
				return between(s.PH, 6.5, 7.5) && s.WaterAvailability >= 80
			},
			Advice: Advice{
				Explanation:      "Very high water availability and suitable pH for sugarcane.",
				WaterUsage:       "Very High (1800-2500mm)",
				FertilizerAdvice: "Apply 280kg N, 90kg P2O5, 90kg K2O per hectare",
				IrrigationAdvice: "Regular irrigation every 7-10 days",
			},
		},
	}
}
