package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

func TestFallbackWeightsSumToOne(t *testing.T) {
	for _, f := range DefaultFallback() {
		require.Len(t, f.Conditions, 3, f.Crop)
		sum := 0.0
		for _, c := range f.Conditions {
			sum += c.Weight
		}
		assert.InDelta(t, 1.0, sum, 1e-9, f.Crop)
	}
}

func TestGenerateFallbackOrderAndLength(t *testing.T) {
	got := GenerateFallback(DefaultFallback(), entities.SoilReading{}, RegionPrices{})
	require.Len(t, got, 6)

	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Wheat", "Pulses (Lentils)", "Soybean", "Maize", "Rice", "Cotton"}, names)
}

func TestFallbackSoftFloor(t *testing.T) {
	// nothing satisfied: every crop keeps 40% of its weight
	got := GenerateFallback(DefaultFallback(), entities.SoilReading{}, RegionPrices{})
	for _, c := range got {
		assert.InDelta(t, 0.4, c.Confidence, 1e-9, c.Name)
	}
}

func TestFallbackClampsHigh(t *testing.T) {
	perfect := entities.SoilReading{Nitrogen: 50, Phosphorus: 20, Potassium: 200, PH: 6.5, SoilMoisture: 40, WaterAvailability: 80}
	for _, c := range GenerateFallback(DefaultFallback(), perfect, RegionPrices{}) {
		assert.Equal(t, 0.82, c.Confidence, c.Name)
	}
}

func TestFallbackPartialCredit(t *testing.T) {
	r := entities.SoilReading{SoilMoisture: 40, WaterAvailability: 60}
	got := GenerateFallback(DefaultFallback(), r, RegionPrices{})

	byName := map[string]float64{}
	for _, c := range got {
		byName[c.Name] = c.Confidence
	}
	assert.InDelta(t, 0.58, byName["Wheat"], 1e-9)
	assert.InDelta(t, 0.58, byName["Pulses (Lentils)"], 1e-9)
	assert.InDelta(t, 0.76, byName["Soybean"], 1e-9)
	assert.InDelta(t, 0.58, byName["Maize"], 1e-9)
	assert.InDelta(t, 0.79, byName["Rice"], 1e-9)
	assert.InDelta(t, 0.58, byName["Cotton"], 1e-9)
}

func TestFallbackConfidenceBounds(t *testing.T) {
	values := []float64{-10, 0, 5.5, 6.2, 7.5, 30, 60, 150, 500}
	for _, ph := range values {
		for _, v := range values {
			r := entities.SoilReading{PH: ph, Nitrogen: v, Phosphorus: v, Potassium: v, SoilMoisture: v, WaterAvailability: v}
			for _, c := range GenerateFallback(DefaultFallback(), r, RegionPrices{}) {
				assert.GreaterOrEqual(t, c.Confidence, 0.35)
				assert.LessOrEqual(t, c.Confidence, 0.82)
			}
		}
	}
}

func TestFallbackProfits(t *testing.T) {
	prices, _ := DefaultPriceTable().Lookup("punjab")
	got := GenerateFallback(DefaultFallback(), entities.SoilReading{}, prices)

	profit := map[string]int{}
	for _, c := range got {
		profit[c.Name] = c.ProfitEstimate
	}
	assert.Equal(t, 38000, profit["Wheat"])
	assert.Equal(t, 106000, profit["Pulses (Lentils)"])
	assert.Equal(t, 48000, profit["Soybean"])
	assert.Equal(t, 38000, profit["Maize"])
	assert.Equal(t, 42000, profit["Rice"])
	assert.Equal(t, 65000, profit["Cotton"])

	literal := GenerateFallback(DefaultFallback(), entities.SoilReading{}, RegionPrices{})
	assert.Equal(t, 42000, literal[1].ProfitEstimate)
	assert.Equal(t, 35000, literal[3].ProfitEstimate)
	assert.Equal(t, 45000, literal[4].ProfitEstimate)
}
