package app

import (
	"math"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// Stats riassume l'ultima raccomandazione per la UI.
type Stats struct {
	TopCrop        string  `json:"topCrop,omitempty"`
	MeanConfidence float64 `json:"meanConfidence"`
	BestProfit     int     `json:"bestProfit"`
	Crops          int     `json:"crops"`
}

type DashboardData struct {
	Recommendations []entities.Recommendation `json:"recommendations"`
	MarketPrices    []entities.MarketPrice    `json:"marketPrices"`
	Alerts          []entities.WeatherAlert   `json:"alerts"`
	Stats           Stats                     `json:"stats"`
	// upstream che hanno fallito; "(stale)" quando si e' servita la cache
	Degraded []string `json:"degraded,omitempty"`
}

// StatsOf summarises the newest recommendation; recs are newest first.
func StatsOf(recs []entities.Recommendation) Stats {
	if len(recs) == 0 || len(recs[0].RecommendedCrops) == 0 {
		return Stats{}
	}
	crops := recs[0].RecommendedCrops
	st := Stats{TopCrop: crops[0].Name, Crops: len(crops), BestProfit: crops[0].ProfitEstimate}
	var sum float64
	for _, c := range crops {
		sum += c.Confidence
		if c.ProfitEstimate > st.BestProfit {
			st.BestProfit = c.ProfitEstimate
		}
	}
	st.MeanConfidence = math.Round(sum/float64(len(crops))*100) / 100
	return st
}
