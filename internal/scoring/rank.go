package scoring

import (
	"sort"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// MaxRecommendations caps the ranked output.
const MaxRecommendations = 6

// Rank sorts by confidence, highest first, keeping evaluation order on ties,
// and keeps at most limit entries. The input slice is not modified.
func Rank(candidates []entities.CropRecommendation, limit int) []entities.CropRecommendation {
	out := append([]entities.CropRecommendation(nil), candidates...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
