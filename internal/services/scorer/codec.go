package scorer

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
)

// wireResult is the JSON shape of a Recommend response.
type wireResult struct {
	Region string                        `json:"region"`
	Path   scoring.Path                  `json:"path"`
	Crops  []entities.CropRecommendation `json:"crops"`
}

// ReadingToStruct encodes a reading as a Recommend request.
func ReadingToStruct(r entities.SoilReading) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"nitrogen":          r.Nitrogen,
		"phosphorus":        r.Phosphorus,
		"potassium":         r.Potassium,
		"ph":                r.PH,
		"soilMoisture":      r.SoilMoisture,
		"waterAvailability": r.WaterAvailability,
		"location":          r.Location,
	})
}

// ResultToStruct encodes a scoring result as a Recommend response.
func ResultToStruct(res scoring.Result) (*structpb.Struct, error) {
	crops := make([]any, 0, len(res.Crops))
	for _, c := range res.Crops {
		crops = append(crops, map[string]any{
			"name":             c.Name,
			"confidence":       c.Confidence,
			"explanation":      c.Explanation,
			"profitEstimate":   c.ProfitEstimate,
			"waterUsage":       c.WaterUsage,
			"fertilizerAdvice": c.FertilizerAdvice,
			"irrigationAdvice": c.IrrigationAdvice,
		})
	}
	return structpb.NewStruct(map[string]any{
		"region": res.Region,
		"path":   string(res.Path),
		"crops":  crops,
	})
}

// ResultFromStruct decodes a Recommend response.
func ResultFromStruct(s *structpb.Struct) (scoring.Result, error) {
	raw, err := protojson.Marshal(s)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("encode response: %w", err)
	}
	var w wireResult
	if err := json.Unmarshal(raw, &w); err != nil {
		return scoring.Result{}, fmt.Errorf("decode response: %w", err)
	}
	return scoring.Result{Region: w.Region, Path: w.Path, Crops: w.Crops}, nil
}
