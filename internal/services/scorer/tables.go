package scorer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
)

// LoadScorer builds a scorer on the compiled-in tables, or on the YAML file at path when set.
func LoadScorer(path string, log *zap.Logger) (*scoring.Scorer, error) {
	if path == "" {
		return scoring.New(), nil
	}
	cities, prices, err := scoring.LoadTables(path)
	if err != nil {
		return nil, fmt.Errorf("load region tables: %w", err)
	}
	log.Info("region tables loaded",
		zap.String("path", path),
		zap.Int("cities", len(cities)),
		zap.Int("regions", len(prices.Regions())))
	return scoring.New(scoring.Options(cities, prices)...), nil
}
