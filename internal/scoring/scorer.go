// Package scoring is the rule-based crop recommendation engine: region lookup,
// strict crop rules, a partial-credit fallback and a stable ranking.
// Everything here is pure and safe for concurrent use.
package scoring

import "github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"

// Path tells which stage produced the candidates.
type Path string

const (
	PathRules    Path = "rules"
	PathFallback Path = "fallback"
)

// Result is the outcome of one scoring request.
type Result struct {
	Region string // "" when the location did not resolve
	Path   Path
	Crops  []entities.CropRecommendation
}

// candidates is the typed branch between the two stages.
type candidates struct {
	path  Path
	crops []entities.CropRecommendation
}

// Scorer wires the tables into the recommendation pipeline.
type Scorer struct {
	resolver *Resolver
	prices   PriceTable
	rules    []Rule
	fallback []FallbackRule
	limit    int
}

type Option func(*Scorer)

func WithResolver(r *Resolver) Option { return func(s *Scorer) { s.resolver = r } }

func WithPriceTable(t PriceTable) Option { return func(s *Scorer) { s.prices = t } }

func WithRules(rules []Rule) Option { return func(s *Scorer) { s.rules = rules } }

func WithFallback(rules []FallbackRule) Option { return func(s *Scorer) { s.fallback = rules } }

// WithLimit changes the maximum number of ranked crops.
func WithLimit(n int) Option { return func(s *Scorer) { s.limit = n } }

// New builds a scorer on the compiled-in tables unless overridden.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		prices:   DefaultPriceTable(),
		rules:    DefaultRules(),
		fallback: DefaultFallback(),
		limit:    MaxRecommendations,
	}
	for _, o := range opts {
		o(s)
	}
	if s.resolver == nil {
		s.resolver = NewResolver(defaultCityHints, s.prices.Regions())
	}
	return s
}

// ResolveRegion maps a free-text location to a priced region.
func (s *Scorer) ResolveRegion(location string) (string, bool) {
	return s.resolver.Resolve(location)
}

// Prices exposes the price table the scorer uses.
func (s *Scorer) Prices() PriceTable { return s.prices }

// Recommend scores a reading. The result always holds at least one crop
// as long as the fallback table is not empty.
func (s *Scorer) Recommend(r entities.SoilReading) Result {
	region, _ := s.resolver.Resolve(r.Location)
	var prices RegionPrices
	if region != "" {
		prices, _ = s.prices.Lookup(region)
	}

	c := s.candidates(r, prices)
	return Result{
		Region: region,
		Path:   c.path,
		Crops:  Rank(c.crops, s.limit),
	}
}

func (s *Scorer) candidates(r entities.SoilReading, prices RegionPrices) candidates {
	if matched := EvaluateRules(s.rules, r, prices); len(matched) > 0 {
		return candidates{path: PathRules, crops: matched}
	}
	return candidates{path: PathFallback, crops: GenerateFallback(s.fallback, r, prices)}
}
