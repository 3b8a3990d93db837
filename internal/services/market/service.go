// Package market keeps mandi prices, mirrors them to InfluxDB and exposes the scorer's regional price table.
package market

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/messages"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/store"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

const (
	byCropTake = 10
	allTake    = 20

	DefaultTopicTemplate = "event/market/{crop}"
)

var (
	ErrInvalidPrice = errors.New("crop, unit, market, date and trend are required and price must be finite")
	ErrNoHistory    = errors.New("price history not configured")
)

// Sink mirrors stored prices to a time series store.
type Sink interface {
	WritePrice(ctx context.Context, p entities.MarketPrice) error
}

// History reads past prices of a crop.
type History interface {
	PriceHistory(ctx context.Context, crop string, days, limit int) ([]PricePoint, error)
}

// PricePoint is one historical quote.
type PricePoint struct {
	Time   string  `json:"time"` // RFC3339
	Price  float64 `json:"price"`
	Market string  `json:"market,omitempty"`
}

type Service struct {
	prices  *store.Table[entities.MarketPrice, *entities.MarketPrice]
	regions scoring.PriceTable
	sink    Sink
	history History
	pub     rabbitmq.IPublisher
	topic   string
	log     *zap.Logger
}

type Option func(*Service)

func WithSink(s Sink) Option { return func(svc *Service) { svc.sink = s } }

func WithHistory(h History) Option { return func(svc *Service) { svc.history = h } }

func WithPublisher(p rabbitmq.IPublisher, topicTemplate string) Option {
	return func(svc *Service) {
		svc.pub = p
		if topicTemplate != "" {
			svc.topic = topicTemplate
		}
	}
}

func WithStoreOptions(opts ...store.Option) Option {
	return func(svc *Service) { svc.prices = store.NewTable[entities.MarketPrice](opts...) }
}

func NewService(regions scoring.PriceTable, log *zap.Logger, opts ...Option) *Service {
	s := &Service{regions: regions, topic: DefaultTopicTemplate, log: log}
	for _, o := range opts {
		o(s)
	}
	if s.prices == nil {
		s.prices = store.NewTable[entities.MarketPrice]()
	}
	return s
}

// Prices lists quotes newest first: the last 10 of crop, or the last 20 overall.
func (s *Service) Prices(crop string) []entities.MarketPrice {
	if crop != "" {
		return s.prices.Query(func(p entities.MarketPrice) bool { return p.Crop == crop }, byCropTake)
	}
	return s.prices.Query(nil, allTake)
}

// Add stores a quote, mirrors it and publishes a MarketPriceEvent.
// Mirroring and publishing are best effort.
func (s *Service) Add(ctx context.Context, p entities.MarketPrice) (entities.MarketPrice, error) {
	if err := validate(&p); err != nil {
		return entities.MarketPrice{}, err
	}
	stored := s.prices.Insert(p)
	s.mirror(ctx, stored)

	if s.pub != nil {
		topic := rabbitmq.FormatTopic(s.topic, "crop", stored.Crop)
		evt := messages.MarketPriceEvent{
			Crop:      stored.Crop,
			Price:     stored.Price,
			Unit:      stored.Unit,
			Market:    stored.Market,
			Trend:     string(stored.Trend),
			Timestamp: stored.CreationTime,
		}
		if err := s.pub.PublishJSON(topic, evt); err != nil {
			s.log.Warn("publish market event", zap.String("topic", topic), zap.Error(err))
		}
	}
	s.log.Info("market price added",
		zap.String("crop", stored.Crop),
		zap.Float64("price", stored.Price),
		zap.String("market", stored.Market))
	return stored, nil
}

func (s *Service) mirror(ctx context.Context, p entities.MarketPrice) {
	if s.sink == nil {
		return
	}
	if err := s.sink.WritePrice(ctx, p); err != nil {
		s.log.Warn("influx mirror failed", zap.String("crop", p.Crop), zap.Error(err))
	}
}

func validate(p *entities.MarketPrice) error {
	p.Crop = strings.TrimSpace(p.Crop)
	p.Unit = strings.TrimSpace(p.Unit)
	p.Market = strings.TrimSpace(p.Market)
	p.Date = strings.TrimSpace(p.Date)
	if p.Crop == "" || p.Unit == "" || p.Market == "" || p.Date == "" || p.Trend == "" {
		return ErrInvalidPrice
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return ErrInvalidPrice
	}
	return nil
}

// Seed inserts the demo quotes once; later calls report that data already exists.
func (s *Service) Seed(ctx context.Context) (string, bool) {
	stored, ok := s.prices.InsertIfEmpty(seedPrices...)
	if !ok {
		return "Data already exists", false
	}
	for _, p := range stored {
		s.mirror(ctx, p)
	}
	s.log.Info("market data seeded", zap.Int("prices", len(seedPrices)))
	return "Market data seeded successfully", true
}

var seedPrices = []entities.MarketPrice{
	{Crop: "Rice", Price: 2100, Unit: "per quintal", Market: "Delhi Mandi", Date: "2024-01-15", Trend: entities.TrendUp},
	{Crop: "Wheat", Price: 2250, Unit: "per quintal", Market: "Punjab Mandi", Date: "2024-01-15", Trend: entities.TrendStable},
	{Crop: "Maize", Price: 1850, Unit: "per quintal", Market: "UP Mandi", Date: "2024-01-15", Trend: entities.TrendDown},
	{Crop: "Pulses (Lentils)", Price: 6500, Unit: "per quintal", Market: "Rajasthan Mandi", Date: "2024-01-15", Trend: entities.TrendUp},
	{Crop: "Sugarcane", Price: 350, Unit: "per quintal", Market: "Maharashtra Mandi", Date: "2024-01-15", Trend: entities.TrendStable},
	{Crop: "Cotton", Price: 5800, Unit: "per quintal", Market: "Gujarat Mandi", Date: "2024-01-15", Trend: entities.TrendUp},
	{Crop: "Soybean", Price: 4200, Unit: "per quintal", Market: "MP Mandi", Date: "2024-01-15", Trend: entities.TrendStable},
	{Crop: "Groundnut", Price: 5500, Unit: "per quintal", Market: "Andhra Mandi", Date: "2024-01-15", Trend: entities.TrendDown},
}

func (s *Service) PriceHistory(ctx context.Context, crop string, days, limit int) ([]PricePoint, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	return s.history.PriceHistory(ctx, crop, days, limit)
}

// Region returns the reference prices the scorer uses for region.
func (s *Service) Region(region string) (map[string]float64, bool) {
	p, ok := s.regions.Lookup(region)
	if !ok {
		return nil, false
	}
	return p.Map(), true
}

// Regions lists the priced regions.
func (s *Service) Regions() []string { return s.regions.Regions() }
