// Package recommendation stores scored soil readings per farmer and announces them on the bus.
package recommendation

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/messages"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/store"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

const (
	listTake = 10

	DefaultTopicTemplate = "event/recommendation/{region}/{user}"
)

// Scorer turns a reading into ranked crops, in process or over gRPC.
type Scorer interface {
	Recommend(ctx context.Context, r entities.SoilReading) (scoring.Result, error)
}

// Local adapts the in-process engine to Scorer.
type Local struct{ s *scoring.Scorer }

func NewLocal(s *scoring.Scorer) Local { return Local{s: s} }

func (l Local) Recommend(_ context.Context, r entities.SoilReading) (scoring.Result, error) {
	return l.s.Recommend(r), nil
}

// Weather provides the optional conditions snapshot stored with a recommendation.
type Weather interface {
	Current(ctx context.Context, lat, lon float64) (*entities.WeatherData, error)
}

// CreateRequest is a validated POST /recommendations body.
type CreateRequest struct {
	entities.SoilReading
	Latitude  *float64
	Longitude *float64
}

type Config struct {
	TopicTemplate  string
	WeatherTimeout time.Duration
}

type Service struct {
	cfg      Config
	scorer   Scorer
	resolver *scoring.Resolver
	weather  Weather
	pub      rabbitmq.IPublisher
	table    *store.Table[entities.Recommendation, *entities.Recommendation]
	created  *prometheus.CounterVec
	log      *zap.Logger
}

type Option func(*Service)

// WithWeather enables the best-effort weather snapshot.
func WithWeather(w Weather) Option { return func(s *Service) { s.weather = w } }

// WithPublisher enables RecommendationCreatedEvent publishing.
func WithPublisher(p rabbitmq.IPublisher) Option { return func(s *Service) { s.pub = p } }

func WithStoreOptions(opts ...store.Option) Option {
	return func(s *Service) { s.table = store.NewTable[entities.Recommendation](opts...) }
}

func NewService(cfg Config, sc Scorer, resolver *scoring.Resolver, reg prometheus.Registerer, log *zap.Logger, opts ...Option) *Service {
	if cfg.TopicTemplate == "" {
		cfg.TopicTemplate = DefaultTopicTemplate
	}
	if cfg.WeatherTimeout <= 0 {
		cfg.WeatherTimeout = 3 * time.Second
	}
	if resolver == nil {
		resolver = scoring.DefaultResolver()
	}
	s := &Service{
		cfg:      cfg,
		scorer:   sc,
		resolver: resolver,
		log:      log,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kisanyatra",
			Name:      "recommendations_total",
			Help:      "Stored recommendations by scoring path and region.",
		}, []string{"path", "region"}),
	}
	reg.MustRegister(s.created)
	for _, o := range opts {
		o(s)
	}
	if s.table == nil {
		s.table = store.NewTable[entities.Recommendation]()
	}
	return s
}

// Create scores the reading, stores the result for userID and returns the stored document.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (entities.Recommendation, error) {
	res, err := s.scorer.Recommend(ctx, req.SoilReading)
	if err != nil {
		return entities.Recommendation{}, fmt.Errorf("score reading: %w", err)
	}

	rec := entities.Recommendation{
		UserID:           userID,
		SoilReading:      req.SoilReading,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Region:           res.Region,
		Path:             string(res.Path),
		RecommendedCrops: res.Crops,
		WeatherData:      s.snapshot(ctx, req),
	}
	stored := s.table.Insert(rec)

	region := stored.Region
	if region == "" {
		region = "unknown"
	}
	s.created.WithLabelValues(stored.Path, region).Inc()
	s.log.Info("recommendation stored",
		zap.String("id", stored.ID),
		zap.String("user", userID),
		zap.String("region", region),
		zap.String("path", stored.Path),
		zap.Int("crops", len(stored.RecommendedCrops)))

	s.publish(stored)
	return stored, nil
}

// snapshot never fails the request: weather is decoration.
func (s *Service) snapshot(ctx context.Context, req CreateRequest) *entities.WeatherData {
	if s.weather == nil || req.Latitude == nil || req.Longitude == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WeatherTimeout)
	defer cancel()
	wd, err := s.weather.Current(ctx, *req.Latitude, *req.Longitude)
	if err != nil {
		s.log.Warn("weather snapshot skipped", zap.Error(err))
		return nil
	}
	return wd
}

func (s *Service) publish(rec entities.Recommendation) {
	if s.pub == nil {
		return
	}
	evt := messages.RecommendationCreatedEvent{
		RecommendationID: rec.ID,
		UserID:           rec.UserID,
		Region:           rec.Region,
		Path:             rec.Path,
		Crops:            len(rec.RecommendedCrops),
		Timestamp:        rec.CreationTime,
	}
	if len(rec.RecommendedCrops) > 0 {
		evt.TopCrop = rec.RecommendedCrops[0].Name
		evt.TopConfidence = rec.RecommendedCrops[0].Confidence
	}
	topic := rabbitmq.FormatTopic(s.cfg.TopicTemplate, "region", rec.Region, "user", rec.UserID)
	if err := s.pub.PublishJSON(topic, evt); err != nil {
		s.log.Warn("publish recommendation event", zap.String("topic", topic), zap.Error(err))
	}
}

// List returns the newest recommendations of userID.
func (s *Service) List(userID string) []entities.Recommendation {
	return s.table.Query(func(r entities.Recommendation) bool { return r.UserID == userID }, listTake)
}

// ResolveRegion exposes the location lookup used for pricing.
func (s *Service) ResolveRegion(location string) (string, bool) {
	return s.resolver.Resolve(location)
}
