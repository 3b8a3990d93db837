// Package weather serves location alerts and current conditions from OpenWeather.
package weather

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/store"
)

const alertsTake = 5

var (
	ErrInvalidAlert = errors.New("location, alertType, severity and message are required")
	ErrNoProvider   = errors.New("no weather provider configured")
)

// Provider returns current conditions at a coordinate.
type Provider interface {
	Current(ctx context.Context, lat, lon float64) (*entities.WeatherData, error)
}

type Service struct {
	alerts   *store.Table[entities.WeatherAlert, *entities.WeatherAlert]
	provider Provider
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithProvider sets the current-conditions source; without one Current fails with ErrNoProvider.
func WithProvider(p Provider) Option { return func(s *Service) { s.provider = p } }

func NewService(log *zap.Logger, opts ...Option) *Service {
	s := &Service{now: time.Now, log: log}
	for _, o := range opts {
		o(s)
	}
	s.alerts = store.NewTable[entities.WeatherAlert](store.WithClock(s.now))
	return s
}

// Alerts returns the alerts of location still valid now, newest first.
func (s *Service) Alerts(location string) []entities.WeatherAlert {
	now := s.now().UnixMilli()
	return s.alerts.Query(func(a entities.WeatherAlert) bool {
		return a.Location == location && a.ValidUntil > now
	}, alertsTake)
}

func (s *Service) AddAlert(a entities.WeatherAlert) (entities.WeatherAlert, error) {
	a.Location = strings.TrimSpace(a.Location)
	if a.Location == "" || strings.TrimSpace(a.AlertType) == "" ||
		strings.TrimSpace(a.Severity) == "" || strings.TrimSpace(a.Message) == "" {
		return entities.WeatherAlert{}, ErrInvalidAlert
	}
	stored := s.alerts.Insert(a)
	s.log.Info("weather alert added",
		zap.String("id", stored.ID),
		zap.String("location", stored.Location),
		zap.String("type", stored.AlertType),
		zap.String("severity", stored.Severity))
	return stored, nil
}

// Seed inserts the demo alerts once; later calls report that data already exists.
func (s *Service) Seed() (string, bool) {
	if _, ok := s.alerts.InsertIfEmpty(demoAlerts(s.now())...); !ok {
		return "Data already exists", false
	}
	return "Weather alerts seeded successfully", true
}

func demoAlerts(now time.Time) []entities.WeatherAlert {
	day := 24 * time.Hour
	return []entities.WeatherAlert{
		{
			Location:   "Punjab",
			AlertType:  "drought",
			Severity:   "medium",
			Message:    "Low rainfall expected in the next 15 days. Consider water conservation.",
			ValidUntil: now.Add(15 * day).UnixMilli(),
		},
		{
			Location:   "Maharashtra",
			AlertType:  "flood",
			Severity:   "high",
			Message:    "Heavy rainfall warning. Ensure proper drainage in fields.",
			ValidUntil: now.Add(7 * day).UnixMilli(),
		},
	}
}

func (s *Service) Current(ctx context.Context, lat, lon float64) (*entities.WeatherData, error) {
	if s.provider == nil {
		return nil, ErrNoProvider
	}
	return s.provider.Current(ctx, lat, lon)
}
