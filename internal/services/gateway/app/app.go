// Package app compone la dashboard del farmer interrogando i servizi a monte dietro circuit breaker.
package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/pkg/breaker"
)

type Config struct {
	RecommendationURL string
	MarketURL         string
	WeatherURL        string
	HTTPTimeout       time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration
	BreakerInterval time.Duration

	Logger     *zap.Logger
	Registerer prometheus.Registerer // nil: niente gauge
}

type Gateway struct {
	cfg            Config
	recommendation *Upstream
	market         *Upstream
	weather        *Upstream
	log            *zap.Logger
}

func NewGateway(cfg Config) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 3 * time.Second
	}
	var gauge *prometheus.GaugeVec
	if cfg.Registerer != nil {
		gauge = breaker.NewStateGauge(cfg.Registerer)
	}
	// Un breaker per ciascun upstream
	mk := func(name, base string) *Upstream {
		cb := breaker.New(name, breaker.Settings{
			Failures: cfg.BreakerFailures,
			OpenFor:  cfg.BreakerOpenFor,
			Interval: cfg.BreakerInterval,
		}, cfg.Logger, gauge)
		return NewUpstream(name, base, cfg.HTTPTimeout, cb)
	}
	return &Gateway{
		cfg:            cfg,
		recommendation: mk("recommendation-service", cfg.RecommendationURL),
		market:         mk("market-service", cfg.MarketURL),
		weather:        mk("weather-service", cfg.WeatherURL),
		log:            cfg.Logger,
	}
}
