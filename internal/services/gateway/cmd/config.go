package main

import (
	"time"

	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
)

type Config struct {
	Port    int
	Timeout time.Duration

	RecommendationURL string // es. http://recommendation:8082
	MarketURL         string // es. http://market:8084
	WeatherURL        string // es. http://weather:8083

	CBFails    int
	CBOpenFor  time.Duration
	CBInterval time.Duration

	CORSOrigins []string
}

func loadConfig() Config {
	return Config{
		Port:    config.Int("PORT", 5009),
		Timeout: config.Duration("TIMEOUT", 3*time.Second),

		RecommendationURL: config.Str("RECOMMENDATION_URL", "http://recommendation:8082"),
		MarketURL:         config.Str("MARKET_URL", "http://market:8084"),
		WeatherURL:        config.Str("WEATHER_URL", "http://weather:8083"),

		CBFails:    config.Int("CB_FAILS", 3),
		CBOpenFor:  config.Duration("CB_OPEN_FOR", 10*time.Second),
		CBInterval: config.Duration("CB_INTERVAL", time.Minute),

		CORSOrigins: config.CSV("CORS_ORIGINS", "*"),
	}
}
