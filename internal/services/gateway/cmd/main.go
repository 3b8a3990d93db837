package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/gateway/app"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
)

func main() {
	log := logging.New("gateway")
	defer func() { _ = log.Sync() }()

	cfg := loadConfig()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpx.NewMetrics(reg, "gateway")

	gw := app.NewGateway(app.Config{
		RecommendationURL: cfg.RecommendationURL,
		MarketURL:         cfg.MarketURL,
		WeatherURL:        cfg.WeatherURL,
		HTTPTimeout:       cfg.Timeout,
		BreakerFailures:   cfg.CBFails,
		BreakerOpenFor:    cfg.CBOpenFor,
		BreakerInterval:   cfg.CBInterval,
		Logger:            log,
		Registerer:        reg,
	})

	r := mux.NewRouter()
	r.Use(metrics.Middleware(log))
	r.HandleFunc("/healthz", httpx.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(nil)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/data", gw.HandleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/dashboard/breakers", gw.HandleBreakers).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", httpx.UserHeader, httpx.EmailHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(log)),
		handlers.PrintRecoveryStack(true),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           recovery(cors(r)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("gateway starting",
		zap.Int("port", cfg.Port),
		zap.String("recommendation", cfg.RecommendationURL),
		zap.String("market", cfg.MarketURL),
		zap.String("weather", cfg.WeatherURL))
	if err := httpx.Serve(ctx, srv, 5*time.Second, log); err != nil {
		log.Fatal("gateway stopped", zap.Error(err))
	}
}
