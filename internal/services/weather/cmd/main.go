package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/weather"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
)

func main() {
	log := logging.New("weather")
	defer func() { _ = log.Sync() }()

	port := config.Int("HTTP_PORT", 8083)
	owmKey := config.Str("OWM_API_KEY", "")
	owmBase := config.Str("OWM_BASE_URL", "https://api.openweathermap.org")
	timeout := config.Duration("OWM_TIMEOUT", 5*time.Second)
	seed := config.Bool("SEED_ON_START", false)

	var opts []weather.Option
	if owmKey != "" {
		opts = append(opts, weather.WithProvider(weather.NewOWMClient(owmKey,
			weather.WithBaseURL(owmBase),
			weather.WithHTTPClient(&http.Client{Timeout: timeout}))))
	} else {
		log.Warn("OWM_API_KEY not set: /weather/current disabled")
	}
	svc := weather.NewService(log, opts...)
	if seed {
		msg, _ := svc.Seed()
		log.Info("seed", zap.String("result", msg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpx.NewMetrics(reg, "weather")

	r := mux.NewRouter()
	r.Use(metrics.Middleware(log))
	r.HandleFunc("/healthz", httpx.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(nil)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	weather.NewAPI(svc, log).Routes(r)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpx.Serve(ctx, srv, 5*time.Second, log); err != nil {
		log.Fatal("weather stopped", zap.Error(err))
	}
}
