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

	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/recommendation"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/scorer"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/weather"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/breaker"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

func main() {
	log := logging.New("recommendation")
	defer func() { _ = log.Sync() }()

	// === Config ===
	cfg := struct {
		Rabbit        rabbitmq.RabbitMQConfig
		HTTPPort      int
		ScorerAddr    string
		ScorerTimeout time.Duration
		TablePath     string
		WeatherURL    string
		TopicTemplate string
		CBFailures    int
		CBOpenFor     time.Duration
	}{
		Rabbit: rabbitmq.RabbitMQConfig{
			Host:     config.Str("RABBITMQ_HOST", "localhost"),
			Port:     config.Int("RABBITMQ_PORT", 1883),
			User:     config.Str("RABBITMQ_USER", "guest"),
			Password: config.Str("RABBITMQ_PASSWORD", "guest"),
			ClientID: config.Str("HOSTNAME", "recommendation-service"),
		},
		HTTPPort:      config.Int("HTTP_PORT", 8082),
		ScorerAddr:    config.Str("SCORER_GRPC_ADDR", ""),
		ScorerTimeout: config.Duration("SCORER_TIMEOUT", 2*time.Second),
		TablePath:     config.Str("REGION_TABLE_PATH", ""),
		WeatherURL:    config.Str("WEATHER_URL", ""),
		TopicTemplate: config.Str("EVENT_RECOMMENDATION_TEMPLATE", recommendation.DefaultTopicTemplate),
		CBFailures:    config.Int("CB_FAILURES", 3),
		CBOpenFor:     config.Duration("CB_OPEN_FOR", 10*time.Second),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// === Scoring: tables + local engine or remote gRPC ===
	local, err := scorer.LoadScorer(cfg.TablePath, log)
	if err != nil {
		log.Fatal("scorer init", zap.Error(err))
	}
	resolver := scoring.DefaultResolver()
	if cfg.TablePath != "" {
		cities, prices, err := scoring.LoadTables(cfg.TablePath)
		if err != nil {
			log.Fatal("region tables", zap.Error(err))
		}
		resolver = scoring.NewResolver(cities, prices.Regions())
	}

	var sc recommendation.Scorer = recommendation.NewLocal(local)
	if cfg.ScorerAddr != "" {
		conn, err := scorer.Dial(cfg.ScorerAddr)
		if err != nil {
			log.Fatal("scorer dial", zap.Error(err))
		}
		defer conn.Close()
		cb := breaker.New("scorer", breaker.Settings{
			Failures:     cfg.CBFailures,
			OpenFor:      cfg.CBOpenFor,
			IsSuccessful: scorer.CountsAsSuccess,
		}, log, breaker.NewStateGauge(reg))
		sc = scorer.NewClient(conn, cb, cfg.ScorerTimeout)
		log.Info("using remote scorer", zap.String("addr", cfg.ScorerAddr))
	} else {
		log.Info("using in-process scorer")
	}

	// === MQTT ===
	mqttClient, err := rabbitmq.NewRabbitMQConn(ctx, cfg.Rabbit, log)
	if err != nil {
		log.Fatal("mqtt connection", zap.Error(err))
	}
	defer rabbitmq.CloseRabbitMQConn(mqttClient, log)

	opts := []recommendation.Option{
		recommendation.WithPublisher(rabbitmq.NewPublisher(mqttClient, 1, log)),
	}
	if cfg.WeatherURL != "" {
		opts = append(opts, recommendation.WithWeather(weather.NewRemoteClient(cfg.WeatherURL, 3*time.Second)))
	}
	svc := recommendation.NewService(recommendation.Config{TopicTemplate: cfg.TopicTemplate}, sc, resolver, reg, log, opts...)

	// === HTTP ===
	metrics := httpx.NewMetrics(reg, "recommendation")
	r := mux.NewRouter()
	r.Use(metrics.Middleware(log))
	r.HandleFunc("/healthz", httpx.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(map[string]httpx.Check{"mqtt": rabbitmq.Check(mqttClient)})).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	recommendation.NewAPI(svc, log).Routes(r)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpx.Serve(ctx, srv, 5*time.Second, log); err != nil {
		log.Error("http", zap.Error(err))
	}
}
