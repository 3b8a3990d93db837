package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/event"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/dedup"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/influx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

func main() {
	log := logging.New("event")
	defer func() { _ = log.Sync() }()

	// === Config ===
	cfg := struct {
		Rabbit rabbitmq.RabbitMQConfig

		Influx influx.Config

		Topics        []string
		BatchSize     int
		FlushInterval time.Duration
		DedupTTL      time.Duration

		HTTPPort       int
		ReadinessGrace time.Duration
	}{
		Rabbit: rabbitmq.RabbitMQConfig{
			Host:     config.Str("RABBITMQ_HOST", "localhost"),
			Port:     config.Int("RABBITMQ_PORT", 1883),
			User:     config.Str("RABBITMQ_USER", "guest"),
			Password: config.Str("RABBITMQ_PASSWORD", "guest"),
			ClientID: config.Str("HOSTNAME", "event-service"),
		},

		Influx: influx.ConfigFromEnv("http://localhost:8086", "events"),

		Topics:        config.CSV("EVENT_SUB_TOPICS", "event/recommendation/#,event/connect/#,event/market/#"),
		BatchSize:     config.Int("WRITE_BATCH_SIZE", 10),
		FlushInterval: config.Duration("WRITE_FLUSH_INTERVAL", 200*time.Millisecond),
		DedupTTL:      config.Duration("DEDUP_TTL", 10*time.Minute),

		HTTPPort:       config.Int("HTTP_PORT", 8080),
		ReadinessGrace: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === InfluxDB ===
	opts := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	idb := influxdb2.NewClientWithOptions(cfg.Influx.URL, cfg.Influx.Token, opts)
	defer idb.Close()
	writeAPI := idb.WriteAPI(cfg.Influx.Org, cfg.Influx.Bucket)
	writer := event.NewWriter(writeAPI, log)

	// === MQTT ===
	mqttClient, err := rabbitmq.NewRabbitMQConn(ctx, cfg.Rabbit, log)
	if err != nil {
		log.Fatal("mqtt connection", zap.Error(err))
	}
	defer rabbitmq.CloseRabbitMQConn(mqttClient, log)

	// === HTTP ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpx.NewMetrics(reg, "event")

	checks := map[string]httpx.Check{
		"mqtt":   rabbitmq.Check(mqttClient),
		"influx": influx.Check(idb),
	}
	readyChecks := map[string]httpx.Check{
		"mqtt":   checks["mqtt"],
		"influx": checks["influx"],
		"writer": event.WriterCheck(writer, 2*time.Second),
	}

	r := mux.NewRouter()
	r.Use(metrics.Middleware(log))
	r.Handle("/healthz", event.NewHealthHandler(checks, writer, 30*time.Second)).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(readyChecks)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	// GET /events/recommendations/latest?limit=20[&minutes=1440&region=]
	r.Handle("/events/recommendations/latest",
		event.NewRecommendationsLatestHandler(idb.QueryAPI(cfg.Influx.Org), cfg.Influx.Bucket, log)).Methods(http.MethodGet)

	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := httpx.Serve(ctx, hs, cfg.ReadinessGrace, log); err != nil {
			log.Error("http", zap.Error(err))
			stop()
		}
	}()

	// === Consumer ===
	h := event.NewMQTTHandler(writer.Write, dedup.New(cfg.DedupTTL, 20000), log)
	consumer := rabbitmq.NewMultiConsumer(mqttClient, cfg.Topics, 1, log)
	consumer.SetHandler(h.Handle)
	log.Info("event service started", zap.Strings("topics", cfg.Topics), zap.String("bucket", cfg.Influx.Bucket))
	consumer.ConsumeMessage(ctx)

	// consenti flush
	log.Info("shutting down, flushing influx")
	writeAPI.Flush()
}
