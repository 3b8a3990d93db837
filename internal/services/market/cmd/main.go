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

	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/market"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/influx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

func main() {
	log := logging.New("market")
	defer func() { _ = log.Sync() }()

	cfg := struct {
		Rabbit        rabbitmq.RabbitMQConfig
		HTTPPort      int
		TablePath     string
		TopicTemplate string
		SeedOnStart   bool
		Influx        influx.Config
	}{
		Rabbit: rabbitmq.RabbitMQConfig{
			Host:     config.Str("RABBITMQ_HOST", "localhost"),
			Port:     config.Int("RABBITMQ_PORT", 1883),
			User:     config.Str("RABBITMQ_USER", "guest"),
			Password: config.Str("RABBITMQ_PASSWORD", "guest"),
			ClientID: config.Str("HOSTNAME", "market-service"),
		},
		HTTPPort:      config.Int("HTTP_PORT", 8084),
		TablePath:     config.Str("REGION_TABLE_PATH", ""),
		TopicTemplate: config.Str("EVENT_MARKET_TEMPLATE", market.DefaultTopicTemplate),
		SeedOnStart:   config.Bool("SEED_ON_START", false),
		Influx:        influx.ConfigFromEnv("http://localhost:8086", "market"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prices := scoring.DefaultPriceTable()
	if cfg.TablePath != "" {
		_, p, err := scoring.LoadTables(cfg.TablePath)
		if err != nil {
			log.Fatal("region tables", zap.Error(err))
		}
		prices = p
	}

	// === InfluxDB ===
	idb := influxdb2.NewClient(cfg.Influx.URL, cfg.Influx.Token)
	defer idb.Close()

	// === MQTT ===
	mqttClient, err := rabbitmq.NewRabbitMQConn(ctx, cfg.Rabbit, log)
	if err != nil {
		log.Fatal("mqtt connection", zap.Error(err))
	}
	defer rabbitmq.CloseRabbitMQConn(mqttClient, log)

	svc := market.NewService(prices, log,
		market.WithSink(market.NewInfluxSink(idb.WriteAPIBlocking(cfg.Influx.Org, cfg.Influx.Bucket))),
		market.WithHistory(market.NewInfluxHistory(idb.QueryAPI(cfg.Influx.Org), cfg.Influx.Bucket)),
		market.WithPublisher(rabbitmq.NewPublisher(mqttClient, 1, log), cfg.TopicTemplate),
	)
	if cfg.SeedOnStart {
		msg, _ := svc.Seed(ctx)
		log.Info("seed", zap.String("result", msg))
	}

	// === HTTP ===
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpx.NewMetrics(reg, "market")

	r := mux.NewRouter()
	r.Use(metrics.Middleware(log))
	r.HandleFunc("/healthz", httpx.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(map[string]httpx.Check{
		"mqtt":   rabbitmq.Check(mqttClient),
		"influx": influx.Check(idb),
	})).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	market.NewAPI(svc, log).Routes(r)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpx.Serve(ctx, srv, 5*time.Second, log); err != nil {
		log.Error("http", zap.Error(err))
	}
}
