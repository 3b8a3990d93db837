package main

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/connect"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

func main() {
	log := logging.New("connect")
	defer func() { _ = log.Sync() }()

	rabbitCfg := rabbitmq.RabbitMQConfig{
		Host:     config.Str("RABBITMQ_HOST", "localhost"),
		Port:     config.Int("RABBITMQ_PORT", 1883),
		User:     config.Str("RABBITMQ_USER", "guest"),
		Password: config.Str("RABBITMQ_PASSWORD", "guest"),
		ClientID: config.Str("HOSTNAME", "connect-service"),
	}
	port := config.Int("HTTP_PORT", 8085)
	topic := config.Str("EVENT_CONNECT_TEMPLATE", connect.DefaultTopicTemplate)
	tzName := config.Str("BOT_TIMEZONE", "Asia/Kolkata")

	// il bot saluta secondo l'ora locale dei contadini, non del server
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Warn("unknown BOT_TIMEZONE, using UTC", zap.String("tz", tzName), zap.Error(err))
		loc = time.UTC
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mqttClient, err := rabbitmq.NewRabbitMQConn(ctx, rabbitCfg, log)
	if err != nil {
		log.Fatal("mqtt connection", zap.Error(err))
	}
	defer rabbitmq.CloseRabbitMQConn(mqttClient, log)

	svc := connect.NewService(log,
		connect.WithClock(func() time.Time { return time.Now().In(loc) }),
		connect.WithPublisher(rabbitmq.NewPublisher(mqttClient, 1, log), topic),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpx.NewMetrics(reg, "connect")

	r := mux.NewRouter()
	r.Use(metrics.Middleware(log))
	r.HandleFunc("/healthz", httpx.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(map[string]httpx.Check{"mqtt": rabbitmq.Check(mqttClient)})).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	connect.NewAPI(svc, log).Routes(r)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("connect service starting", zap.Int("port", port), zap.String("topic", topic), zap.String("bot_tz", loc.String()))
	if err := httpx.Serve(ctx, srv, 5*time.Second, log); err != nil {
		log.Fatal("connect stopped", zap.Error(err))
	}
}
