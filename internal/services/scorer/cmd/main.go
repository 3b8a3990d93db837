package main

import (
	"context"
	"net"
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
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/services/scorer"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/logging"
)

func main() {
	log := logging.New("scorer")
	defer func() { _ = log.Sync() }()

	grpcPort := config.Int("GRPC_PORT", 50051)
	httpPort := config.Int("HTTP_PORT", 8081)
	tablePath := config.Str("REGION_TABLE_PATH", "")

	s, err := scorer.LoadScorer(tablePath, log)
	if err != nil {
		log.Fatal("scorer init", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- metrics ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kisanyatra",
		Name:      "scorer_grpc_requests_total",
		Help:      "Recommend calls by gRPC status code.",
	}, []string{"code"})
	reg.MustRegister(calls)

	// ---- gRPC ----
	addr := ":" + strconv.Itoa(grpcPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("listen", zap.String("addr", addr), zap.Error(err))
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(scorer.Interceptor(log, calls)))
	scorer.RegisterScorerServer(grpcServer, scorer.NewGrpcHandler(s, log))
	hs := health.NewServer()
	hs.SetServingStatus(scorer.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	go func() {
		log.Info("scorer gRPC listening", zap.String("addr", addr), zap.String("tables", tablePath))
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal("gRPC serve", zap.Error(err))
		}
	}()

	// ---- HTTP (probes + metrics) ----
	r := mux.NewRouter()
	r.HandleFunc("/healthz", httpx.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", httpx.Ready(nil)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(httpPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := httpx.Serve(ctx, srv, 5*time.Second, log); err != nil {
		log.Error("http", zap.Error(err))
	}

	hs.Shutdown()
	grpcServer.GracefulStop()
	log.Info("scorer stopped")
}
