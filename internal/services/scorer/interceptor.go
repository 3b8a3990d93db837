package scorer

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Interceptor counts calls by status code and logs failures.
func Interceptor(log *zap.Logger, calls *prometheus.CounterVec) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		if calls != nil {
			calls.WithLabelValues(code.String()).Inc()
		}
		if err != nil {
			log.Warn("grpc call failed",
				zap.String("method", info.FullMethod),
				zap.String("code", code.String()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
		}
		return resp, err
	}
}
