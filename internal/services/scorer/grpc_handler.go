// Package scorer exposes the crop scoring engine over gRPC.
// Messages are google.protobuf.Struct, so no generated stubs are needed.
package scorer

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
)

const (
	ServiceName     = "kisanyatra.scoring.v1.Scorer"
	RecommendMethod = "/" + ServiceName + "/Recommend"
)

// ScorerServer is the server API of the Scorer service.
type ScorerServer interface {
	Recommend(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc is registered by RegisterScorerServer.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScorerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Recommend", Handler: recommendHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kisanyatra/scoring/v1/scorer.proto",
}

func RegisterScorerServer(s grpc.ServiceRegistrar, srv ScorerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func recommendHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScorerServer).Recommend(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecommendMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScorerServer).Recommend(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GrpcHandler serves Recommend from an in-process scorer.
type GrpcHandler struct {
	scorer *scoring.Scorer
	log    *zap.Logger
}

func NewGrpcHandler(s *scoring.Scorer, log *zap.Logger) *GrpcHandler {
	return &GrpcHandler{scorer: s, log: log}
}

func (h *GrpcHandler) Recommend(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	reading, err := ParseReading(req.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res := h.scorer.Recommend(reading)
	out, err := ResultToStruct(res)
	if err != nil {
		h.log.Error("encode result", zap.Error(err))
		return nil, status.Error(codes.Internal, "encode result")
	}
	h.log.Debug("recommend",
		zap.String("region", res.Region),
		zap.String("path", string(res.Path)),
		zap.Int("crops", len(res.Crops)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
