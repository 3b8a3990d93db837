package scorer

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/breaker"
)

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(Interceptor(zap.NewNop(), nil)))
	RegisterScorerServer(srv, NewGrpcHandler(scoring.New(), zap.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestClientRecommend(t *testing.T) {
	c := NewClient(startServer(t), nil, time.Second)

	res, err := c.Recommend(context.Background(), entities.SoilReading{
		Nitrogen: 50, Phosphorus: 30, Potassium: 40, PH: 6.2,
		SoilMoisture: 40, WaterAvailability: 80, Location: "Chennai",
	})
	require.NoError(t, err)
	assert.Equal(t, "tamil nadu", res.Region)
	assert.Equal(t, scoring.PathRules, res.Path)
	require.Len(t, res.Crops, 5)
	assert.Equal(t, "Rice", res.Crops[0].Name)
	assert.Equal(t, 0.85, res.Crops[0].Confidence)
	assert.Equal(t, 44000, res.Crops[0].ProfitEstimate)
	assert.Equal(t, "High (1500-2000mm)", res.Crops[0].WaterUsage)
}

func TestRemoteMatchesLocal(t *testing.T) {
	c := NewClient(startServer(t), nil, time.Second)
	local := scoring.New()

	for _, r := range []entities.SoilReading{
		{},
		{SoilMoisture: 40, WaterAvailability: 60},
		{PH: 7, Potassium: 200, WaterAvailability: 85, SoilMoisture: 40, Location: "Ludhiana"},
	} {
		got, err := c.Recommend(context.Background(), r)
		require.NoError(t, err)
		assert.Equal(t, local.Recommend(r), got)
	}
}

func TestRecommendInvalidArgument(t *testing.T) {
	conn := startServer(t)

	in, err := structpb.NewStruct(map[string]any{"nitrogen": 1.0})
	require.NoError(t, err)
	err = conn.Invoke(context.Background(), RecommendMethod, in, new(structpb.Struct))
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "phosphorus")
}

func TestInvalidArgumentDoesNotTripBreaker(t *testing.T) {
	conn := startServer(t)
	cb := breaker.New("scorer", breaker.Settings{Failures: 1, IsSuccessful: CountsAsSuccess}, zap.NewNop(), nil)
	c := NewClient(conn, cb, time.Second)

	// requests without ph are refused by the server
	bad := &badConn{ClientConnInterface: conn}
	cBad := NewClient(bad, cb, time.Second)
	for i := 0; i < 3; i++ {
		_, err := cBad.Recommend(context.Background(), entities.SoilReading{})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}

	_, err := c.Recommend(context.Background(), entities.SoilReading{Location: "Chennai"})
	assert.NoError(t, err)
}

// badConn drops the ph field from every request.
type badConn struct {
	grpc.ClientConnInterface
}

func (b *badConn) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	in := args.(*structpb.Struct)
	delete(in.Fields, "ph")
	return b.ClientConnInterface.Invoke(ctx, method, in, reply, opts...)
}
