package scorer

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
)

// Client calls a remote Scorer through a circuit breaker.
type Client struct {
	conn    grpc.ClientConnInterface
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// Dial opens a lazy, insecure connection to addr (host:port).
func Dial(addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial scorer %s: %w", addr, err)
	}
	return conn, nil
}

// NewClient wraps conn; cb may be nil.
func NewClient(conn grpc.ClientConnInterface, cb *gobreaker.CircuitBreaker, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{conn: conn, cb: cb, timeout: timeout}
}

// CountsAsSuccess keeps caller mistakes from tripping the breaker.
func CountsAsSuccess(err error) bool {
	return err == nil || status.Code(err) == codes.InvalidArgument
}

func (c *Client) Recommend(ctx context.Context, r entities.SoilReading) (scoring.Result, error) {
	call := func() (any, error) {
		in, err := ReadingToStruct(r)
		if err != nil {
			return nil, fmt.Errorf("encode reading: %w", err)
		}
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		out := new(structpb.Struct)
		if err := c.conn.Invoke(ctx, RecommendMethod, in, out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var (
		v   any
		err error
	)
	if c.cb != nil {
		v, err = c.cb.Execute(call)
	} else {
		v, err = call()
	}
	if err != nil {
		if status.Code(err) == codes.InvalidArgument {
			return scoring.Result{}, &ValidationError{Field: "reading", Reason: status.Convert(err).Message()}
		}
		return scoring.Result{}, fmt.Errorf("scorer recommend: %w", err)
	}
	return ResultFromStruct(v.(*structpb.Struct))
}
