package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

const measurement = "market_price"

// InfluxSink writes one market_price point per quote.
type InfluxSink struct{ w api.WriteAPIBlocking }

func NewInfluxSink(w api.WriteAPIBlocking) *InfluxSink { return &InfluxSink{w: w} }

func (s *InfluxSink) WritePrice(ctx context.Context, p entities.MarketPrice) error {
	if err := s.w.WritePoint(ctx, PriceToPoint(p)); err != nil {
		return fmt.Errorf("write %s point: %w", measurement, err)
	}
	return nil
}

// PriceToPoint uses the quote date as timestamp when it parses, else the creation time.
func PriceToPoint(p entities.MarketPrice) *write.Point {
	ts := p.CreationTime
	if d, err := time.Parse("2006-01-02", p.Date); err == nil {
		ts = d
	}
	tags := map[string]string{
		"crop":   p.Crop,
		"market": p.Market,
		"unit":   p.Unit,
		"trend":  string(p.Trend),
	}
	fields := map[string]interface{}{"price": p.Price}
	return influxdb2.NewPoint(measurement, tags, fields, ts)
}

// InfluxHistory answers history queries with Flux.
type InfluxHistory struct {
	q      api.QueryAPI
	bucket string
}

func NewInfluxHistory(q api.QueryAPI, bucket string) *InfluxHistory {
	return &InfluxHistory{q: q, bucket: bucket}
}

func buildHistoryFlux(bucket, crop string, days, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dd)
  |> filter(fn: (r) => r._measurement == %q and r.crop == %q)
  |> filter(fn: (r) => r._field == "price")
  |> keep(columns: ["_time","_value","market"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, days, measurement, crop, limit)
}

func (h *InfluxHistory) PriceHistory(ctx context.Context, crop string, days, limit int) ([]PricePoint, error) {
	res, err := h.q.Query(ctx, buildHistoryFlux(h.bucket, crop, days, limit))
	if err != nil {
		return nil, fmt.Errorf("influx query: %w", err)
	}
	defer res.Close()

	out := make([]PricePoint, 0, limit)
	for res.Next() {
		rec := res.Record()
		pp := PricePoint{
			Time:  rec.Time().UTC().Format(time.RFC3339),
			Price: toFloat(rec.Value()),
		}
		if v, ok := rec.ValueByKey("market").(string); ok {
			pp.Market = v
		}
		out = append(out, pp)
	}
	if err := res.Err(); err != nil {
		return out, fmt.Errorf("influx iterate: %w", err)
	}
	return out, nil
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return f
		}
	}
	return 0
}
