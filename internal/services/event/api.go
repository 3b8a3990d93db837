package event

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

// RecentRecommendation is one recommendation.created event as the gateway reads it.
type RecentRecommendation struct {
	UserID        string  `json:"userId,omitempty"`
	Region        string  `json:"region,omitempty"`
	Path          string  `json:"path,omitempty"`
	TopCrop       string  `json:"topCrop,omitempty"`
	TopConfidence float64 `json:"topConfidence"`
	Time          string  `json:"time"` // RFC3339
}

type latestParams struct {
	Minutes   int
	Limit     int
	TimeoutMS int
	Region    string
}

func parseLatest(r *http.Request, defMin, defLim, defTOms int) latestParams {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return latestParams{
		Minutes:   get("minutes", defMin, 1, 7*24*60),
		Limit:     get("limit", defLim, 1, 500),
		TimeoutMS: get("timeout_ms", defTOms, 200, 5000),
		Region:    strings.ToLower(strings.TrimSpace(q.Get("region"))),
	}
}

func buildFlux(bucket string, p latestParams) string {
	regionFilter := ""
	if p.Region != "" {
		regionFilter = fmt.Sprintf("\n  |> filter(fn: (r) => r.region == %q)", p.Region)
	}
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == %q and r.event_type == %q)%s
  |> filter(fn: (r) => r._field == "top_crop" or r._field == "top_confidence" or r._field == "path")
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> group()
  |> keep(columns: ["_time","region","subject","top_crop","top_confidence","path"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, p.Minutes, Measurement, TypeRecommendation, regionFilter, p.Limit)
}

func toRecent(rec *query.FluxRecord) RecentRecommendation {
	out := RecentRecommendation{Time: rec.Time().UTC().Format(time.RFC3339)}
	str := func(k string) string {
		s, _ := rec.ValueByKey(k).(string)
		return strings.TrimSpace(s)
	}
	out.UserID = str("subject")
	out.Region = str("region")
	out.TopCrop = str("top_crop")
	out.Path = str("path")
	switch v := rec.ValueByKey("top_confidence").(type) {
	case float64:
		out.TopConfidence = v
	case int64:
		out.TopConfidence = float64(v)
	}
	return out
}

// NewRecommendationsLatestHandler serves
// GET /events/recommendations/latest?limit=20[&minutes=1440&region=punjab]
func NewRecommendationsLatestHandler(q api.QueryAPI, bucket string, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := parseLatest(r, 1440, 20, 2000)

		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(p.TimeoutMS)*time.Millisecond)
		defer cancel()

		res, err := q.Query(ctx, buildFlux(bucket, p))
		if err != nil {
			log.Warn("influx query", zap.Error(err))
			w.Header().Set("X-Error", "influx-query-error")
			httpx.WriteJSON(w, http.StatusOK, []RecentRecommendation{})
			return
		}
		defer func() { _ = res.Close() }()

		out := make([]RecentRecommendation, 0, p.Limit)
		for res.Next() {
			out = append(out, toRecent(res.Record()))
		}
		if res.Err() != nil {
			log.Warn("influx iterate", zap.Error(res.Err()))
			w.Header().Set("X-Error", "influx-iter-error")
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	})
}
