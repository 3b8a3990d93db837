package app

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

// HandleDashboard serves GET /dashboard/data?userId=&location=
// userId defaults to the caller; location defaults to the one of the newest recommendation.
func (g *Gateway) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	userID := strings.TrimSpace(q.Get("userId"))
	if userID == "" {
		userID, _ = httpx.UserID(r)
	}
	location := strings.TrimSpace(q.Get("location"))

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	data := DashboardData{
		Recommendations: []entities.Recommendation{},
		MarketPrices:    []entities.MarketPrice{},
		Alerts:          []entities.WeatherAlert{},
	}
	var mu sync.Mutex
	note := func(u *Upstream, stale bool, err error) {
		if err == nil || errors.Is(err, ErrNotConfigured) {
			return
		}
		name := u.Name()
		if stale {
			name += " (stale)"
		}
		mu.Lock()
		data.Degraded = append(data.Degraded, name)
		mu.Unlock()
		g.log.Warn("upstream failed", zap.String("upstream", u.Name()), zap.Bool("stale", stale), zap.Error(err))
	}

	// Fetch in parallelo
	var eg errgroup.Group
	if userID != "" {
		eg.Go(func() error {
			var recs []entities.Recommendation
			stale, err := g.recommendation.GetJSON(ctx, "/recommendations", url.Values{"userId": {userID}}, &recs)
			note(g.recommendation, stale, err)
			if recs != nil {
				data.Recommendations = recs
			}
			return nil
		})
	}
	eg.Go(func() error {
		var prices []entities.MarketPrice
		stale, err := g.market.GetJSON(ctx, "/market/prices", nil, &prices)
		note(g.market, stale, err)
		if prices != nil {
			data.MarketPrices = prices
		}
		return nil
	})
	fetchAlerts := func(loc string) error {
		var alerts []entities.WeatherAlert
		stale, err := g.weather.GetJSON(ctx, "/weather/alerts", url.Values{"location": {loc}}, &alerts)
		note(g.weather, stale, err)
		if alerts != nil {
			data.Alerts = alerts
		}
		return nil
	}
	if location != "" {
		eg.Go(func() error { return fetchAlerts(location) })
	}
	_ = eg.Wait()

	if location == "" && len(data.Recommendations) > 0 {
		if location = strings.TrimSpace(data.Recommendations[0].Location); location != "" {
			_ = fetchAlerts(location)
		}
	}
	data.Stats = StatsOf(data.Recommendations)

	httpx.WriteJSON(w, http.StatusOK, data)

	g.log.Info("GET /dashboard/data",
		zap.Duration("took", time.Since(start)),
		zap.String("cb_recommendation", g.recommendation.State().String()),
		zap.String("cb_market", g.market.State().String()),
		zap.String("cb_weather", g.weather.State().String()),
		zap.Int("recommendations", len(data.Recommendations)),
		zap.Int("prices", len(data.MarketPrices)),
		zap.Int("alerts", len(data.Alerts)))
}

// HandleBreakers reports the state of every upstream breaker.
func (g *Gateway) HandleBreakers(w http.ResponseWriter, _ *http.Request) {
	out := map[string]string{}
	for _, u := range []*Upstream{g.recommendation, g.market, g.weather} {
		out[u.Name()] = u.State().String()
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
