package soil_simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/httpx"
)

type Config struct {
	APIBase    string // recommendation service, es. http://localhost:8082
	UserID     string
	Site       Site
	Interval   time.Duration
	Count      int // 0 = fino alla cancellazione del contesto
	MaxRetries uint64
}

// Simulator invia letture del generatore al servizio recommendation a intervalli regolari.
type Simulator struct {
	cfg    Config
	gen    *Generator
	client *http.Client
	log    *zap.Logger
}

func NewSimulator(cfg Config, gen *Generator, client *http.Client, log *zap.Logger) *Simulator {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return &Simulator{cfg: cfg, gen: gen, client: client, log: log}
}

type postBody struct {
	entities.SoilReading
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Start avvia il simulatore e invia una lettura per tick.
// Con Count > 0 si ferma dopo Count tentativi; ritorna gli invii riusciti.
func (s *Simulator) Start(ctx context.Context) (int, error) {
	if err := s.gen.SeedFromSoilGrids(ctx, s.cfg.Site); err != nil {
		s.log.Warn("soilgrids seed failed, using baseline", zap.Error(err))
	}

	sent := 0
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for attempt := 1; ; attempt++ {
		rec, err := s.PostOnce(ctx)
		if err != nil {
			s.log.Warn("post reading", zap.Int("attempt", attempt), zap.Error(err))
		} else {
			sent++
			top := ""
			if len(rec.RecommendedCrops) > 0 {
				top = rec.RecommendedCrops[0].Name
			}
			s.log.Info("recommendation created",
				zap.String("id", rec.ID),
				zap.String("region", rec.Region),
				zap.String("path", rec.Path),
				zap.String("top_crop", top))
		}
		if s.cfg.Count > 0 && attempt >= s.cfg.Count {
			return sent, nil
		}
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		case <-ticker.C:
		}
	}
}

// permanentStatus: errori del client che un retry non risolve.
func permanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

// PostOnce genera una lettura e la invia, con retry esponenziale sugli errori transitori.
func (s *Simulator) PostOnce(ctx context.Context) (entities.Recommendation, error) {
	body := postBody{SoilReading: s.gen.Next()}
	if s.cfg.Site.Latitude != 0 || s.cfg.Site.Longitude != 0 {
		lat, lon := s.cfg.Site.Latitude, s.cfg.Site.Longitude
		body.Latitude, body.Longitude = &lat, &lon
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return entities.Recommendation{}, err
	}

	var rec entities.Recommendation
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIBase+"/recommendations", bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(httpx.UserHeader, s.cfg.UserID)

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusCreated {
			err := fmt.Errorf("recommendation API %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
			if permanentStatus(resp.StatusCode) {
				return backoff.Permanent(err)
			}
			return err
		}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return backoff.Permanent(fmt.Errorf("decode recommendation: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = s.cfg.Interval
	retries := s.cfg.MaxRetries
	if retries == 0 {
		retries = 3
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, retries), ctx)); err != nil {
		return entities.Recommendation{}, err
	}
	return rec, nil
}
