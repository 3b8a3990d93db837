package soil_simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

const (
	// soilGridsURL: fetch singola all'avvio; NON chiamare ad ogni tick.
	soilGridsURL = "https://rest.isric.org/soilgrids/v2.0/properties/query?lat=%f&lon=%f" +
		"&property=nitrogen&property=phh2o&property=wv0033&depth=0-5cm&value=mean"

	// ampiezza massima del random walk per tick, in unita' della grandezza
	stepNPK      = 2.0
	stepPH       = 0.05
	stepMoisture = 1.5
	stepWater    = 2.0
)

// Baseline is the soil the walk starts from and drifts back to.
var Baseline = entities.SoilReading{
	Nitrogen:          50,
	Phosphorus:        30,
	Potassium:         40,
	PH:                6.5,
	SoilMoisture:      35,
	WaterAvailability: 60,
}

// Site is where the simulated farm is.
type Site struct {
	Latitude  float64
	Longitude float64
	Location  string
}

// Generator produce letture NPK/pH/umidita' con un random walk attorno a una baseline.
// Esegue al massimo UNA fetch opzionale a SoilGrids in fase di startup.
type Generator struct {
	mu         sync.Mutex
	seeded     bool
	base       entities.SoilReading
	cur        entities.SoilReading
	rnd        *rand.Rand
	httpClient *http.Client
	url        string
}

type GeneratorOption func(*Generator)

// WithRand makes the walk reproducible.
func WithRand(r *rand.Rand) GeneratorOption { return func(g *Generator) { g.rnd = r } }

func WithHTTPClient(c *http.Client) GeneratorOption { return func(g *Generator) { g.httpClient = c } }

// WithSoilGridsURL overrides the query template (two %f verbs: lat, lon).
func WithSoilGridsURL(u string) GeneratorOption { return func(g *Generator) { g.url = u } }

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		base:       Baseline,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		url:        soilGridsURL,
	}
	for _, o := range opts {
		o(g)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// SeedFromSoilGrids --> singola fetch a SoilGrids all'avvio.
// Se fallisce resta la baseline di default e l'errore viene restituito solo per il log.
func (g *Generator) SeedFromSoilGrids(ctx context.Context, site Site) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seeded {
		return nil
	}
	g.seeded = true
	g.base.Location = site.Location
	g.cur = g.base

	if site.Latitude == 0 && site.Longitude == 0 {
		return nil
	}
	props, err := g.fetch(ctx, site.Latitude, site.Longitude)
	if err != nil {
		return err
	}
	applySoilGrids(&g.base, props)
	g.cur = g.base
	return nil
}

// Next avanza il random walk e restituisce la lettura corrente.
func (g *Generator) Next() entities.SoilReading {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.seeded {
		g.seeded = true
		g.cur = g.base
	}
	c := &g.cur
	c.Nitrogen = g.walk(c.Nitrogen, g.base.Nitrogen, stepNPK, 0, 200)
	c.Phosphorus = g.walk(c.Phosphorus, g.base.Phosphorus, stepNPK, 0, 150)
	c.Potassium = g.walk(c.Potassium, g.base.Potassium, stepNPK, 0, 200)
	c.PH = g.walk(c.PH, g.base.PH, stepPH, 3.5, 9.5)
	c.SoilMoisture = g.walk(c.SoilMoisture, g.base.SoilMoisture, stepMoisture, 0, 100)
	c.WaterAvailability = g.walk(c.WaterAvailability, g.base.WaterAvailability, stepWater, 0, 100)
	return *c
}

// walk: passo casuale in [-step, step] con richiamo del 10% verso la baseline.
func (g *Generator) walk(cur, base, step, lo, hi float64) float64 {
	next := cur + (g.rnd.Float64()*2-1)*step + (base-cur)*0.1
	return round2(clamp(next, lo, hi))
}

// ===== SoilGrids =====

func (g *Generator) fetch(ctx context.Context, lat, lon float64) (map[string]float64, error) {
	url := fmt.Sprintf(g.url, lat, lon)
	var lastErr error

	attemptOnce := func() (props map[string]float64, retry bool, err error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, false, err
		}
		req.Header.Set("User-Agent", "kisanyatra-soil-simulator/1.0")

		resp, err := g.httpClient.Do(req)
		if err != nil {
			return nil, true, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, true, err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var parsed soilGridsResponse
			if err := json.Unmarshal(body, &parsed); err != nil {
				return nil, false, fmt.Errorf("soilgrids: %w", err)
			}
			props := parsed.values()
			if len(props) == 0 {
				return nil, false, errors.New("soilgrids: no values for this point")
			}
			return props, false, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, true, fmt.Errorf("soilgrids HTTP %d", resp.StatusCode)
		default:
			return nil, false, fmt.Errorf("soilgrids HTTP %d", resp.StatusCode)
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		props, retry, err := attemptOnce()
		if err == nil {
			return props, nil
		}
		lastErr = err
		if !retry {
			return nil, lastErr
		}
		if attempt == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(g.rnd.Intn(400)+600) * time.Millisecond):
			}
		}
	}
	return nil, lastErr
}

type soilGridsResponse struct {
	Properties struct {
		Layers []struct {
			Name        string `json:"name"`
			UnitMeasure struct {
				DFactor float64 `json:"d_factor"`
			} `json:"unit_measure"`
			Depths []struct {
				Values map[string]*float64 `json:"values"`
			} `json:"depths"`
		} `json:"layers"`
	} `json:"properties"`
}

// values estrae la media del primo intervallo di profondita' per layer, gia' divisa per d_factor.
func (r soilGridsResponse) values() map[string]float64 {
	out := map[string]float64{}
	for _, l := range r.Properties.Layers {
		if len(l.Depths) == 0 {
			continue
		}
		v := l.Depths[0].Values["mean"]
		if v == nil {
			continue
		}
		f := *v
		if l.UnitMeasure.DFactor > 0 {
			f /= l.UnitMeasure.DFactor
		}
		out[l.Name] = f
	}
	return out
}

// applySoilGrids porta le grandezze SoilGrids nel dominio delle letture.
// nitrogen (g/kg) -> kg/ha stimati sui primi 15 cm; phh2o e' gia' pH; wv0033 e' in % volumetrica.
func applySoilGrids(r *entities.SoilReading, props map[string]float64) {
	if n, ok := props["nitrogen"]; ok && n > 0 {
		// ~2% dell'azoto totale e' disponibile; 1 g/kg su 15 cm ~ 2000 kg/ha
		r.Nitrogen = round2(clamp(n*2000*0.02, 0, 200))
	}
	if ph, ok := props["phh2o"]; ok && ph > 0 {
		r.PH = round2(clamp(ph, 3.5, 9.5))
	}
	if wv, ok := props["wv0033"]; ok && wv > 0 {
		if wv <= 1.5 {
			wv *= 100 // frazione cm3/cm3
		}
		r.SoilMoisture = round2(clamp(wv, 0, 100))
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
