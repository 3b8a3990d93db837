package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

const defaultOWMBase = "https://api.openweathermap.org"

var ErrMissingAPIKey = errors.New("missing api key")

type owmCurrent struct {
	Dt       int64 `json:"dt"`
	Timezone int   `json:"timezone"` // offset UTC in secondi
	Main     struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// OWMClient reads current conditions from the OpenWeather 2.5 API.
type OWMClient struct {
	apiKey string
	base   string
	http   *http.Client
}

type OWMOption func(*OWMClient)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(u string) OWMOption { return func(c *OWMClient) { c.base = u } }

func WithHTTPClient(h *http.Client) OWMOption { return func(c *OWMClient) { c.http = h } }

func NewOWMClient(key string, opts ...OWMOption) *OWMClient {
	c := &OWMClient{apiKey: key, base: defaultOWMBase, http: &http.Client{Timeout: 5 * time.Second}}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *OWMClient) Current(ctx context.Context, lat, lon float64) (*entities.WeatherData, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/data/2.5/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("owm request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("owm request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("owm status %d: %s", resp.StatusCode, string(b))
	}
	var out owmCurrent
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("owm decode: %w", err)
	}
	return toWeatherData(out), nil
}

func toWeatherData(o owmCurrent) *entities.WeatherData {
	forecast := "Clear"
	if len(o.Weather) > 0 {
		forecast = o.Weather[0].Main
		if o.Weather[0].Description != "" {
			forecast = o.Weather[0].Description
		}
	}
	wd := &entities.WeatherData{
		Temperature: o.Main.Temp,
		Humidity:    o.Main.Humidity,
		Rainfall:    o.Rain.OneHour,
		Forecast:    forecast,
	}
	if o.Dt > 0 {
		// ora locale della stazione, non del server
		loc := time.FixedZone("", o.Timezone)
		wd.LocalTime = time.Unix(o.Dt, 0).In(loc).Format("15:04")
	}
	return wd
}
