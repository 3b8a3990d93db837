package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// RemoteClient asks a weather service for current conditions; it satisfies Provider.
type RemoteClient struct {
	base string
	http *http.Client
}

func NewRemoteClient(base string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		base: strings.TrimRight(strings.TrimSpace(base), "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *RemoteClient) Current(ctx context.Context, lat, lon float64) (*entities.WeatherData, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/weather/current?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather upstream status %d", resp.StatusCode)
	}
	var wd entities.WeatherData
	if err := json.NewDecoder(resp.Body).Decode(&wd); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	return &wd, nil
}
