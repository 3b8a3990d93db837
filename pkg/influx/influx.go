// Package influx holds the InfluxDB settings and probes shared by the services that write to it.
package influx

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/LeonardoBeccarini/kisan_yatra/pkg/config"
)

type Config struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

// ConfigFromEnv reads INFLUX_URL, INFLUX_TOKEN, INFLUX_ORG and INFLUX_BUCKET.
func ConfigFromEnv(defURL, defBucket string) Config {
	return Config{
		URL:    config.Str("INFLUX_URL", defURL),
		Token:  config.Str("INFLUX_TOKEN", ""),
		Org:    config.Str("INFLUX_ORG", "kisanyatra"),
		Bucket: config.Str("INFLUX_BUCKET", defBucket),
	}
}

var ErrNotReady = errors.New("influx not ready")

// Check pings the server with a one second timeout.
func Check(c influxdb2.Client) func() error {
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		ok, err := c.Ping(ctx)
		if err != nil {
			return fmt.Errorf("influx ping: %w", err)
		}
		if !ok {
			return ErrNotReady
		}
		return nil
	}
}
