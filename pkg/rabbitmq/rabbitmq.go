// Package rabbitmq wraps the MQTT plugin of RabbitMQ used as the event bus between services.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	ClientID string

	// MaxRetries bounds the connection attempts (default 5).
	MaxRetries int
	// MaxElapsed bounds the whole backoff (default 10s).
	MaxElapsed time.Duration
}

func (c RabbitMQConfig) broker() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

// NewRabbitMQConn connects with exponential backoff and disconnects when ctx is done.
func NewRabbitMQConn(ctx context.Context, cfg RabbitMQConfig, log *zap.Logger) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.broker())
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = cfg.MaxElapsed
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Warn("mqtt connect attempt failed", zap.String("broker", cfg.broker()), zap.Error(token.Error()))
			return token.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(maxRetries-1)), ctx))
	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}
	log.Info("connected to mqtt broker", zap.String("broker", cfg.broker()), zap.String("client_id", cfg.ClientID))

	go func() {
		<-ctx.Done()
		CloseRabbitMQConn(client, log)
	}()
	return client, nil
}

func CloseRabbitMQConn(client mqtt.Client, log *zap.Logger) {
	if client != nil && client.IsConnected() {
		client.Disconnect(250)
		log.Info("mqtt connection closed")
	}
}

// ErrNotConnected is reported by Check while the broker link is down.
var ErrNotConnected = errors.New("mqtt not connected")

// Check is a readiness probe for client.
func Check(client mqtt.Client) func() error {
	return func() error {
		if client == nil || !client.IsConnectionOpen() {
			return ErrNotConnected
		}
		return nil
	}
}
