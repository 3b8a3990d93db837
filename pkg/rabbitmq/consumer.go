package rabbitmq

import (
	"context"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Handler processes one message received on a subscription.
type Handler func(topic string, msg mqtt.Message) error

// IConsumer subscribes and blocks until the context is cancelled.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler Handler)
}

// MultiConsumer subscribes one handler to several topic filters.
type MultiConsumer struct {
	client  mqtt.Client
	topics  []string
	qos     byte
	handler Handler
	log     *zap.Logger
}

func NewMultiConsumer(client mqtt.Client, topics []string, qos byte, log *zap.Logger) *MultiConsumer {
	return &MultiConsumer{client: client, topics: topics, qos: qos, log: log}
}

func (m *MultiConsumer) SetHandler(handler Handler) {
	m.handler = handler
}

func (m *MultiConsumer) ConsumeMessage(ctx context.Context) {
	for _, topic := range m.topics {
		topic := topic
		token := m.client.Subscribe(topic, m.qos, func(_ mqtt.Client, msg mqtt.Message) {
			if m.handler == nil {
				m.log.Warn("no handler set", zap.String("topic", topic))
				return
			}
			if err := m.handler(topic, msg); err != nil {
				m.log.Warn("error handling message", zap.String("topic", msg.Topic()), zap.Error(err))
			}
		})
		token.Wait()
		if err := token.Error(); err != nil {
			m.log.Error("subscribe failed", zap.String("topic", topic), zap.Error(err))
			continue
		}
		m.log.Info("subscribed", zap.String("topic", topic), zap.Int("qos", int(m.qos)))
	}

	<-ctx.Done()

	for _, topic := range m.topics {
		m.client.Unsubscribe(topic).Wait()
	}
}
