package rabbitmq

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// IPublisher sends one message to a topic.
type IPublisher interface {
	PublishJSON(topic string, v any) error
}

// Publisher publishes JSON payloads with a fixed QoS on a shared client.
type Publisher struct {
	client mqtt.Client
	qos    byte
	log    *zap.Logger
}

func NewPublisher(client mqtt.Client, qos byte, log *zap.Logger) *Publisher {
	return &Publisher{client: client, qos: qos, log: log}
}

func (p *Publisher) PublishJSON(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", topic, err)
	}
	token := p.client.Publish(topic, p.qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.log.Debug("message published", zap.String("topic", topic), zap.Int("bytes", len(payload)))
	return nil
}

// FormatTopic fills {placeholders} in tmpl; values are sanitized so they cannot add topic levels.
func FormatTopic(tmpl string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", topicLevel(kv[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func topicLevel(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, s)
}
