// Package event turns the MQTT domain events into system_event points on InfluxDB.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	msg "github.com/LeonardoBeccarini/kisan_yatra/internal/model/messages"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/dedup"
)

const (
	TypeRecommendation = "recommendation.created"
	TypeConnectMessage = "connect.message"
	TypeMarketPrice    = "market.price"

	recommendationPrefix = "event/recommendation/"
	connectPrefix        = "event/connect/"
	marketPrefix         = "event/market/"
)

// ErrUnknownTopic marks messages on topics no decoder handles.
var ErrUnknownTopic = errors.New("no decoder for topic")

type CommonEvent struct {
	EventType     string // recommendation.created | connect.message | market.price
	SourceService string // recommendation | connect | market
	Region        string // region or board state, "" for market quotes
	Subject       string // user id, or crop for market quotes
	Severity      string // info|warning
	Fields        map[string]interface{}
	Timestamp     time.Time
}

// Decode maps one MQTT message onto a CommonEvent.
func Decode(topic string, payload []byte) (CommonEvent, error) {
	switch {
	case strings.HasPrefix(topic, recommendationPrefix):
		return decodeRecommendation(topic, payload)
	case strings.HasPrefix(topic, connectPrefix):
		return decodeConnect(topic, payload)
	case strings.HasPrefix(topic, marketPrefix):
		return decodeMarket(topic, payload)
	}
	return CommonEvent{}, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
}

// MQTTHandler trasforma messaggi MQTT in CommonEvent e li passa a sink (Influx).
// Le redelivery QoS1 vengono scartate dal deduper.
type MQTTHandler struct {
	sink  func(CommonEvent)
	dedup *dedup.Deduper
	now   func() time.Time
	log   *zap.Logger
}

func NewMQTTHandler(sink func(CommonEvent), d *dedup.Deduper, log *zap.Logger) *MQTTHandler {
	return &MQTTHandler{sink: sink, dedup: d, now: time.Now, log: log}
}

func (h *MQTTHandler) Handle(_ string, m mqtt.Message) error {
	return h.handle(m.Topic(), m.Payload())
}

func (h *MQTTHandler) handle(topic string, payload []byte) error {
	if h.dedup != nil && !h.dedup.ShouldProcessPayload(payload) {
		h.log.Debug("duplicate dropped", zap.String("topic", topic))
		return nil
	}
	evt, err := Decode(topic, payload)
	if errors.Is(err, ErrUnknownTopic) {
		return nil // ignora altri topic
	}
	if err != nil {
		return err
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = h.now().UTC()
	}
	if h.sink != nil {
		h.sink(evt)
	}
	return nil
}

func decodeRecommendation(topic string, payload []byte) (CommonEvent, error) {
	var e msg.RecommendationCreatedEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return CommonEvent{}, fmt.Errorf("recommendation: %w", err)
	}
	region, user := pickIDs(topic, e.Region, e.UserID, recommendationPrefix)
	if user == "" {
		return CommonEvent{}, errors.New("recommendation: missing user")
	}
	sev := "info"
	if e.Crops == 0 {
		sev = "warning"
	}
	return CommonEvent{
		EventType:     TypeRecommendation,
		SourceService: "recommendation",
		Region:        region,
		Subject:       user,
		Severity:      sev,
		Fields: map[string]interface{}{
			"recommendation_id": e.RecommendationID,
			"path":              e.Path,
			"top_crop":          e.TopCrop,
			"top_confidence":    e.TopConfidence,
			"crops":             int64(e.Crops),
		},
		Timestamp: e.Timestamp,
	}, nil
}

func decodeConnect(topic string, payload []byte) (CommonEvent, error) {
	var e msg.ConnectMessageEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return CommonEvent{}, fmt.Errorf("connect: %w", err)
	}
	state := e.State
	if state == "" {
		state, _ = pickIDs(topic, "", "", connectPrefix)
	}
	if state == "" {
		return CommonEvent{}, errors.New("connect: missing state")
	}
	return CommonEvent{
		EventType:     TypeConnectMessage,
		SourceService: "connect",
		Region:        state,
		Subject:       e.UserID,
		Severity:      "info",
		Fields: map[string]interface{}{
			"message_id": e.MessageID,
			"user_name":  e.UserName,
			"text_len":   int64(len([]rune(e.Text))),
			"bot":        e.Bot,
		},
		Timestamp: e.Timestamp,
	}, nil
}

func decodeMarket(topic string, payload []byte) (CommonEvent, error) {
	var e msg.MarketPriceEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return CommonEvent{}, fmt.Errorf("market: %w", err)
	}
	crop := e.Crop
	if crop == "" {
		crop = strings.TrimPrefix(topic, marketPrefix)
	}
	if crop == "" {
		return CommonEvent{}, errors.New("market: missing crop")
	}
	sev := "info"
	if e.Trend == "down" {
		sev = "warning"
	}
	return CommonEvent{
		EventType:     TypeMarketPrice,
		SourceService: "market",
		Subject:       crop,
		Severity:      sev,
		Fields: map[string]interface{}{
			"price":  e.Price,
			"unit":   e.Unit,
			"market": e.Market,
			"trend":  e.Trend,
		},
		Timestamp: e.Timestamp,
	}, nil
}

// pickIDs usa payload, oppure topic "prefix/{a}/{b}".
func pickIDs(topic, a, b, prefix string) (string, string) {
	if strings.TrimSpace(a) != "" && strings.TrimSpace(b) != "" {
		return a, b
	}
	parts := strings.Split(strings.TrimPrefix(topic, prefix), "/")
	if strings.TrimSpace(a) == "" && len(parts) >= 1 {
		a = parts[0]
	}
	if strings.TrimSpace(b) == "" && len(parts) >= 2 {
		b = parts[1]
	}
	return a, b
}
