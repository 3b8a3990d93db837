// Package connect runs the per-state farmer board: chat lines, shared contacts,
// the season bot and the farmer profile the board reads display names from.
package connect

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/messages"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/scoring"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/store"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq"
)

const (
	messagesTake = 30
	contactsTake = 50
	minPhoneLen  = 5

	DefaultTopicTemplate = "event/connect/{state}/message"
	UnknownState         = "unknown"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrInvalidPhone = errors.New("invalid phone")
	ErrNoState      = errors.New("state is required")
)

type Service struct {
	messages *store.Table[entities.ConnectMessage, *entities.ConnectMessage]
	contacts *store.Table[entities.ConnectContact, *entities.ConnectContact]
	users    *store.Table[entities.User, *entities.User]
	resolver *scoring.Resolver
	pub      rabbitmq.IPublisher
	topic    string
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Service)

// WithClock sets the time source; the bot greets by its hour.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithPublisher(p rabbitmq.IPublisher, topicTemplate string) Option {
	return func(s *Service) {
		s.pub = p
		if topicTemplate != "" {
			s.topic = topicTemplate
		}
	}
}

func WithResolver(r *scoring.Resolver) Option { return func(s *Service) { s.resolver = r } }

func NewService(log *zap.Logger, opts ...Option) *Service {
	s := &Service{topic: DefaultTopicTemplate, now: time.Now, log: log}
	for _, o := range opts {
		o(s)
	}
	if s.resolver == nil {
		s.resolver = scoring.BoardResolver()
	}
	s.messages = store.NewTable[entities.ConnectMessage](store.WithClock(s.now))
	s.contacts = store.NewTable[entities.ConnectContact](store.WithClock(s.now))
	s.users = store.NewTable[entities.User](store.WithClock(s.now))
	return s
}

// Messages lists the last 30 lines of a board, newest first.
func (s *Service) Messages(state string) []entities.ConnectMessage {
	return s.messages.Query(func(m entities.ConnectMessage) bool { return m.State == state }, messagesTake)
}

// Caller is the authenticated user posting to a board.
type Caller struct {
	ID    string
	Email string // from the auth proxy, may be empty
}

// Send posts text to a board under the caller's display name.
func (s *Service) Send(c Caller, state, text string) (entities.ConnectMessage, error) {
	if strings.TrimSpace(state) == "" {
		return entities.ConnectMessage{}, ErrNoState
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.ConnectMessage{}, ErrEmptyMessage
	}
	msg := s.messages.Insert(entities.ConnectMessage{
		UserID:   c.ID,
		State:    state,
		Text:     text,
		UserName: s.displayName(c),
	})
	s.publish(msg, false)
	return msg, nil
}

func (s *Service) displayName(c Caller) string {
	u, _ := s.users.Get(c.ID)
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	email := c.Email
	if email == "" {
		email = u.Email
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return "Farmer"
}

// DeleteMine removes the caller's own lines from a board.
func (s *Service) DeleteMine(userID, state string) int {
	n := s.messages.Delete(func(m entities.ConnectMessage) bool {
		return m.State == state && m.UserID == userID
	})
	s.log.Info("connect messages deleted", zap.String("state", state), zap.String("user", userID), zap.Int("count", n))
	return n
}

// Contacts lists the last 50 contacts shared on a board, newest first.
func (s *Service) Contacts(state string) []entities.ConnectContact {
	return s.contacts.Query(func(c entities.ConnectContact) bool { return c.State == state }, contactsTake)
}

func (s *Service) ShareContact(userID, state string, in entities.ConnectContact) (entities.ConnectContact, error) {
	if strings.TrimSpace(state) == "" {
		return entities.ConnectContact{}, ErrNoState
	}
	phone := strings.TrimSpace(in.Phone)
	if len(phone) < minPhoneLen {
		return entities.ConnectContact{}, ErrInvalidPhone
	}
	return s.contacts.Insert(entities.ConnectContact{
		UserID: userID,
		State:  state,
		Name:   strings.TrimSpace(in.Name),
		Phone:  phone,
		Note:   strings.TrimSpace(in.Note),
	}), nil
}

var (
	demoMessages = []string{
		"Anyone selling quality paddy seedlings near me?",
		"We got light showers yesterday; good time to sow.",
		"Local mandi offering better rate for maize this week.",
	}
	demoContacts = []entities.ConnectContact{
		{Name: "Ravi", Phone: "98765 43210", Note: "Tractor service"},
		{Name: "Meena", Phone: "91234 56780", Note: "Organic fertilizer"},
	}
)

// Seed fills a board with demo lines and contacts owned by the caller.
func (s *Service) Seed(userID, state string) (string, error) {
	if strings.TrimSpace(state) == "" {
		return "", ErrNoState
	}
	for _, text := range demoMessages {
		s.messages.Insert(entities.ConnectMessage{UserID: userID, State: state, Text: text})
	}
	for _, c := range demoContacts {
		c.UserID, c.State = userID, state
		s.contacts.Insert(c)
	}
	s.log.Info("connect board seeded", zap.String("state", state), zap.String("user", userID))
	return "Seeded connect data", nil
}

// StateFor infers the board of a free text location, "unknown" when nothing matches.
func (s *Service) StateFor(location string) string {
	if st, ok := s.resolver.Resolve(location); ok {
		return st
	}
	return UnknownState
}

func (s *Service) publish(m entities.ConnectMessage, bot bool) {
	if s.pub == nil {
		return
	}
	topic := rabbitmq.FormatTopic(s.topic, "state", m.State)
	evt := messages.ConnectMessageEvent{
		MessageID: m.ID,
		State:     m.State,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Text:      m.Text,
		Bot:       bot,
		Timestamp: m.CreationTime,
	}
	if err := s.pub.PublishJSON(topic, evt); err != nil {
		s.log.Warn("publish connect event", zap.String("topic", topic), zap.Error(err))
	}
}
