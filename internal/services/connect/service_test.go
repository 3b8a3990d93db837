package connect

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/messages"
	"github.com/LeonardoBeccarini/kisan_yatra/pkg/rabbitmq/rabbitmqtest"
)

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2024, 7, 1, hour, 30, 0, 0, time.UTC) }
}

func newTestService(opts ...Option) (*Service, *rabbitmqtest.Recorder) {
	pub := &rabbitmqtest.Recorder{}
	opts = append([]Option{WithClock(at(9)), WithPublisher(pub, "")}, opts...)
	return NewService(zap.NewNop(), opts...), pub
}

func TestSendTrimsAndPublishes(t *testing.T) {
	svc, pub := newTestService()

	msg, err := svc.Send(Caller{ID: "u1", Email: "asha@example.com"}, "tamil nadu", "  rain today?  ")
	require.NoError(t, err)
	assert.Equal(t, "rain today?", msg.Text)
	assert.Equal(t, "asha", msg.UserName)
	assert.NotEmpty(t, msg.ID)

	msgs := pub.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "event/connect/tamil_nadu/message", msgs[0].Topic)
	var evt messages.ConnectMessageEvent
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &evt))
	assert.Equal(t, msg.ID, evt.MessageID)
	assert.False(t, evt.Bot)
}

func TestSendRejectsEmpty(t *testing.T) {
	svc, pub := newTestService()
	_, err := svc.Send(Caller{ID: "u1"}, "punjab", " \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = svc.Send(Caller{ID: "u1"}, " ", "hello")
	assert.ErrorIs(t, err, ErrNoState)
	assert.Empty(t, svc.Messages("punjab"))
	assert.Empty(t, pub.Messages())
}

func TestDisplayName(t *testing.T) {
	svc, _ := newTestService()

	m, _ := svc.Send(Caller{ID: "u1"}, "kerala", "hi")
	assert.Equal(t, "Farmer", m.UserName)

	svc.UpdateProfile(Caller{ID: "u1", Email: "ravi.k@example.com"}, ProfileUpdate{})
	m, _ = svc.Send(Caller{ID: "u1"}, "kerala", "hi")
	assert.Equal(t, "ravi.k", m.UserName, "email remembered on the profile")

	name := "  Ravi Kumar "
	svc.UpdateProfile(Caller{ID: "u1"}, ProfileUpdate{Name: &name})
	m, _ = svc.Send(Caller{ID: "u1", Email: "other@example.com"}, "kerala", "hi")
	assert.Equal(t, "Ravi Kumar", m.UserName)

	blank := "   "
	svc.UpdateProfile(Caller{ID: "u1"}, ProfileUpdate{Name: &blank})
	m, _ = svc.Send(Caller{ID: "u1"}, "kerala", "hi")
	assert.Equal(t, "ravi.k", m.UserName)
}

func TestMessagesPerStateNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 35; i++ {
		_, err := svc.Send(Caller{ID: "u1"}, "punjab", fmt.Sprintf("line %d", i))
		require.NoError(t, err)
	}
	_, _ = svc.Send(Caller{ID: "u2"}, "assam", "elsewhere")

	got := svc.Messages("punjab")
	require.Len(t, got, 30)
	assert.Equal(t, "line 34", got[0].Text)
	assert.Equal(t, "line 5", got[29].Text)
	assert.Len(t, svc.Messages("assam"), 1)
	assert.Empty(t, svc.Messages("bihar"))
}

func TestDeleteMineOnlyTouchesCallerInState(t *testing.T) {
	svc, _ := newTestService()
	_, _ = svc.Send(Caller{ID: "u1"}, "punjab", "mine")
	_, _ = svc.Send(Caller{ID: "u1"}, "punjab", "mine too")
	_, _ = svc.Send(Caller{ID: "u2"}, "punjab", "theirs")
	_, _ = svc.Send(Caller{ID: "u1"}, "assam", "other board")

	assert.Equal(t, 2, svc.DeleteMine("u1", "punjab"))
	left := svc.Messages("punjab")
	require.Len(t, left, 1)
	assert.Equal(t, "theirs", left[0].Text)
	assert.Len(t, svc.Messages("assam"), 1)
	assert.Equal(t, 0, svc.DeleteMine("u1", "punjab"))
}

func TestShareContact(t *testing.T) {
	svc, _ := newTestService()

	c, err := svc.ShareContact("u1", "gujarat", entities.ConnectContact{Name: " Ravi ", Phone: " 98765 ", Note: " tractor "})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", c.Name)
	assert.Equal(t, "98765", c.Phone)
	assert.Equal(t, "tractor", c.Note)
	assert.Equal(t, "u1", c.UserID)

	_, err = svc.ShareContact("u1", "gujarat", entities.ConnectContact{Name: "X", Phone: " 1234   "})
	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Len(t, svc.Contacts("gujarat"), 1)
}

func TestContactsTake(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 55; i++ {
		_, err := svc.ShareContact("u1", "assam", entities.ConnectContact{Name: fmt.Sprint(i), Phone: "12345"})
		require.NoError(t, err)
	}
	got := svc.Contacts("assam")
	require.Len(t, got, 50)
	assert.Equal(t, "54", got[0].Name)
}

func TestSeed(t *testing.T) {
	svc, pub := newTestService()
	msg, err := svc.Seed("u1", "punjab")
	require.NoError(t, err)
	assert.Equal(t, "Seeded connect data", msg)

	got := svc.Messages("punjab")
	require.Len(t, got, 3)
	assert.Equal(t, "Local mandi offering better rate for maize this week.", got[0].Text)
	assert.Empty(t, got[0].UserName)

	contacts := svc.Contacts("punjab")
	require.Len(t, contacts, 2)
	assert.Equal(t, "Meena", contacts[0].Name)
	assert.Equal(t, "91234 56780", contacts[0].Phone)
	assert.Equal(t, "u1", contacts[1].UserID)
	assert.Empty(t, pub.Messages(), "demo lines are not announced")
}

func TestStateFor(t *testing.T) {
	svc, _ := newTestService()
	assert.Equal(t, "bihar", svc.StateFor("Patna"))
	assert.Equal(t, "maharashtra", svc.StateFor("village near Maharashtra border"))
	assert.Equal(t, "tamil nadu", svc.StateFor("CHENNAI"))
	assert.Equal(t, UnknownState, svc.StateFor("Atlantis"))
	assert.Equal(t, UnknownState, svc.StateFor(""))
}

func TestProfilePartialUpdate(t *testing.T) {
	svc, _ := newTestService()
	_, ok := svc.Profile("u1")
	assert.False(t, ok)

	name, lang := "Asha", "hi"
	age := 41.0
	u := svc.UpdateProfile(Caller{ID: "u1"}, ProfileUpdate{Name: &name, Age: &age, Language: &lang})
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Asha", u.Name)

	loc := "Ludhiana"
	size := 2.5
	u = svc.UpdateProfile(Caller{ID: "u1"}, ProfileUpdate{Location: &loc, FarmSize: &size})
	assert.Equal(t, "Asha", u.Name, "untouched fields survive")
	assert.Equal(t, "hi", u.Language)
	require.NotNil(t, u.Age)
	assert.Equal(t, 41.0, *u.Age)
	require.NotNil(t, u.FarmSize)
	assert.Equal(t, 2.5, *u.FarmSize)
	assert.Equal(t, "Ludhiana", u.Location)

	stored, ok := svc.Profile("u1")
	require.True(t, ok)
	assert.Equal(t, u, stored)
}
