// Package rabbitmqtest provides an in-memory IPublisher for tests.
package rabbitmqtest

import (
	"encoding/json"
	"sync"
)

type Message struct {
	Topic   string
	Payload []byte
}

// Recorder keeps every published message; Err, when set, is returned instead.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (r *Recorder) PublishJSON(topic string, v any) error {
	if r.Err != nil {
		return r.Err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.msgs = append(r.msgs, Message{Topic: topic, Payload: b})
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}
