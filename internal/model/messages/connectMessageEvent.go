package messages

import "time"

// ConnectMessageEvent notifies subscribers of a state board that a new line was posted.
type ConnectMessageEvent struct {
	MessageID string    `json:"message_id"`
	State     string    `json:"state"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	Bot       bool      `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}
