package entities

// ConnectMessage is a chat line on a state board.
type ConnectMessage struct {
	Meta
	UserID   string `json:"userId"`
	State    string `json:"state"`
	Text     string `json:"text"`
	UserName string `json:"userName,omitempty"`
}

// ConnectContact is a phone contact shared on a state board.
type ConnectContact struct {
	Meta
	UserID string `json:"userId"`
	State  string `json:"state"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Note   string `json:"note,omitempty"`
}
