package websocket

import "time"

// Message types sent to clients
const (
	MessageTypeStatRecorded = "stats.recorded"
	MessageTypeHeartbeat    = "heartbeat"
	MessageTypeError        = "error"
)

// ServerMessage is the envelope written to every client
type ServerMessage struct {
	Type      string      `json:"type"`
	GameID    int         `json:"game_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is what clients may send; only heartbeats are understood
type ClientMessage struct {
	Type string `json:"type"`
}
