package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512

	sendBufferSize = 64
)

// Unregisterer is the part of the hub a client talks back to
type Unregisterer interface {
	Unregister(client *Client)
}

// Client is one websocket connection following a single game
type Client struct {
	ID     string
	GameID int
	// Send is closed by the hub when the client is dropped.
	Send chan ServerMessage

	conn         *websocket.Conn
	hub          Unregisterer
	connectedAt  time.Time
	messagesSent int64
}

// NewClient creates a client for gameID. conn may be nil in tests that never pump.
func NewClient(id string, gameID int, conn *websocket.Conn, hub Unregisterer) *Client {
	return &Client{
		ID:          id,
		GameID:      gameID,
		Send:        make(chan ServerMessage, sendBufferSize),
		conn:        conn,
		hub:         hub,
		connectedAt: time.Now(),
	}
}

// TrySend queues msg without blocking; false means the buffer is full
func (c *Client) TrySend(msg ServerMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump reads client messages until the connection fails, then unregisters
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithField("client_id", c.ID).WithError(err).Warn("websocket closed unexpectedly")
			}
			return
		}

		switch msg.Type {
		case MessageTypeHeartbeat:
			c.TrySend(ServerMessage{
				Type:      MessageTypeHeartbeat,
				GameID:    c.GameID,
				Payload:   map[string]interface{}{"messages_sent": atomic.LoadInt64(&c.messagesSent), "connected_at": c.connectedAt},
				Timestamp: time.Now(),
			})
		default:
			c.TrySend(ServerMessage{
				Type:      MessageTypeError,
				Payload:   map[string]string{"error": "unknown message type"},
				Timestamp: time.Now(),
			})
		}
	}
}

// WritePump writes queued messages and keepalive pings to the connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.WithField("client_id", c.ID).WithError(err).Debug("websocket write failed")
				return
			}
			atomic.AddInt64(&c.messagesSent, 1)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
