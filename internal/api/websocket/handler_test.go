package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub, origins []string) string {
	t.Helper()
	router := mux.NewRouter()
	router.Handle("/ws/games/{gameId}", NewHandler(hub, origins))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestHandler_StreamsGameMessages(t *testing.T) {
	hub := startHub(t)
	url := newTestServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(url+"/ws/games/5", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(ServerMessage{Type: MessageTypeStatRecorded, GameID: 5, Payload: map[string]int{"pontos": 4}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		Type    string         `json:"type"`
		GameID  int            `json:"game_id"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, MessageTypeStatRecorded, got.Type)
	assert.Equal(t, 5, got.GameID)
	assert.Equal(t, 4, got.Payload["pontos"])

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MessageTypeHeartbeat}))
	var beat ServerMessage
	require.NoError(t, conn.ReadJSON(&beat))
	assert.Equal(t, MessageTypeHeartbeat, beat.Type)
}

func TestHandler_RejectsBadGameID(t *testing.T) {
	hub := startHub(t)
	url := newTestServer(t, hub, nil)

	_, resp, err := websocket.DefaultDialer.Dial(url+"/ws/games/abc", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_ChecksOrigin(t *testing.T) {
	hub := startHub(t)
	url := newTestServer(t, hub, []string{"https://app.example"})

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url+"/ws/games/1", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://app.example")
	conn, _, err := websocket.DefaultDialer.Dial(url+"/ws/games/1", header)
	require.NoError(t, err)
	conn.Close()
}
