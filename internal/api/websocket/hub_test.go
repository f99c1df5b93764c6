package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	return ServerMessage{}
}

func TestHub_DeliversOnlyToFollowersOfTheGame(t *testing.T) {
	hub := startHub(t)
	a := NewClient("a", 1, nil, hub)
	b := NewClient("b", 1, nil, hub)
	other := NewClient("c", 2, nil, hub)
	for _, c := range []*Client{a, b, other} {
		hub.Register(c)
	}
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(ServerMessage{Type: MessageTypeStatRecorded, GameID: 1, Payload: "x"})

	assert.Equal(t, "x", receive(t, a).Payload)
	assert.Equal(t, "x", receive(t, b).Payload)
	select {
	case msg := <-other.Send:
		t.Fatalf("game 2 client got %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := NewClient("a", 1, nil, hub)
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)

	// a second unregister is a no-op
	hub.Unregister(c)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := startHub(t)
	c := NewClient("slow", 1, nil, hub)
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBufferSize+1; i++ {
		hub.Broadcast(ServerMessage{GameID: 1, Payload: i})
	}

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient("a", 3, nil, hub)
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped
	_, ok := <-c.Send
	assert.False(t, ok)

	// calls after shutdown must not block
	hub.Unregister(c)
	late := NewClient("late", 3, nil, hub)
	hub.Register(late)
	_, ok = <-late.Send
	assert.False(t, ok)
}
