package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/scoremvp/scoremvp/internal/publisher"
)

const (
	relayBatchSize = 100
	relayBlock     = time.Second
	relayBackoff   = time.Second
)

// StreamReader is the XREAD capability of a Redis client
type StreamReader interface {
	XRead(ctx context.Context, a *redis.XReadArgs) *redis.XStreamSliceCmd
}

// Relay follows the stats stream and pushes every recorded line to the hub.
// Each server instance reads the whole stream, so all of them see every event.
type Relay struct {
	reader StreamReader
	hub    *Hub
	// LastID is where reading starts; "$" means only new events.
	LastID string
}

// NewRelay creates a relay reading publisher.StatsStream into hub
func NewRelay(reader StreamReader, hub *Hub) *Relay {
	return &Relay{
		reader: reader,
		hub:    hub,
		LastID: "$",
	}
}

// Run reads until ctx is cancelled
func (r *Relay) Run(ctx context.Context) {
	log.WithField("stream", publisher.StatsStream).Info("✓ Stats stream relay started")

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := r.reader.XRead(ctx, &redis.XReadArgs{
			Streams: []string{publisher.StatsStream, r.LastID},
			Count:   relayBatchSize,
			Block:   relayBlock,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("stats stream read failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(relayBackoff):
			}
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				r.LastID = msg.ID
				r.forward(msg)
			}
		}
	}
}

func (r *Relay) forward(msg redis.XMessage) {
	event, err := publisher.DecodeStatRecorded(msg)
	if err != nil {
		log.WithField("message_id", msg.ID).WithError(err).Warn("skipping unreadable stats event")
		return
	}

	r.hub.Broadcast(ServerMessage{
		Type:      MessageTypeStatRecorded,
		GameID:    event.GameID,
		Payload:   event.Entry,
		Timestamp: time.Unix(event.Timestamp, 0).UTC(),
	})
}
