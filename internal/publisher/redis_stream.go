package publisher

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scoremvp/scoremvp/internal/store"
)

// StatsStream is the Redis stream carrying recorded stat lines
const StatsStream = "games.stats.scoremvp"

// EventStatRecorded is the type tag of StatRecordedEvent
const EventStatRecorded = "stats.recorded"

// StatRecordedEvent is published after a stat line is persisted
type StatRecordedEvent struct {
	Type      string           `json:"type"`
	GameID    int              `json:"game_id"`
	Entry     *store.StatEntry `json:"entry"`
	Timestamp int64            `json:"timestamp"`
}

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	// MaxLen caps the stream with approximate trimming; zero keeps everything.
	MaxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		MaxLen: 10000,
	}
}

// PublishStatRecorded appends a stats.recorded event for entry to StatsStream
func (rsp *RedisStreamPublisher) PublishStatRecorded(ctx context.Context, entry *store.StatEntry) error {
	now := time.Now().Unix()
	data, err := json.Marshal(StatRecordedEvent{
		Type:      EventStatRecorded,
		GameID:    entry.GameID,
		Entry:     entry,
		Timestamp: now,
	})
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StatsStream,
		MaxLen: rsp.MaxLen,
		Approx: rsp.MaxLen > 0,
		Values: map[string]interface{}{
			"type":      EventStatRecorded,
			"game_id":   strconv.Itoa(entry.GameID),
			"data":      string(data),
			"timestamp": now,
		},
	}).Err()
}

// DecodeStatRecorded parses the data field of a stream message
func DecodeStatRecorded(msg redis.XMessage) (*StatRecordedEvent, error) {
	raw, _ := msg.Values["data"].(string)
	var event StatRecordedEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, err
	}
	return &event, nil
}
