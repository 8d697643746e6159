package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list the server pushes game events to
// and the historian drains.
const DefaultQueueName = "hanab_events"

// Event kinds on the queue.
const (
	EventGameFinished = "game_finished"
	EventYourTurn     = "your_turn"
	EventGameMoved    = "game_moved"
)

// EventRecord is one queued game event. game_finished records carry
// the full cleaned document for archival; turn events carry just
// enough to address a push notification.
type EventRecord struct {
	Kind       string          `json:"kind"`
	GameID     string          `json:"gameId"`
	PlayerID   string          `json:"playerId,omitempty"`
	PlayerName string          `json:"playerName,omitempty"`
	Body       string          `json:"body,omitempty"`
	Game       json.RawMessage `json:"game,omitempty"`
	Timestamp  int64           `json:"timestamp"`
}

// Queue is a Redis list used as a work queue: RPush on the producer
// side, blocking LPop on the consumer side.
type Queue struct {
	client *redis.Client
	name   string
}

func NewQueue(client *redis.Client, name string) *Queue {
	if name == "" {
		name = DefaultQueueName
	}
	return &Queue{client: client, name: name}
}

// Enqueue appends one record. Quick network send only; it never blocks
// on the consumer.
func (q *Queue) Enqueue(ctx context.Context, record EventRecord) error {
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("queue: marshal record: %w", err)
	}
	if err := q.client.RPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("queue: rpush %s: %w", q.name, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next record. found is false on
// timeout.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (record EventRecord, found bool, err error) {
	res, err := q.client.BLPop(ctx, timeout, q.name).Result()
	if errors.Is(err, redis.Nil) {
		return EventRecord{}, false, nil
	}
	if err != nil {
		return EventRecord{}, false, fmt.Errorf("queue: blpop %s: %w", q.name, err)
	}
	// BLPop returns [key, value].
	if len(res) != 2 {
		return EventRecord{}, false, fmt.Errorf("queue: unexpected blpop reply of %d items", len(res))
	}
	if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
		return EventRecord{}, false, fmt.Errorf("queue: decode record: %w", err)
	}
	return record, true, nil
}

// Len reports the queue depth, for monitoring.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.name).Result()
}
