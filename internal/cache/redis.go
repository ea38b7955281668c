// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for game action logs.
const DefaultQueueName = "lastcard_actions"

// ActionGameOver is the action type the historian treats as the end of a game.
const ActionGameOver = "game_over"

// GameActionRecord holds the minimal info needed by the historian.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// Connect opens a Redis client and verifies it with a ping.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Publisher pushes action records onto a Redis list for the historian.
type Publisher struct {
	client *redis.Client
	queue  string
}

// NewPublisher returns a publisher writing to queue, or DefaultQueueName when queue is empty.
func NewPublisher(client *redis.Client, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Publisher{client: client, queue: queue}
}

// PublishGameAction serializes the record to JSON and RPUSHes it.
func (p *Publisher) PublishGameAction(ctx context.Context, record GameActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// DecodeGameAction parses one queued record.
func DecodeGameAction(payload string) (GameActionRecord, error) {
	var rec GameActionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return rec, fmt.Errorf("invalid action record: %w", err)
	}
	return rec, nil
}

// Consumer pops action records off the queue. It is the historian's side of Publisher.
type Consumer struct {
	client *redis.Client
	queue  string
}

// NewConsumer returns a consumer reading queue, or DefaultQueueName when queue is empty.
func NewConsumer(client *redis.Client, queue string) *Consumer {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Consumer{client: client, queue: queue}
}

// Pop blocks for up to timeout waiting for a record. ok is false when the
// wait timed out with nothing queued.
func (c *Consumer) Pop(ctx context.Context, timeout time.Duration) (rec GameActionRecord, ok bool, err error) {
	res, err := c.client.BLPop(ctx, timeout, c.queue).Result()
	if errors.Is(err, redis.Nil) {
		return rec, false, nil
	}
	if err != nil {
		return rec, false, fmt.Errorf("BLPop %s: %w", c.queue, err)
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return rec, false, nil
	}
	rec, err = DecodeGameAction(res[1])
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}
