package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChannel publishes events over Redis pub/sub. The connection gateway
// subscribes each websocket to its user's group channel and forwards payloads
// verbatim.
type RedisChannel struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisChannel(client *redis.Client, timeout time.Duration) *RedisChannel {
	if client == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &RedisChannel{client: client, timeout: timeout}
}

func (c *RedisChannel) Publish(ctx context.Context, group string, event Event) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Publish(ctx, group, payload).Err()
}
