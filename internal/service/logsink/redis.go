package logsink

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher ships aggregated log batches over a Redis pub/sub channel so
// an operator can tail error bursts without grepping instance logs.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(host string, port int, password string, db int) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("log sink redis ping: %w", err)
	}
	return &RedisPublisher{client: client}, nil
}

// PublishMessage implements logger.Publisher.
func (p *RedisPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal log batch: %w", err)
	}
	if err := p.client.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("publish log batch: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return p.client.Close() }
