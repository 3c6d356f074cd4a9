package toplist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohamedkhairy/momentum-screener/internal/config"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// DefaultChannel is the Redis pub/sub channel for shortlist updates
const DefaultChannel = "screener.toplist.updated"

// RedisClient is the subset of Redis used for publishing
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// redisClient implements RedisClient on go-redis
type redisClient struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
	)

	return &redisClient{client: rdb}, nil
}

// Publish publishes a message to a channel
func (r *redisClient) Publish(ctx context.Context, channel string, message interface{}) error {
	if err := r.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *redisClient) Close() error {
	return r.client.Close()
}

// RedisPublisher publishes each shortlist snapshot as JSON on a pub/sub channel
type RedisPublisher struct {
	client  RedisClient
	channel string
}

// NewRedisPublisher creates a Redis publisher. An empty channel means DefaultChannel.
func NewRedisPublisher(client RedisClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Publish implements Publisher
func (p *RedisPublisher) Publish(ctx context.Context, update Update) error {
	payload, err := update.Snapshot.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, string(payload)); err != nil {
		return err
	}

	logger.Debug("Published toplist",
		logger.String("channel", p.channel),
		logger.String("run_id", update.Snapshot.RunID),
		logger.Int("rankings", len(update.Snapshot.Rankings)),
	)
	return nil
}
