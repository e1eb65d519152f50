package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/pkg/logger"
	"github.com/portfolio-assistant/backend/pkg/utils"
)

const answerPrefix = "answer:"

// Client caches generated answers keyed by the normalised chat message.
type Client struct {
	client *redis.Client
}

func NewClient(ctx context.Context, host string, port int, password string, db int) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", addr))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func answerKey(message string) string {
	return answerPrefix + utils.MessageKey(message)
}

// GetAnswer returns the cached answer for message, if any.
func (c *Client) GetAnswer(ctx context.Context, message string) (string, bool, error) {
	key := answerKey(message)

	answer, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cached answer: %w", err)
	}

	logger.Debug("Answer cache hit", zap.String("key", key))
	return answer, true, nil
}

func (c *Client) SetAnswer(ctx context.Context, message, answer string, ttl time.Duration) error {
	key := answerKey(message)

	if err := c.client.Set(ctx, key, answer, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}

	logger.Debug("Answer cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// InvalidateAnswers drops every cached answer, e.g. after the knowledge base
// document changed.
func (c *Client) InvalidateAnswers(ctx context.Context) (int, error) {
	deleted := 0
	iter := c.client.Scan(ctx, 0, answerPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		deleted++
	}

	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Answer cache invalidated", zap.Int("deleted", deleted))
	return deleted, nil
}
