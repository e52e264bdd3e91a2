package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tradedoc/backend/internal/domain/shared"
	"github.com/tradedoc/backend/internal/infrastructure/config"
)

// RedisInvalidator subscribes to changed topics and bumps a per-topic
// version counter in Redis. Read-side caches embed the version in their
// keys, so a bump orphans every stale entry without scanning.
type RedisInvalidator struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisInvalidator creates a RedisInvalidator from configuration
func NewRedisInvalidator(cfg *config.RedisConfig, keyPrefix string, logger *zap.Logger) *RedisInvalidator {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisInvalidatorWithClient(client, keyPrefix, logger)
}

// NewRedisInvalidatorWithClient creates a RedisInvalidator with an existing client
func NewRedisInvalidatorWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisInvalidator {
	return &RedisInvalidator{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Handle bumps the version counter for the changed topic
func (i *RedisInvalidator) Handle(ctx context.Context, topic shared.Topic) error {
	key := i.versionKey(topic)
	if err := i.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("bump topic version %s: %w", key, err)
	}
	i.logger.Debug("topic version bumped", zap.String("topic", topic.String()))
	return nil
}

// Topics subscribes the invalidator to every topic
func (i *RedisInvalidator) Topics() []shared.Topic {
	return nil
}

// Version returns the current version counter for a topic. Missing
// keys read as zero.
func (i *RedisInvalidator) Version(ctx context.Context, topic shared.Topic) (int64, error) {
	v, err := i.client.Get(ctx, i.versionKey(topic)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// Close closes the underlying Redis connection
func (i *RedisInvalidator) Close() error {
	return i.client.Close()
}

func (i *RedisInvalidator) versionKey(topic shared.Topic) string {
	return fmt.Sprintf("%s:topic_version:%s", i.keyPrefix, topic)
}

var _ shared.TopicHandler = (*RedisInvalidator)(nil)
