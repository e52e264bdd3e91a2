package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// InMemoryTopicBus implements TopicPublisher with in-memory pub/sub.
// Publication is fire-and-forget: handler failures are logged and never
// reach the caller, because changed-topic notification must not affect
// the outcome of the operation that raised it.
type InMemoryTopicBus struct {
	mu       sync.RWMutex
	handlers map[shared.Topic][]shared.TopicHandler
	all      []shared.TopicHandler
	logger   *zap.Logger
}

// NewInMemoryTopicBus creates a new in-memory topic bus
func NewInMemoryTopicBus(logger *zap.Logger) *InMemoryTopicBus {
	return &InMemoryTopicBus{
		handlers: make(map[shared.Topic][]shared.TopicHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the topics it declares. A handler
// declaring no topics receives every notification.
func (b *InMemoryTopicBus) Subscribe(handler shared.TopicHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	topics := handler.Topics()
	if len(topics) == 0 {
		b.all = append(b.all, handler)
	}
	for _, topic := range topics {
		b.handlers[topic] = append(b.handlers[topic], handler)
	}
	b.logger.Debug("topic handler subscribed",
		zap.Any("topics", handler.Topics()),
	)
}

// Publish notifies every handler subscribed to any of the given topics.
// Duplicate topics in one call are collapsed.
func (b *InMemoryTopicBus) Publish(ctx context.Context, topics ...shared.Topic) {
	seen := make(map[shared.Topic]bool, len(topics))

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, topic := range topics {
		if seen[topic] {
			continue
		}
		seen[topic] = true

		for _, handler := range b.handlers[topic] {
			b.dispatch(ctx, handler, topic)
		}
		for _, handler := range b.all {
			b.dispatch(ctx, handler, topic)
		}
	}
}

func (b *InMemoryTopicBus) dispatch(ctx context.Context, handler shared.TopicHandler, topic shared.Topic) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("topic handler panicked",
				zap.String("topic", string(topic)),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, topic); err != nil {
		b.logger.Error("topic handler failed",
			zap.String("topic", string(topic)),
			zap.Error(err),
		)
	}
}

var _ shared.TopicPublisher = (*InMemoryTopicBus)(nil)
