package shared

import "context"

// Topic identifies a read-side data set touched by a mutation.
// Every successful mutation publishes the set of topics it changed so
// downstream caches can invalidate themselves. Publication happens
// after the mutating transaction commits and is fire-and-forget.
type Topic string

const (
	TopicStock          Topic = "stock"
	TopicStockMovements Topic = "stock_movements"
	TopicDeliveryNotes  Topic = "delivery_notes"
	TopicInvoices       Topic = "invoices"
	TopicProducts       Topic = "products"
	TopicClients        Topic = "clients"
)

// String returns the string representation of the topic
func (t Topic) String() string {
	return string(t)
}

// TopicPublisher publishes changed topics to interested observers.
// Implementations must never fail the caller: errors are logged and
// swallowed, since cache invalidation is best-effort by contract.
type TopicPublisher interface {
	Publish(ctx context.Context, topics ...Topic)
}

// TopicHandler consumes changed-topic notifications
type TopicHandler interface {
	// Handle processes a changed topic notification
	Handle(ctx context.Context, topic Topic) error
	// Topics returns the topics this handler is interested in.
	// An empty slice subscribes the handler to all topics.
	Topics() []Topic
}

// NoOpTopicPublisher discards all notifications. Useful in tests and
// for callers that do not wire an observer.
type NoOpTopicPublisher struct{}

// Publish implements TopicPublisher
func (NoOpTopicPublisher) Publish(context.Context, ...Topic) {}
