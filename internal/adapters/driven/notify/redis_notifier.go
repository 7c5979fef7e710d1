package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"sensitive-field-gate/internal/core/domain"
)

// DefaultStream is the Redis stream notifications are appended to.
const DefaultStream = "app-notifications"

// RedisNotifier appends notifications to a Redis stream. The stream entry id is the acknowledgment id.
type RedisNotifier struct {
	client redis.UniversalClient
	stream string
}

// NewRedisNotifier creates a notifier writing to stream. An empty stream uses DefaultStream.
func NewRedisNotifier(client redis.UniversalClient, stream string) *RedisNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisNotifier{client: client, stream: stream}
}

func (n *RedisNotifier) Send(ctx context.Context, notification domain.AppNotification) (string, error) {
	if err := notification.Recipient.Validate(); err != nil {
		return "", err
	}
	id, err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{
			"recipient":  string(notification.Recipient),
			"title":      notification.Title,
			"body":       notification.Body,
			"icon_type":  strconv.Itoa(notification.IconType),
			"toast_type": strconv.Itoa(notification.ToastType),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish notification to stream %s: %w", n.stream, err)
	}
	return id, nil
}
