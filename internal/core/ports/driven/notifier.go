package driven

import (
	"context"

	"sensitive-field-gate/internal/core/domain"
)

// Notifier delivers app notifications. Send returns the acknowledgment id of the delivery channel.
type Notifier interface {
	Send(ctx context.Context, notification domain.AppNotification) (string, error)
}
