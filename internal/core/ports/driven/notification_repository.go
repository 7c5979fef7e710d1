package driven

import (
	"context"

	"sensitive-field-gate/internal/core/domain"
)

// StoredNotification is an app notification persisted in the outbox
type StoredNotification struct {
	ID string `json:"id"`
	domain.AppNotification
	CreatedAt string `json:"created_at"`
}

// NotificationRepository defines the interface for notification outbox persistence.
type NotificationRepository interface {
	Save(ctx context.Context, id string, notification domain.AppNotification) error
	ListForRecipient(ctx context.Context, recipient domain.Identity) ([]StoredNotification, error)
}
