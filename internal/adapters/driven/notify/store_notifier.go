package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sensitive-field-gate/internal/core/domain"
	"sensitive-field-gate/internal/core/ports/driven"
)

// StoreNotifier writes notifications to the outbox table for the host to pick up.
type StoreNotifier struct {
	repo driven.NotificationRepository
}

// NewStoreNotifier creates a notifier backed by a notification repository.
func NewStoreNotifier(repo driven.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

// Send stores the notification and returns its generated id.
func (n *StoreNotifier) Send(ctx context.Context, notification domain.AppNotification) (string, error) {
	if err := notification.Recipient.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := n.repo.Save(ctx, id, notification); err != nil {
		return "", fmt.Errorf("failed to store notification: %w", err)
	}
	return id, nil
}
