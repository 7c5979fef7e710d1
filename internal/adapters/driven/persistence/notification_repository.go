package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"sensitive-field-gate/internal/core/domain"
	"sensitive-field-gate/internal/core/ports/driven"
)

// AppNotificationRecord represents a row in the app_notification_records table
type AppNotificationRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Recipient string `gorm:"size:100;index"`
	Title     string `gorm:"size:200"`
	Body      string
	IconType  int
	ToastType int
	CreatedAt time.Time
}

// NotificationRepositoryImpl implements driven.NotificationRepository on gorm.
type NotificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepositoryImpl.
func NewNotificationRepository(db *gorm.DB) driven.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Save(ctx context.Context, id string, n domain.AppNotification) error {
	record := AppNotificationRecord{
		ID:        id,
		Recipient: string(n.Recipient),
		Title:     n.Title,
		Body:      n.Body,
		IconType:  n.IconType,
		ToastType: n.ToastType,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *NotificationRepositoryImpl) ListForRecipient(ctx context.Context, recipient domain.Identity) ([]driven.StoredNotification, error) {
	var records []AppNotificationRecord
	result := r.db.WithContext(ctx).
		Where("recipient = ?", string(recipient)).
		Order("created_at").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	notifications := make([]driven.StoredNotification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, driven.StoredNotification{
			ID: record.ID,
			AppNotification: domain.AppNotification{
				Recipient: domain.Identity(record.Recipient),
				Title:     record.Title,
				Body:      record.Body,
				IconType:  record.IconType,
				ToastType: record.ToastType,
			},
			CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return notifications, nil
}
