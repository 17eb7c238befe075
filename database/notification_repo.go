package database

import (
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db}
}

// Add inserts a notification row. Only the dispatcher calls this.
func (r *NotificationRepo) Add(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// FindByRecipient returns the user's notifications, newest first.
func (r *NotificationRepo) FindByRecipient(userID uuid.UUID) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// SetRead flips the is_read flag on the user's own notification. A
// notification addressed to someone else is indistinguishable from a
// missing one. No other field is ever updated after creation.
func (r *NotificationRepo) SetRead(id, userID uuid.UUID, isRead bool) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, "id = ? AND recipient_id = ?", id, userID).Error; err != nil {
		return nil, err
	}

	if notification.IsRead != isRead {
		err := r.db.Model(&notification).Update("is_read", isRead).Error
		if err != nil {
			return nil, err
		}
	}
	return &notification, nil
}

// MarkAllRead flips every unread notification for the user.
func (r *NotificationRepo) MarkAllRead(userID uuid.UUID) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
