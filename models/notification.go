package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationTaskCreated    = "task_created"
	NotificationTaskAssigned   = "task_assigned"
	NotificationTaskUpdated    = "task_updated"
	NotificationTaskCommented  = "task_commented"
	NotificationProjectAdded   = "project_added"
	NotificationProjectUpdated = "project_updated"
)

// Object types a notification can reference.
const (
	ObjectTypeProject = "project"
	ObjectTypeTask    = "task"
)

// Notification is a per-recipient record of a state change elsewhere in the
// system. After creation only IsRead ever changes. ObjectType/ObjectID point
// at the triggering entity without owning it.
type Notification struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	RecipientID      uuid.UUID `json:"recipient_id" db:"recipient_id" gorm:"type:uuid;not null;index"`
	NotificationType string    `json:"notification_type" db:"notification_type" gorm:"type:text;not null"`
	Title            string    `json:"title" db:"title" gorm:"type:text;not null"`
	Message          string    `json:"message" db:"message" gorm:"type:text;not null;default:''"`
	ObjectType       string    `json:"object_type" db:"object_type" gorm:"type:text;not null"`
	ObjectID         uuid.UUID `json:"object_id" db:"object_id" gorm:"type:uuid;not null"`
	IsRead           bool      `json:"is_read" db:"is_read" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at" db:"created_at" gorm:"not null;index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
