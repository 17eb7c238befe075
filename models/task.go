package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status values.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ValidTaskStatus reports whether s is one of the allowed status values.
func ValidTaskStatus(s string) bool {
	return s == TaskStatusTodo || s == TaskStatusInProgress || s == TaskStatusDone
}

// Task is a unit of work inside a project, always assigned to exactly one
// user. Default listing order is pinned-first, then newest-first.
type Task struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title        string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description  string    `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	ProjectID    uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	Project      *Project  `json:"project,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	AssignedToID uuid.UUID `json:"assigned_to_id" db:"assigned_to_id" gorm:"type:uuid;not null;index"`
	AssignedTo   *User     `json:"assigned_to,omitempty" gorm:"foreignKey:AssignedToID;references:ID"`
	Status       string    `json:"status" db:"status" gorm:"type:text;not null;default:'todo'"`
	DueDate      time.Time `json:"due_date" db:"due_date" gorm:"not null"`
	IsPinned     bool      `json:"is_pinned" db:"is_pinned" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"not null;index"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
	Comments     []Comment `json:"comments,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
	Logs         []TaskLog `json:"logs,omitempty" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Comment is a free-text note on a task, authored by a project member.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id" gorm:"type:uuid;not null;index"`
	Task      *Task     `json:"-" gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TaskLog is an append-only audit record of a task mutation. UserID is
// nullable so log rows survive the acting user being removed.
type TaskLog struct {
	ID        uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	TaskID    uuid.UUID  `json:"task_id" db:"task_id" gorm:"type:uuid;not null;index"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id" gorm:"type:uuid"`
	User      *User      `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:SET NULL"`
	Action    string     `json:"action" db:"action" gorm:"type:text;not null"`
	Details   string     `json:"details" db:"details" gorm:"type:text;not null;default:''"`
	CreatedAt time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
}

func (l *TaskLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
