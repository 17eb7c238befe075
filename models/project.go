package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups tasks under a single manager and a free-form member set.
// The manager is not automatically part of Members.
type Project struct {
	ID          uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string       `json:"title" db:"title" gorm:"type:text;not null"`
	Description string       `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	ManagerID   uuid.UUID    `json:"manager_id" db:"manager_id" gorm:"type:uuid;not null;index"`
	Manager     *User        `json:"manager,omitempty" gorm:"foreignKey:ManagerID;references:ID"`
	Members     []User       `json:"members,omitempty" gorm:"many2many:project_members;constraint:OnDelete:CASCADE"`
	StartDate   *time.Time   `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time   `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at" gorm:"not null;index"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at" gorm:"not null"`
	Tasks       []Task       `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Logs        []ProjectLog `json:"logs,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsMember reports whether the user manages the project or is in its member
// set. Members must already be loaded; no queries are issued.
func (p *Project) IsMember(userID uuid.UUID) bool {
	if p.ManagerID == userID {
		return true
	}
	for i := range p.Members {
		if p.Members[i].ID == userID {
			return true
		}
	}
	return false
}

// ProjectLog is an append-only audit record of a project mutation. Rows are
// written in the same transaction as the mutation and never updated.
type ProjectLog struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Action    string    `json:"action" db:"action" gorm:"type:text;not null"`
	Details   string    `json:"details" db:"details" gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
}

func (l *ProjectLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
