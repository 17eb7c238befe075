package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can manage projects, belong to project member
// sets and be assigned tasks.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;unique"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;default:''"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:text;not null;default:''"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:text;not null;default:''"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
