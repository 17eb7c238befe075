package database

import (
	"errors"

	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindAll returns all users, ordered by username for stable member pickers.
func (r *UserRepo) FindAll() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("username").Find(&users).Error
	return users, err
}

// FindByID returns a user by its ID.
func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername returns a user by username, or nil when no such user
// exists.
func (r *UserRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user into the database.
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// UserUpdate enumerates the profile fields a user may change about
// themselves. Username and password hash are not among them.
type UserUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// UpdateProfile applies the supplied profile fields and returns the
// refreshed user.
func (r *UserRepo) UpdateProfile(id uuid.UUID, update UserUpdate) (*models.User, error) {
	changes := map[string]any{}
	if update.FirstName != nil {
		changes["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		changes["last_name"] = *update.LastName
	}
	if update.Email != nil {
		changes["email"] = *update.Email
	}

	if len(changes) > 0 {
		if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(id)
}
