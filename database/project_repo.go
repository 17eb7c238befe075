package database

import (
	"fmt"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/events"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewProjectRepo(db *gorm.DB, hub *events.Hub) *ProjectRepo {
	return &ProjectRepo{db, hub}
}

// FindVisible returns the projects the user manages or belongs to, with the
// optional search/ordering transforms applied. Default order is newest
// first.
func (r *ProjectRepo) FindVisible(userID uuid.UUID, opts ListOptions) ([]*models.Project, error) {
	order, err := orderExpr(opts.Ordering, projectOrderFields, "created_at DESC")
	if err != nil {
		return nil, err
	}

	var projects []*models.Project
	err = r.db.
		Preload("Manager").
		Preload("Members").
		Where("manager_id = ? OR id IN (?)", userID, memberProjectIDs(r.db, userID)).
		Scopes(searchScope(opts.Search)).
		Order(order).
		Find(&projects).Error
	return projects, err
}

// FindByID returns a project with manager, members and logs loaded. The
// caller decides what the requesting user may do with it.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.
		Preload("Manager").
		Preload("Members").
		Preload("Logs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Logs.User").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create persists a new project managed by the acting user. Any
// client-supplied manager is overridden. Member ids that do not resolve to
// existing users are silently dropped. The audit log row is written in the
// same transaction; if it cannot be written the project is not created.
func (r *ProjectRepo) Create(actor *models.User, project *models.Project, memberIDs []uuid.UUID) (*models.Project, error) {
	project.ManagerID = actor.ID
	project.Manager = nil
	project.Members = nil

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		if len(memberIDs) > 0 {
			var members []models.User
			if err := tx.Where("id IN ?", memberIDs).Find(&members).Error; err != nil {
				return err
			}
			if len(members) > 0 {
				if err := tx.Model(project).Association("Members").Append(&members); err != nil {
					return err
				}
			}
		}

		logEntry := models.ProjectLog{
			ProjectID: project.ID,
			UserID:    actor.ID,
			Action:    "created",
			Details:   fmt.Sprintf("Project %q was created", project.Title),
		}
		return tx.Create(&logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := r.FindByID(project.ID)
	if err != nil {
		return nil, err
	}
	r.hub.Fire(events.EntityProject, created, true)
	return created, nil
}

// ProjectUpdate enumerates the mutable project fields. Nil fields are left
// untouched; the manager is never part of an update. A non-nil MemberIDs
// replaces the whole member set (clear then add, not a diff).
type ProjectUpdate struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	StartDate   *time.Time   `json:"start_date"`
	EndDate     *time.Time   `json:"end_date"`
	MemberIDs   *[]uuid.UUID `json:"member_ids"`
}

// Update applies the supplied fields to the project, appends the audit log
// row in the same transaction and returns the refreshed project.
func (r *ProjectRepo) Update(actor *models.User, project *models.Project, update ProjectUpdate) (*models.Project, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		changes := map[string]any{}
		if update.Title != nil {
			changes["title"] = *update.Title
			project.Title = *update.Title
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if update.StartDate != nil {
			changes["start_date"] = *update.StartDate
		}
		if update.EndDate != nil {
			changes["end_date"] = *update.EndDate
		}
		if len(changes) > 0 {
			if err := tx.Model(&models.Project{ID: project.ID}).Updates(changes).Error; err != nil {
				return err
			}
		}

		if update.MemberIDs != nil {
			if err := tx.Model(&models.Project{ID: project.ID}).Association("Members").Clear(); err != nil {
				return err
			}
			if len(*update.MemberIDs) > 0 {
				var members []models.User
				if err := tx.Where("id IN ?", *update.MemberIDs).Find(&members).Error; err != nil {
					return err
				}
				if len(members) > 0 {
					// A gorm Association cannot be reused after Clear; build a
					// fresh one for the append.
					if err := tx.Model(&models.Project{ID: project.ID}).Association("Members").Append(&members); err != nil {
						return err
					}
				}
			}
		}

		logEntry := models.ProjectLog{
			ProjectID: project.ID,
			UserID:    actor.ID,
			Action:    "updated",
			Details:   fmt.Sprintf("Project %q was updated", project.Title),
		}
		return tx.Create(&logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := r.FindByID(project.ID)
	if err != nil {
		return nil, err
	}
	r.hub.Fire(events.EntityProject, updated, false)
	return updated, nil
}

// Delete removes a project; tasks, logs and member rows go with it.
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Select("Tasks", "Logs", "Members").Delete(&models.Project{ID: id}).Error
}
