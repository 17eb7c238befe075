package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/errs"
	"github.com/OmarMoamarFostok/projectmanagement-backend/events"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepo struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewTaskRepo(db *gorm.DB, hub *events.Hub) *TaskRepo {
	return &TaskRepo{db, hub}
}

// FindVisible returns tasks in projects the user manages or belongs to,
// with search, filters and ordering applied in that order. Default order is
// pinned first, then newest first.
func (r *TaskRepo) FindVisible(userID uuid.UUID, opts ListOptions, filter TaskFilter) ([]*models.Task, error) {
	order, err := orderExpr(opts.Ordering, taskOrderFields, "is_pinned DESC, created_at DESC")
	if err != nil {
		return nil, err
	}

	q := r.db.
		Preload("Project").
		Preload("AssignedTo").
		Where("project_id IN (?)", visibleProjectIDs(r.db, userID)).
		Scopes(searchScope(opts.Search))

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.IsPinned != nil {
		q = q.Where("is_pinned = ?", *filter.IsPinned)
	}
	if filter.DueBefore != nil {
		q = q.Where("due_date <= ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		q = q.Where("due_date >= ?", *filter.DueAfter)
	}

	var tasks []*models.Task
	err = q.Order(order).Find(&tasks).Error
	return tasks, err
}

// FindByID returns a task with its project (members included, so membership
// checks need no further queries), assignee, comments and logs loaded.
func (r *TaskRepo) FindByID(id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("Project").
		Preload("Project.Members").
		Preload("AssignedTo").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comments.User").
		Preload("Logs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create persists a new task. The assignee id must resolve to an existing
// user. The audit log row is written in the same transaction; if it cannot
// be written the task is not created.
func (r *TaskRepo) Create(actor *models.User, task *models.Task) (*models.Task, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var assignee models.User
		if err := tx.First(&assignee, "id = ?", task.AssignedToID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFoundError("assigned user not found")
			}
			return err
		}

		if err := tx.Create(task).Error; err != nil {
			return err
		}

		actorID := actor.ID
		logEntry := models.TaskLog{
			TaskID:  task.ID,
			UserID:  &actorID,
			Action:  "created",
			Details: fmt.Sprintf("Task %q was created", task.Title),
		}
		return tx.Create(&logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := r.FindByID(task.ID)
	if err != nil {
		return nil, err
	}
	r.hub.Fire(events.EntityTask, created, true)
	return created, nil
}

// TaskUpdate enumerates the mutable task fields. Nil fields are left
// untouched. A non-nil AssignedToID re-resolves and overwrites the assignee.
type TaskUpdate struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	IsPinned     *bool      `json:"is_pinned"`
	AssignedToID *uuid.UUID `json:"assigned_to_id"`
}

// Update applies the supplied fields to the task, appends the audit log row
// in the same transaction and returns the refreshed task.
func (r *TaskRepo) Update(actor *models.User, task *models.Task, update TaskUpdate) (*models.Task, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		changes := map[string]any{}
		if update.AssignedToID != nil {
			var assignee models.User
			if err := tx.First(&assignee, "id = ?", *update.AssignedToID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errs.NewNotFoundError("assigned user not found")
				}
				return err
			}
			changes["assigned_to_id"] = assignee.ID
		}
		if update.Title != nil {
			changes["title"] = *update.Title
			task.Title = *update.Title
		}
		if update.Description != nil {
			changes["description"] = *update.Description
		}
		if update.Status != nil {
			changes["status"] = *update.Status
		}
		if update.DueDate != nil {
			changes["due_date"] = *update.DueDate
		}
		if update.IsPinned != nil {
			changes["is_pinned"] = *update.IsPinned
		}
		if len(changes) > 0 {
			if err := tx.Model(&models.Task{ID: task.ID}).Updates(changes).Error; err != nil {
				return err
			}
		}

		actorID := actor.ID
		logEntry := models.TaskLog{
			TaskID:  task.ID,
			UserID:  &actorID,
			Action:  "updated",
			Details: fmt.Sprintf("Task %q was updated", task.Title),
		}
		return tx.Create(&logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := r.FindByID(task.ID)
	if err != nil {
		return nil, err
	}
	r.hub.Fire(events.EntityTask, updated, false)
	return updated, nil
}

// Delete removes a task; comments and logs go with it.
func (r *TaskRepo) Delete(id uuid.UUID) error {
	return r.db.Select("Comments", "Logs").Delete(&models.Task{ID: id}).Error
}
