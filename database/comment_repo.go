package database

import (
	"github.com/OmarMoamarFostok/projectmanagement-backend/events"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentRepo struct {
	db  *gorm.DB
	hub *events.Hub
}

func NewCommentRepo(db *gorm.DB, hub *events.Hub) *CommentRepo {
	return &CommentRepo{db, hub}
}

// FindByTask returns all comments on a task, newest first. Task-level
// access has already been checked by the caller.
func (r *CommentRepo) FindByTask(taskID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.
		Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// FindOwned returns the comment only when it belongs to the task AND was
// authored by the user. Anyone else's comment behaves as if it does not
// exist, which is what makes non-author mutations surface as not-found.
func (r *CommentRepo) FindOwned(id, taskID, userID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.
		Preload("User").
		First(&comment, "id = ? AND task_id = ? AND user_id = ?", id, taskID, userID).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Create persists a comment authored by the actor on the given task. The
// task must come in with its project loaded; it rides along on the fired
// event so reactors can reach the manager and assignee without re-querying.
func (r *CommentRepo) Create(actor *models.User, task *models.Task, content string) (*models.Comment, error) {
	comment := &models.Comment{
		TaskID:  task.ID,
		UserID:  actor.ID,
		Content: content,
	}
	if err := r.db.Create(comment).Error; err != nil {
		return nil, err
	}

	created, err := r.FindOwned(comment.ID, task.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	created.Task = task
	r.hub.Fire(events.EntityComment, created, true)
	return created, nil
}

// CommentUpdate enumerates the single mutable comment field.
type CommentUpdate struct {
	Content *string `json:"content"`
}

// Update applies the supplied fields and returns the refreshed comment.
// Comment updates produce no audit log and no notifications.
func (r *CommentRepo) Update(comment *models.Comment, update CommentUpdate) (*models.Comment, error) {
	if update.Content != nil {
		err := r.db.Model(&models.Comment{ID: comment.ID}).Update("content", *update.Content).Error
		if err != nil {
			return nil, err
		}
	}
	return r.FindOwned(comment.ID, comment.TaskID, comment.UserID)
}

// Delete removes a comment.
func (r *CommentRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Comment{}, "id = ?", id).Error
}
