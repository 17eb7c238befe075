package services

import (
	"fmt"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
	"github.com/OmarMoamarFostok/projectmanagement-backend/events"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Notifier reacts to post-commit mutation events and fans them out into
// per-recipient notification rows. Delivery is best-effort relative to the
// primary write: a failed insert is logged and dropped, never propagated
// back to the request that performed the mutation.
type Notifier struct {
	logger           zerolog.Logger
	notificationRepo *database.NotificationRepo
}

func NewNotifier(notificationRepo *database.NotificationRepo) *Notifier {
	logger := log.With().Str("serviceName", "notifier").Logger()

	return &Notifier{
		logger:           logger,
		notificationRepo: notificationRepo,
	}
}

// Register subscribes the notifier to every entity type it cares about.
// Call once during startup, before the server accepts requests.
func (n *Notifier) Register(hub *events.Hub) {
	hub.Register(events.EntityTask, n.onTaskMutated)
	hub.Register(events.EntityComment, n.onCommentMutated)
	hub.Register(events.EntityProject, n.onProjectMutated)
}

func (n *Notifier) onTaskMutated(entity any, created bool) {
	task, ok := entity.(*models.Task)
	if !ok || task.Project == nil {
		n.logger.Error().Bool("created", created).Msg("task event without loaded task/project, skipping")
		return
	}

	if created {
		if task.Project.ManagerID != task.AssignedToID {
			n.deliver(&models.Notification{
				RecipientID:      task.Project.ManagerID,
				NotificationType: models.NotificationTaskCreated,
				Title:            "New Task Created",
				Message:          fmt.Sprintf("A new task %q has been created in project %q", task.Title, task.Project.Title),
				ObjectType:       models.ObjectTypeTask,
				ObjectID:         task.ID,
			})
		}
		if task.AssignedToID != task.Project.ManagerID {
			n.deliver(&models.Notification{
				RecipientID:      task.AssignedToID,
				NotificationType: models.NotificationTaskAssigned,
				Title:            "Task Assigned",
				Message:          fmt.Sprintf("You have been assigned to task %q in project %q", task.Title, task.Project.Title),
				ObjectType:       models.ObjectTypeTask,
				ObjectID:         task.ID,
			})
		}
		return
	}

	// Updates only ever notify the assignee, never the manager. That
	// asymmetry is inherited behavior and is pinned by tests.
	if task.AssignedToID != task.Project.ManagerID {
		n.deliver(&models.Notification{
			RecipientID:      task.AssignedToID,
			NotificationType: models.NotificationTaskUpdated,
			Title:            "Task Updated",
			Message:          fmt.Sprintf("Task %q has been updated", task.Title),
			ObjectType:       models.ObjectTypeTask,
			ObjectID:         task.ID,
		})
	}
}

// onCommentMutated notifies the assignee and the manager about a new
// comment. The two checks are independent and results are not deduplicated:
// when assignee and manager are the same person (and not the commenter),
// two rows are written. Comments notify against the owning task.
func (n *Notifier) onCommentMutated(entity any, created bool) {
	if !created {
		return
	}

	comment, ok := entity.(*models.Comment)
	if !ok || comment.Task == nil || comment.Task.Project == nil {
		n.logger.Error().Msg("comment event without loaded task/project, skipping")
		return
	}
	task := comment.Task

	if comment.UserID != task.AssignedToID {
		n.deliver(n.newCommentNotification(task, task.AssignedToID))
	}
	if comment.UserID != task.Project.ManagerID {
		n.deliver(n.newCommentNotification(task, task.Project.ManagerID))
	}
}

func (n *Notifier) newCommentNotification(task *models.Task, recipientID uuid.UUID) *models.Notification {
	return &models.Notification{
		RecipientID:      recipientID,
		NotificationType: models.NotificationTaskCommented,
		Title:            "New Comment",
		Message:          fmt.Sprintf("New comment on task %q", task.Title),
		ObjectType:       models.ObjectTypeTask,
		ObjectID:         task.ID,
	}
}

func (n *Notifier) onProjectMutated(entity any, created bool) {
	project, ok := entity.(*models.Project)
	if !ok {
		n.logger.Error().Bool("created", created).Msg("project event without loaded project, skipping")
		return
	}

	notificationType := models.NotificationProjectUpdated
	title := "Project Updated"
	message := fmt.Sprintf("Project %q has been updated", project.Title)
	if created {
		notificationType = models.NotificationProjectAdded
		title = "Added to Project"
		message = fmt.Sprintf("You have been added to project %q", project.Title)
	}

	for i := range project.Members {
		member := &project.Members[i]
		if member.ID == project.ManagerID {
			continue
		}
		n.deliver(&models.Notification{
			RecipientID:      member.ID,
			NotificationType: notificationType,
			Title:            title,
			Message:          message,
			ObjectType:       models.ObjectTypeProject,
			ObjectID:         project.ID,
		})
	}
}

func (n *Notifier) deliver(notification *models.Notification) {
	if err := n.notificationRepo.Add(notification); err != nil {
		n.logger.Error().Err(err).
			Str("recipientID", notification.RecipientID.String()).
			Str("notificationType", notification.NotificationType).
			Msg("failed to persist notification")
	}
}
