package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
	"github.com/OmarMoamarFostok/projectmanagement-backend/errs"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type taskHandler struct {
	responder   Responder
	logger      zerolog.Logger
	taskRepo    *database.TaskRepo
	projectRepo *database.ProjectRepo
}

func newTaskHandler(taskRepo *database.TaskRepo, projectRepo *database.ProjectRepo) taskHandler {
	logger := log.With().Str("handlerName", "taskHandler").Logger()

	return taskHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// TaskCollection represents a list of tasks visible to the actor
type TaskCollection struct {
	Tasks []*models.Task `json:"tasks"`
	Total int            `json:"total"`
}

// getAllTasks lists tasks across every project the actor can see, with
// optional search, filters and ordering.
func (h taskHandler) getAllTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		filter, err := taskFilterFromQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tasks, err := h.taskRepo.FindVisible(actor.ID, listOptionsFromQuery(r), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("tasks", err))
			return
		}

		h.responder.WriteJSON(w, TaskCollection{Tasks: tasks, Total: len(tasks)})
	}
}

// loadVisibleTask fetches the task and applies the visibility rule: a task
// in a project the actor does not belong to is a 404, same as a task that
// does not exist.
func (h taskHandler) loadVisibleTask(r *http.Request) (*models.Task, *models.User, error) {
	actor := ctxActor(r.Context())
	if actor == nil {
		return nil, nil, errs.Unauthorized
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		return nil, nil, errs.NewBadRequestError("invalid taskID")
	}

	task, err := h.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, nil, wrapDatabaseError("task", err)
	}
	if !canViewTask(actor, task) {
		return nil, nil, errs.NewNotFoundError("task not found")
	}
	return task, actor, nil
}

func (h taskHandler) getTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, _, err := h.loadVisibleTask(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, task)
	}
}

type createTaskRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ProjectID    uuid.UUID  `json:"project_id"`
	AssignedToID uuid.UUID  `json:"assigned_to_id"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	IsPinned     bool       `json:"is_pinned"`
}

// createTask creates a task inside a project the actor belongs to. An
// unknown project is a 404; a known project the actor is outside of is a
// 403, since the gate runs before any visibility scoping.
func (h taskHandler) createTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req createTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode task request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("task", err))
			return
		}

		if req.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}
		if req.ProjectID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("project_id"))
			return
		}
		if req.AssignedToID == uuid.Nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("assigned_to_id"))
			return
		}
		if req.DueDate == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("due_date"))
			return
		}
		if req.Status == "" {
			req.Status = models.TaskStatusTodo
		}
		if !models.ValidTaskStatus(req.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of todo, in_progress, done"))
			return
		}

		project, err := h.projectRepo.FindByID(req.ProjectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("project", err))
			return
		}
		if !project.IsMember(actor.ID) {
			h.responder.WriteError(w, errs.NewForbiddenError("not a member of the target project"))
			return
		}

		task := models.Task{
			Title:        req.Title,
			Description:  req.Description,
			ProjectID:    project.ID,
			AssignedToID: req.AssignedToID,
			Status:       req.Status,
			DueDate:      *req.DueDate,
			IsPinned:     req.IsPinned,
		}
		created, err := h.taskRepo.Create(actor, &task)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("task", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateTask applies a partial update. Members who are neither manager nor
// assignee can see the task but not change it.
func (h taskHandler) updateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, actor, err := h.loadVisibleTask(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !canEditTask(actor, task) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the project manager or assignee may modify the task"))
			return
		}

		var update database.TaskUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode task request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("task", err))
			return
		}

		if update.Status != nil && !models.ValidTaskStatus(*update.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be one of todo, in_progress, done"))
			return
		}

		updated, err := h.taskRepo.Update(actor, task, update)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("task", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

func (h taskHandler) deleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, actor, err := h.loadVisibleTask(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !canEditTask(actor, task) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the project manager or assignee may delete the task"))
			return
		}

		if err := h.taskRepo.Delete(task.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("task", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "task deleted successfully",
		})
	}
}
