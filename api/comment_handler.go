package api

import (
	"encoding/json"
	"net/http"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
	"github.com/OmarMoamarFostok/projectmanagement-backend/errs"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	commentRepo *database.CommentRepo
	taskRepo    *database.TaskRepo
}

func newCommentHandler(commentRepo *database.CommentRepo, taskRepo *database.TaskRepo) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
	}
}

// CommentCollection represents the comments on a task
type CommentCollection struct {
	Comments []*models.Comment `json:"comments"`
	Total    int               `json:"total"`
}

// loadTask resolves the task from the URL and gates on project membership.
// An unknown task is a 404; a visible task in a project the actor is
// outside of is a 403.
func (h commentHandler) loadTask(r *http.Request) (*models.Task, *models.User, error) {
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
		return nil, nil, errs.NewForbiddenError("not a member of the task's project")
	}
	return task, actor, nil
}

func (h commentHandler) getAllComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, _, err := h.loadTask(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.commentRepo.FindByTask(task.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("comments", err))
			return
		}

		h.responder.WriteJSON(w, CommentCollection{Comments: comments, Total: len(comments)})
	}
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// createComment creates a comment authored by the actor. The author and the
// task always come from the request context and URL, never the payload.
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, actor, err := h.loadTask(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req createCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}
		if req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		created, err := h.commentRepo.Create(actor, task, req.Content)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("comment", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// loadOwnComment narrows the target to comments authored by the actor.
// Another member's comment on the same task is a 404 here, never a 403.
func (h commentHandler) loadOwnComment(r *http.Request) (*models.Comment, error) {
	task, actor, err := h.loadTask(r)
	if err != nil {
		return nil, err
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid commentID")
	}

	comment, err := h.commentRepo.FindOwned(commentID, task.ID, actor.ID)
	if err != nil {
		return nil, wrapDatabaseError("comment", err)
	}
	return comment, nil
}

func (h commentHandler) getComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, err := h.loadOwnComment(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, comment)
	}
}

func (h commentHandler) updateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, err := h.loadOwnComment(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var update database.CommentUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("comment", err))
			return
		}

		updated, err := h.commentRepo.Update(comment, update)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("comment", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comment, err := h.loadOwnComment(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.commentRepo.Delete(comment.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("comment", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "comment deleted successfully",
		})
	}
}
