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

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// ProjectCollection represents a list of projects visible to the actor
type ProjectCollection struct {
	Projects []*models.Project `json:"projects"`
	Total    int               `json:"total"`
}

// getAllProjects lists the projects the actor manages or belongs to, with
// optional search and ordering.
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		projects, err := h.projectRepo.FindVisible(actor.ID, listOptionsFromQuery(r))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// loadVisibleProject fetches the project and applies the visibility rule:
// for anyone outside the project, a hidden project and a missing project
// are the same 404.
func (h projectHandler) loadVisibleProject(r *http.Request) (*models.Project, *models.User, error) {
	actor := ctxActor(r.Context())
	if actor == nil {
		return nil, nil, errs.Unauthorized
	}

	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return nil, nil, errs.NewBadRequestError("invalid projectID")
	}

	project, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, nil, wrapDatabaseError("project", err)
	}
	if !canViewProject(actor, project) {
		return nil, nil, errs.NewNotFoundError("project not found")
	}
	return project, actor, nil
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, _, err := h.loadVisibleProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

type createProjectRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartDate   *time.Time  `json:"start_date"`
	EndDate     *time.Time  `json:"end_date"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

// createProject creates a project managed by the actor. A manager supplied
// in the payload is ignored; membership comes from member_ids.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := ctxActor(r.Context())
		if actor == nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req createProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		if req.Title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		project := models.Project{
			Title:       req.Title,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		}
		created, err := h.projectRepo.Create(actor, &project, req.MemberIDs)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("project", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updateProject applies a partial update. Members who are not the manager
// can see the project but not change it.
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, actor, err := h.loadVisibleProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !canManageProject(actor, project) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the project manager may modify the project"))
			return
		}

		var update database.ProjectUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project", err))
			return
		}

		updated, err := h.projectRepo.Update(actor, project, update)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("project", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, actor, err := h.loadVisibleProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !canManageProject(actor, project) {
			h.responder.WriteError(w, errs.NewForbiddenError("only the project manager may delete the project"))
			return
		}

		if err := h.projectRepo.Delete(project.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}
