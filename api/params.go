package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
	"github.com/OmarMoamarFostok/projectmanagement-backend/errs"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
)

// listOptionsFromQuery pulls the shared search/ordering parameters. Absent
// parameters are no-ops; ordering is validated later against the per-entity
// allow-list.
func listOptionsFromQuery(r *http.Request) database.ListOptions {
	query := r.URL.Query()
	return database.ListOptions{
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
	}
}

// taskFilterFromQuery parses the task list filter parameters. Malformed
// values are a bad request, not a silent no-op.
func taskFilterFromQuery(r *http.Request) (database.TaskFilter, error) {
	query := r.URL.Query()
	var filter database.TaskFilter

	if status := query.Get("status"); status != "" {
		if !models.ValidTaskStatus(status) {
			return filter, errs.NewInvalidFieldError("status", "must be one of todo, in_progress, done")
		}
		filter.Status = status
	}

	if raw := query.Get("project"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("project", "must be a valid id")
		}
		filter.ProjectID = &id
	}

	if raw := query.Get("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("assigned_to", "must be a valid id")
		}
		filter.AssignedToID = &id
	}

	if raw := query.Get("is_pinned"); raw != "" {
		pinned, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("is_pinned", "must be a boolean")
		}
		filter.IsPinned = &pinned
	}

	if raw := query.Get("due_date_before"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("due_date_before", "must be a date")
		}
		filter.DueBefore = &t
	}

	if raw := query.Get("due_date_after"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("due_date_after", "must be a date")
		}
		filter.DueAfter = &t
	}

	return filter, nil
}

// parseDate accepts a plain date or a full timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
