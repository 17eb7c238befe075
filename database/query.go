package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/errs"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOptions carries the optional list-level transforms shared by every
// list endpoint. An empty value is a no-op; transforms compose as
// search, then filters, then ordering.
type ListOptions struct {
	Search   string
	Ordering string
}

// TaskFilter holds the exact-match and date-range predicates accepted by the
// task list endpoint. Nil/zero fields are skipped.
type TaskFilter struct {
	Status       string
	ProjectID    *uuid.UUID
	AssignedToID *uuid.UUID
	IsPinned     *bool
	DueBefore    *time.Time
	DueAfter     *time.Time
}

// Ordering allow-lists, API field name -> column.
var (
	projectOrderFields = map[string]string{
		"created_at": "created_at",
		"start_date": "start_date",
		"end_date":   "end_date",
	}
	taskOrderFields = map[string]string{
		"created_at": "created_at",
		"due_date":   "due_date",
		"is_pinned":  "is_pinned",
	}
)

// orderExpr validates a comma-separated ordering parameter against the
// allow-list and returns the ORDER BY expression. A leading '-' means
// descending. An unknown field is a hard error, never silently ignored.
func orderExpr(ordering string, allowed map[string]string, fallback string) (string, error) {
	if ordering == "" {
		return fallback, nil
	}

	var parts []string
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		name := strings.TrimPrefix(field, "-")
		column, ok := allowed[name]
		if !ok {
			return "", errs.NewInvalidFieldError("ordering", fmt.Sprintf("%q is not a valid ordering field", name))
		}
		if strings.HasPrefix(field, "-") {
			column += " DESC"
		}
		parts = append(parts, column)
	}
	return strings.Join(parts, ", "), nil
}

// searchScope applies a case-insensitive substring match over title and
// description. LOWER() keeps behavior identical across postgres and the
// sqlite test database.
func searchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		pattern := "%" + strings.ToLower(search) + "%"
		return db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
}

// memberProjectIDs is the subquery of project ids the user belongs to
// through the member set (manager-only projects are not included here).
func memberProjectIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Table("project_members").Select("project_id").Where("user_id = ?", userID)
}

// visibleProjectIDs is the subquery of project ids the user may see:
// projects they manage plus projects they are a member of.
func visibleProjectIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Table("projects").Select("id").
		Where("manager_id = ? OR id IN (?)", userID, memberProjectIDs(db, userID))
}
