package database

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database migrated to the
// full entity set. One connection only, so the shared-cache memory DB and
// the foreign_keys pragma behave predictably.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectLog{},
		&models.Task{},
		&models.Comment{},
		&models.TaskLog{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return user
}

func seedProject(t *testing.T, db *gorm.DB, title string, manager *models.User, members ...*models.User) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:     title,
		ManagerID: manager.ID,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("Failed to seed project %s: %v", title, err)
	}
	for _, member := range members {
		if err := db.Model(project).Association("Members").Append(member); err != nil {
			t.Fatalf("Failed to add member %s: %v", member.Username, err)
		}
	}
	return project
}

func seedTask(t *testing.T, db *gorm.DB, title string, project *models.Project, assignee *models.User) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        title,
		ProjectID:    project.ID,
		AssignedToID: assignee.ID,
		Status:       models.TaskStatusTodo,
		DueDate:      time.Now().AddDate(0, 0, 7),
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("Failed to seed task %s: %v", title, err)
	}
	return task
}

func projectIDs(projects []*models.Project) []uuid.UUID {
	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
