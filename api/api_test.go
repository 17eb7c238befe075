package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
	"github.com/OmarMoamarFostok/projectmanagement-backend/events"
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
	"github.com/OmarMoamarFostok/projectmanagement-backend/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// newTestAPI stands up the full router against an in-memory database with
// the notifier registered, exactly as main wires it.
func newTestAPI(t *testing.T) (*chi.Mux, *gorm.DB) {
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

	hub := events.NewHub()
	currentDB := database.New(db, hub)
	services.NewNotifier(currentDB.NotificationRepo()).Register(hub)

	router := newRouter(currentDB, withConfig(map[string]string{"JWT_SECRET": testSecret}))
	return router, db
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

	project := &models.Project{Title: title, ManagerID: manager.ID}
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

// doRequest performs a request as the given user; a nil user sends no token.
func doRequest(t *testing.T, router http.Handler, user *models.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := issueToken([]byte(testSecret), user.ID, time.Hour)
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), into); err != nil {
		t.Fatalf("Failed to decode response %q: %v", recorder.Body.String(), err)
	}
}

func TestAuthentication_Required(t *testing.T) {
	router, _ := newTestAPI(t)

	for _, path := range []string{"/projects", "/tasks", "/notifications", "/users/profile"} {
		recorder := doRequest(t, router, nil, http.MethodGet, path, nil)
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, recorder.Code)
		}
	}
}

func TestAuthentication_GarbageToken(t *testing.T) {
	router, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := newTestAPI(t)

	recorder := doRequest(t, router, nil, http.MethodPost, "/auth/register", map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "hunter22",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var created models.User
	decodeBody(t, recorder, &created)
	if created.Username != "newuser" {
		t.Errorf("Expected created user echoed back, got %q", created.Username)
	}
	if strings.Contains(recorder.Body.String(), "hunter22") {
		t.Error("Response must never contain the password")
	}

	recorder = doRequest(t, router, nil, http.MethodPost, "/auth/login", map[string]string{
		"username": "newuser",
		"password": "hunter22",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var login struct {
		Access string      `json:"access"`
		User   models.User `json:"user"`
	}
	decodeBody(t, recorder, &login)
	if login.Access == "" {
		t.Fatal("Expected an access token")
	}

	// The issued token must be accepted by the authenticated surface.
	req := httptest.NewRequest(http.MethodGet, "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+login.Access)
	profileRecorder := httptest.NewRecorder()
	router.ServeHTTP(profileRecorder, req)
	if profileRecorder.Code != http.StatusOK {
		t.Fatalf("profile with issued token: status = %d", profileRecorder.Code)
	}
}

func TestLogin_WrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	router, _ := newTestAPI(t)

	recorder := doRequest(t, router, nil, http.MethodPost, "/auth/register", map[string]string{
		"username": "alice",
		"password": "correct",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register status = %d", recorder.Code)
	}

	wrongPassword := doRequest(t, router, nil, http.MethodPost, "/auth/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	unknownUser := doRequest(t, router, nil, http.MethodPost, "/auth/login", map[string]string{
		"username": "nobody", "password": "wrong",
	})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Errorf("Expected identical error bodies, got %q vs %q",
			wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestGetProject_NonMemberGets404(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	outsider := seedUser(t, db, "outsider")
	project := seedProject(t, db, "Private", manager)

	recorder := doRequest(t, router, outsider, http.MethodGet, "/projects/"+project.ID.String(), nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for invisible project", recorder.Code)
	}

	// The manager still sees it.
	recorder = doRequest(t, router, manager, http.MethodGet, "/projects/"+project.ID.String(), nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for the manager", recorder.Code)
	}
}

func TestUpdateProject_MemberGets403(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	member := seedUser(t, db, "member")
	project := seedProject(t, db, "Shared", manager, member)

	recorder := doRequest(t, router, member, http.MethodPut, "/projects/"+project.ID.String(),
		map[string]string{"title": "Hijacked"})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for a non-manager member", recorder.Code)
	}

	recorder = doRequest(t, router, member, http.MethodDelete, "/projects/"+project.ID.String(), nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("delete status = %d, want 403 for a non-manager member", recorder.Code)
	}

	recorder = doRequest(t, router, manager, http.MethodPut, "/projects/"+project.ID.String(),
		map[string]string{"title": "Renamed"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("manager update status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var updated models.Project
	decodeBody(t, recorder, &updated)
	if updated.Title != "Renamed" {
		t.Errorf("Expected title applied, got %q", updated.Title)
	}
}

func TestListProjects_UnknownOrderingIs400(t *testing.T) {
	router, db := newTestAPI(t)

	user := seedUser(t, db, "user")

	recorder := doRequest(t, router, user, http.MethodGet, "/projects?ordering=manager_id", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown ordering field", recorder.Code)
	}
}

func TestCreateProject_NotifiesMembers(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	member := seedUser(t, db, "member")

	recorder := doRequest(t, router, manager, http.MethodPost, "/projects", map[string]any{
		"title":      "Rollout",
		"member_ids": []string{member.ID.String()},
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var notifications []models.Notification
	if err := db.Where("recipient_id = ?", member.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("Failed to load notifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].NotificationType != models.NotificationProjectAdded {
		t.Fatalf("Expected one project_added notification for the member, got %d", len(notifications))
	}
}

func TestCreateTask_MembershipGate(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	outsider := seedUser(t, db, "outsider")
	project := seedProject(t, db, "Gated", manager)

	payload := map[string]any{
		"title":          "Sneak in",
		"project_id":     project.ID.String(),
		"assigned_to_id": outsider.ID.String(),
		"due_date":       time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
	}

	// Visible-but-foreign project: the outsider can tell it exists, so the
	// rejection is a plain 403.
	recorder := doRequest(t, router, outsider, http.MethodPost, "/tasks", payload)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for non-member task creation", recorder.Code)
	}

	payload["project_id"] = uuid.New().String()
	recorder = doRequest(t, router, outsider, http.MethodPost, "/tasks", payload)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown project", recorder.Code)
	}
}

func TestCreateTask_EndToEndWithNotifications(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	assignee := seedUser(t, db, "assignee")
	project := seedProject(t, db, "Delivery", manager, assignee)

	recorder := doRequest(t, router, manager, http.MethodPost, "/tasks", map[string]any{
		"title":          "Ship the release",
		"project_id":     project.ID.String(),
		"assigned_to_id": assignee.ID.String(),
		"due_date":       time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var created models.Task
	decodeBody(t, recorder, &created)
	if created.Status != models.TaskStatusTodo {
		t.Errorf("Expected default status todo, got %q", created.Status)
	}

	// Distinct manager and assignee: one row each, regardless of who
	// performed the creation.
	var notifications []models.Notification
	if err := db.Find(&notifications).Error; err != nil {
		t.Fatalf("Failed to load notifications: %v", err)
	}
	if len(notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(notifications))
	}
	byRecipient := map[uuid.UUID]string{}
	for _, notification := range notifications {
		byRecipient[notification.RecipientID] = notification.NotificationType
	}
	if byRecipient[manager.ID] != models.NotificationTaskCreated {
		t.Errorf("Expected a task_created notification for the manager, got %q", byRecipient[manager.ID])
	}
	if byRecipient[assignee.ID] != models.NotificationTaskAssigned {
		t.Errorf("Expected a task_assigned notification for the assignee, got %q", byRecipient[assignee.ID])
	}
}

func TestUpdateTask_AssigneeMayEdit(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	assignee := seedUser(t, db, "assignee")
	bystander := seedUser(t, db, "bystander")
	project := seedProject(t, db, "Board", manager, assignee, bystander)
	task := seedTask(t, db, "Iterate", project, assignee)

	recorder := doRequest(t, router, bystander, http.MethodPut, "/tasks/"+task.ID.String(),
		map[string]string{"status": models.TaskStatusDone})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for a member who is neither manager nor assignee", recorder.Code)
	}

	recorder = doRequest(t, router, assignee, http.MethodPut, "/tasks/"+task.ID.String(),
		map[string]string{"status": models.TaskStatusInProgress})
	if recorder.Code != http.StatusOK {
		t.Fatalf("assignee update status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var updated models.Task
	decodeBody(t, recorder, &updated)
	if updated.Status != models.TaskStatusInProgress {
		t.Errorf("Expected status applied, got %q", updated.Status)
	}
}

func TestUpdateTask_InvalidStatusIs400(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	project := seedProject(t, db, "Board", manager)
	task := seedTask(t, db, "Strict", project, manager)

	recorder := doRequest(t, router, manager, http.MethodPut, "/tasks/"+task.ID.String(),
		map[string]string{"status": "archived"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown task status", recorder.Code)
	}
}

func TestGetTask_NonMemberGets404(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	outsider := seedUser(t, db, "outsider")
	project := seedProject(t, db, "Private", manager)
	task := seedTask(t, db, "Hidden", project, manager)

	recorder := doRequest(t, router, outsider, http.MethodGet, "/tasks/"+task.ID.String(), nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for a task in a foreign project", recorder.Code)
	}
}

func TestComments_NonAuthorMutationIs404(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	member := seedUser(t, db, "member")
	project := seedProject(t, db, "Talk", manager, member)
	task := seedTask(t, db, "Thread", project, member)

	recorder := doRequest(t, router, member, http.MethodPost,
		"/tasks/"+task.ID.String()+"/comments", map[string]string{"content": "first!"})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create comment status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var comment models.Comment
	decodeBody(t, recorder, &comment)

	commentPath := "/tasks/" + task.ID.String() + "/comments/" + comment.ID.String()

	// Even the project manager cannot touch someone else's comment; the
	// narrowed lookup makes it a 404 rather than a 403.
	recorder = doRequest(t, router, manager, http.MethodDelete, commentPath, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("non-author delete status = %d, want 404", recorder.Code)
	}
	recorder = doRequest(t, router, manager, http.MethodPut, commentPath,
		map[string]string{"content": "edited"})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("non-author update status = %d, want 404", recorder.Code)
	}

	recorder = doRequest(t, router, member, http.MethodDelete, commentPath, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("author delete status = %d, body %s", recorder.Code, recorder.Body.String())
	}
}

func TestComments_RequireProjectMembership(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	outsider := seedUser(t, db, "outsider")
	project := seedProject(t, db, "Closed", manager)
	task := seedTask(t, db, "Quiet", project, manager)

	recorder := doRequest(t, router, outsider, http.MethodGet,
		"/tasks/"+task.ID.String()+"/comments", nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for a non-member on the comment surface", recorder.Code)
	}

	recorder = doRequest(t, router, outsider, http.MethodGet,
		"/tasks/"+uuid.New().String()+"/comments", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for an unknown task", recorder.Code)
	}
}

func TestNotifications_ReadFlow(t *testing.T) {
	router, db := newTestAPI(t)

	manager := seedUser(t, db, "manager")
	assignee := seedUser(t, db, "assignee")
	project := seedProject(t, db, "Flow", manager, assignee)
	seedTask(t, db, "ignored", project, assignee)

	// Generate a real notification through the API.
	recorder := doRequest(t, router, manager, http.MethodPost, "/tasks", map[string]any{
		"title":          "Notify me",
		"project_id":     project.ID.String(),
		"assigned_to_id": assignee.ID.String(),
		"due_date":       time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("task create status = %d", recorder.Code)
	}

	recorder = doRequest(t, router, assignee, http.MethodGet, "/notifications", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list status = %d", recorder.Code)
	}
	var listing struct {
		Notifications []models.Notification `json:"notifications"`
		Total         int                   `json:"total"`
	}
	decodeBody(t, recorder, &listing)
	if listing.Total != 1 {
		t.Fatalf("Expected 1 notification, got %d", listing.Total)
	}
	notification := listing.Notifications[0]

	// Another user cannot flip it.
	recorder = doRequest(t, router, manager, http.MethodPut,
		"/notifications/"+notification.ID.String(), map[string]bool{"is_read": true})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("foreign update status = %d, want 404", recorder.Code)
	}

	recorder = doRequest(t, router, assignee, http.MethodPut,
		"/notifications/"+notification.ID.String(), map[string]bool{"is_read": true})
	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", recorder.Code, recorder.Body.String())
	}
	var updated models.Notification
	decodeBody(t, recorder, &updated)
	if !updated.IsRead {
		t.Error("Expected is_read flipped")
	}

	// Missing is_read is a validation error, not a silent no-op.
	recorder = doRequest(t, router, assignee, http.MethodPut,
		"/notifications/"+notification.ID.String(), map[string]string{})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("empty update status = %d, want 400", recorder.Code)
	}

	recorder = doRequest(t, router, assignee, http.MethodPost, "/notifications/mark-all-read", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("mark-all-read status = %d", recorder.Code)
	}
}
