package api

import (
	"time"

	"github.com/OmarMoamarFostok/projectmanagement-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, jwtSecret []byte, tokenTTL time.Duration) *routeHandlers {
	return &routeHandlers{
		authHandler:         newAuthHandler(database.UserRepo(), jwtSecret, tokenTTL),
		projectHandler:      newProjectHandler(database.ProjectRepo()),
		taskHandler:         newTaskHandler(database.TaskRepo(), database.ProjectRepo()),
		commentHandler:      newCommentHandler(database.CommentRepo(), database.TaskRepo()),
		notificationHandler: newNotificationHandler(database.NotificationRepo()),
	}
}
