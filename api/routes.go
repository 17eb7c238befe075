package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public auth endpoints and the authenticated API.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/auth/register", handlers.authHandler.register())
		r.Post("/auth/login", handlers.authHandler.login())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		// User endpoints
		r.Get("/users", handlers.authHandler.getAllUsers())
		r.Get("/users/profile", handlers.authHandler.getProfile())
		r.Put("/users/profile", handlers.authHandler.updateProfile())

		// Project endpoints
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())

		// Task endpoints
		r.Get("/tasks", handlers.taskHandler.getAllTasks())
		r.Post("/tasks", handlers.taskHandler.createTask())
		r.Get("/tasks/{taskID}", handlers.taskHandler.getTask())
		r.Put("/tasks/{taskID}", handlers.taskHandler.updateTask())
		r.Delete("/tasks/{taskID}", handlers.taskHandler.deleteTask())

		// Comment endpoints, nested under their task
		r.Get("/tasks/{taskID}/comments", handlers.commentHandler.getAllComments())
		r.Post("/tasks/{taskID}/comments", handlers.commentHandler.createComment())
		r.Get("/tasks/{taskID}/comments/{commentID}", handlers.commentHandler.getComment())
		r.Put("/tasks/{taskID}/comments/{commentID}", handlers.commentHandler.updateComment())
		r.Delete("/tasks/{taskID}/comments/{commentID}", handlers.commentHandler.deleteComment())

		// Notification endpoints
		r.Get("/notifications", handlers.notificationHandler.getAllNotifications())
		r.Put("/notifications/{notificationID}", handlers.notificationHandler.updateNotification())
		r.Post("/notifications/mark-all-read", handlers.notificationHandler.markAllRead())
	})
}
