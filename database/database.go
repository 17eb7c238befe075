package database

import (
	"github.com/OmarMoamarFostok/projectmanagement-backend/events"
	"gorm.io/gorm"
)

type Database struct {
	userRepo         *UserRepo
	projectRepo      *ProjectRepo
	taskRepo         *TaskRepo
	commentRepo      *CommentRepo
	notificationRepo *NotificationRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance. Mutating repositories fire post-commit events on
// the hub; pass nil to run without reactors (tests that only exercise
// queries do this).
func New(db *gorm.DB, hub *events.Hub) Database {
	return Database{
		userRepo:         NewUserRepo(db),
		projectRepo:      NewProjectRepo(db, hub),
		taskRepo:         NewTaskRepo(db, hub),
		commentRepo:      NewCommentRepo(db, hub),
		notificationRepo: NewNotificationRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TaskRepo() *TaskRepo {
	return d.taskRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) NotificationRepo() *NotificationRepo {
	return d.notificationRepo
}
