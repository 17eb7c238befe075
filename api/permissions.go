package api

import (
	"github.com/OmarMoamarFostok/projectmanagement-backend/models"
)

// Object-level permission rules. Read denials are surfaced as not-found by
// the handlers so a hidden object is indistinguishable from a missing one;
// only write denial on a visible object becomes forbidden.

func canViewProject(actor *models.User, project *models.Project) bool {
	return project.IsMember(actor.ID)
}

func canManageProject(actor *models.User, project *models.Project) bool {
	return project.ManagerID == actor.ID
}

func canViewTask(actor *models.User, task *models.Task) bool {
	return task.Project != nil && task.Project.IsMember(actor.ID)
}

// canEditTask allows the project manager and the assignee to change or
// delete a task.
func canEditTask(actor *models.User, task *models.Task) bool {
	if task.Project != nil && task.Project.ManagerID == actor.ID {
		return true
	}
	return task.AssignedToID == actor.ID
}
