package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// RequireTaskAssignment allows only the task's assignee to proceed. Admins
// pass regardless. It must run after RequireAuth, on routes carrying the
// project_id and task_number parameters.
func RequireTaskAssignment(tasks repository.TaskRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}
		taskNumber, err := strconv.ParseUint(c.Param("task_number"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task number")
			c.Abort()
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if role, _ := GetUserRole(c); role == models.RoleAdmin {
			c.Next()
			return
		}

		task, err := tasks.FindByRef(models.TaskRef{ProjectID: projectID, TaskNumber: taskNumber})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if task.AssignedTo == nil || *task.AssignedTo != userID {
			apierrors.Forbidden(c, "Not authorized")
			c.Abort()
			return
		}

		c.Next()
	}
}
