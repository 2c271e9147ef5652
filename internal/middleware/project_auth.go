package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
)

// RequireProjectAccess allows only members of the project named by the route
// parameter. Admins pass regardless of membership. It must run after
// RequireAuth.
func RequireProjectAccess(projects repository.ProjectRepository, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
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

		member, err := projects.IsMember(projectID, userID)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if !member {
			apierrors.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		c.Next()
	}
}
