package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/dto"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/services"
	"github.com/taskhive/project-management-api/internal/storage"
)

// parseID parses a numeric route parameter, responding 400 on failure
func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+param)
		return 0, false
	}
	return id, true
}

// parseTaskRef parses the composite task key from the route, responding 400
// on failure
func parseTaskRef(c *gin.Context) (models.TaskRef, bool) {
	projectID, ok := parseID(c, "project_id")
	if !ok {
		return models.TaskRef{}, false
	}
	number, ok := parseID(c, "task_number")
	if !ok {
		return models.TaskRef{}, false
	}
	return models.TaskRef{ProjectID: projectID, TaskNumber: number}, true
}

// respondServiceError maps a service error to the API error taxonomy
func respondServiceError(c *gin.Context, err error) {
	var dateErr *services.DateBoundError
	var incompleteErr *services.IncompleteTasksError

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrFileNotFound),
		errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid email or password"))

	case errors.Is(err, services.ErrEmailTaken):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIError(apierrors.ErrCodeAlreadyExists, "A user with this email already exists"))

	case errors.As(err, &dateErr):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIErrorWithDetails(apierrors.ErrCodeDateRange, "Task dates must fall within the project dates",
				gin.H{"field": dateErr.Field, "bound": dateErr.Bound}))

	case errors.As(err, &incompleteErr):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.NewAPIErrorWithDetails(apierrors.ErrCodeConflict, "Project has incomplete tasks",
				gin.H{"incomplete_tasks": dto.ToTaskDTOs(incompleteErr.Tasks)}))

	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNotPendingReview),
		errors.Is(err, services.ErrAssigneeNotMember),
		errors.Is(err, services.ErrCommentRequired),
		errors.Is(err, storage.ErrExtensionNotAllowed):
		apierrors.BadRequest(c, err.Error())

	default:
		apierrors.InternalError(c, "")
	}
}
