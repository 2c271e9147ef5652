package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/dto"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/middleware"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/services"
	"github.com/taskhive/project-management-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns tasks matching the optional query filters
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter, ok := parseTaskFilter(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(filter, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListMyTasks returns the tasks assigned to the caller
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	filter, ok := parseTaskFilter(c)
	if !ok {
		return
	}
	filter.AssignedTo = &userID
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(filter, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// ListProjectTasks returns the tasks of the project named by the route
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	projectID, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	filter, ok := parseTaskFilter(c)
	if !ok {
		return
	}
	filter.ProjectID = &projectID
	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.List(filter, params)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a task with its comments and attachments
func (h *TaskHandler) GetTask(c *gin.Context) {
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	detail, err := h.taskService.Detail(ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailResponse(detail))
}

// CreateTask creates a task inside the project named by the route
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title" binding:"required"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
		Priority    models.Priority   `json:"priority"`
		StartDate   *time.Time        `json:"start_date"`
		DueDate     *time.Time        `json:"due_date"`
		AssignedTo  *uint64           `json:"assigned_to"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}

// UpdateTask edits a task. The raw body is inspected so that an explicit
// null assigned_to unassigns the task while an absent field leaves it alone.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if title, ok := rawReq["title"].(string); ok {
		input.Title = &title
	}
	if description, ok := rawReq["description"].(string); ok {
		input.Description = &description
	}
	if priority, ok := rawReq["priority"].(string); ok {
		p := models.Priority(priority)
		input.Priority = &p
	}
	if raw, ok := rawReq["start_date"].(string); ok {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid start_date")
			return
		}
		input.StartDate = &parsed
	}
	if raw, ok := rawReq["due_date"].(string); ok {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date")
			return
		}
		input.DueDate = &parsed
	}
	if raw, present := rawReq["assigned_to"]; present {
		if raw == nil {
			var unassign *uint64
			input.AssignedTo = &unassign
		} else if id, ok := raw.(float64); ok && id >= 0 {
			assignee := uint64(id)
			ptr := &assignee
			input.AssignedTo = &ptr
		} else {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
	}

	task, err := h.taskService.Update(userID, ref, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// DeleteTask removes a task with its comments and attachments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(userID, ref); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// UpdateStatus changes a task's status on behalf of the caller. A member
// completing a task lands it in pending review instead.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(userID, role, ref, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// CompleteTask marks a task completed directly, bypassing review. Only
// admins reach this handler, so the completion date is stamped.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	task, err := h.taskService.UpdateStatus(userID, role, ref, models.TaskStatusCompleted)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// ApproveTask accepts a task that is pending review
func (h *TaskHandler) ApproveTask(c *gin.Context) {
	h.reviewTask(c, true)
}

// RejectTask sends a task that is pending review back to in progress
func (h *TaskHandler) RejectTask(c *gin.Context) {
	h.reviewTask(c, false)
}

func (h *TaskHandler) reviewTask(c *gin.Context, approve bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	var (
		task *models.Task
		err  error
	)
	if approve {
		task, err = h.taskService.Approve(userID, ref)
	} else {
		task, err = h.taskService.Reject(userID, ref)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.taskService.AddComment(userID, ref, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": dto.ToCommentDTO(*comment)})
}

// ListComments lists a task's comments, newest first
func (h *TaskHandler) ListComments(c *gin.Context) {
	ref, ok := parseTaskRef(c)
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(comments)})
}

// parseTaskFilter reads the optional list filters from the query string
func parseTaskFilter(c *gin.Context) (repository.TaskFilter, bool) {
	var filter repository.TaskFilter

	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return filter, false
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !models.ValidTaskStatus(status) {
			apierrors.BadRequest(c, "Invalid status")
			return filter, false
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.Priority(raw)
		filter.Priority = &priority
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return filter, false
		}
		filter.AssignedTo = &id
	}

	return filter, true
}
