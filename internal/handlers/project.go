package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/project-management-api/internal/dto"
	apierrors "github.com/taskhive/project-management-api/internal/errors"
	"github.com/taskhive/project-management-api/internal/middleware"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns all projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.List()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

// ListMyProjects returns the projects the caller is a member of
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListByMember(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

// GetProject returns a project with its tasks, members, activity and files
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	detail, err := h.projectService.Detail(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailResponse(detail))
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string          `json:"name" binding:"required"`
		Description string          `json:"description"`
		StartDate   *time.Time      `json:"start_date"`
		DueDate     *time.Time      `json:"due_date"`
		Priority    models.Priority `json:"priority"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(userID, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": dto.ToProjectDTO(*project)})
}

// UpdateProject edits a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		StartDate   *time.Time       `json:"start_date"`
		DueDate     *time.Time       `json:"due_date"`
		Priority    *models.Priority `json:"priority"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Update(userID, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectDTO(*project)})
}

// DeleteProject removes a project and everything it owns
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// UpdateMembers replaces the project's membership set
func (h *ProjectHandler) UpdateMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	type UpdateMembersRequest struct {
		MemberIDs []uint64 `json:"member_ids"`
	}

	var req UpdateMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	count, err := h.projectService.ReplaceMembers(userID, id, req.MemberIDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Members updated successfully",
		"member_count": count,
	})
}

// CompleteProject marks a project completed once every task is completed
func (h *ProjectHandler) CompleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.projectService.Complete(userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": dto.ToProjectDTO(*project)})
}
