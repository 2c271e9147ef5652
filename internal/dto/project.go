package dto

import (
	"time"

	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/services"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID             uint64          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	StartDate      *time.Time      `json:"start_date"`
	DueDate        *time.Time      `json:"due_date"`
	CompletionDate *time.Time      `json:"completion_date"`
	Priority       models.Priority `json:"priority"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ActivityDTO represents an activity log entry in API responses
type ActivityDTO struct {
	ID        uint64    `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
	UserID    *uint64   `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
}

// ProjectDetailResponse is a project with everything its detail page shows
type ProjectDetailResponse struct {
	Project  ProjectDTO    `json:"project"`
	Tasks    []TaskDTO     `json:"tasks"`
	Members  []UserDTO     `json:"members"`
	Activity []ActivityDTO `json:"activity"`
	Files    []FileDTO     `json:"files"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		StartDate:      project.StartDate,
		DueDate:        project.DueDate,
		CompletionDate: project.CompletionDate,
		Priority:       project.Priority,
		CreatedAt:      project.CreatedAt,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}

// ToActivityDTO converts an ActivityLog model to ActivityDTO
func ToActivityDTO(log models.ActivityLog) ActivityDTO {
	dto := ActivityDTO{
		ID:        log.ID,
		Action:    log.Action,
		CreatedAt: log.CreatedAt,
		UserID:    log.UserID,
	}
	if log.User != nil && log.User.ID != 0 {
		dto.UserName = log.User.Name
	}
	return dto
}

// ToActivityDTOs converts a slice of activity log entries
func ToActivityDTOs(logs []models.ActivityLog) []ActivityDTO {
	out := make([]ActivityDTO, len(logs))
	for i, l := range logs {
		out[i] = ToActivityDTO(l)
	}
	return out
}

// ToProjectDetailResponse converts a project detail aggregate
func ToProjectDetailResponse(detail *services.ProjectDetail) ProjectDetailResponse {
	return ProjectDetailResponse{
		Project:  ToProjectDTO(detail.Project),
		Tasks:    ToTaskDTOs(detail.Tasks),
		Members:  ToUserDTOs(detail.Members),
		Activity: ToActivityDTOs(detail.Activity),
		Files:    ToProjectFileDTOs(detail.Files),
	}
}
