package dto

import (
	"time"

	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/services"
)

// TaskDTO represents a task in API responses. Tasks are identified by the
// (project_id, task_number) pair.
type TaskDTO struct {
	ProjectID      uint64            `json:"project_id"`
	TaskNumber     uint64            `json:"task_number"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         models.TaskStatus `json:"status"`
	Priority       models.Priority   `json:"priority"`
	StartDate      *time.Time        `json:"start_date"`
	DueDate        *time.Time        `json:"due_date"`
	CompletionDate *time.Time        `json:"completion_date"`
	CreatedAt      time.Time         `json:"created_at"`
	AssignedTo     *uint64           `json:"assigned_to"`
	Assignee       *UserDTO          `json:"assignee,omitempty"`
	ProjectName    string            `json:"project_name,omitempty"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID         uint64    `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	ProjectID  uint64    `json:"project_id"`
	TaskNumber uint64    `json:"task_number"`
	UserID     *uint64   `json:"user_id"`
	Author     *UserDTO  `json:"author,omitempty"`
}

// TaskDetailResponse is a task with its comments and attachments
type TaskDetailResponse struct {
	Task        TaskDTO      `json:"task"`
	Comments    []CommentDTO `json:"comments"`
	Attachments []FileDTO    `json:"attachments"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ProjectID:      task.ProjectID,
		TaskNumber:     task.TaskNumber,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		StartDate:      task.StartDate,
		DueDate:        task.DueDate,
		CompletionDate: task.CompletionDate,
		CreatedAt:      task.CreatedAt,
		AssignedTo:     task.AssignedTo,
	}

	// Include assignee and project name if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Project.ID != 0 {
		dto.ProjectName = task.Project.Name
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:         comment.ID,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
		ProjectID:  comment.Task.ProjectID,
		TaskNumber: comment.Task.TaskNumber,
		UserID:     comment.UserID,
	}
	if comment.Author != nil && comment.Author.ID != 0 {
		author := ToUserDTO(*comment.Author)
		dto.Author = &author
	}
	return dto
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = ToCommentDTO(c)
	}
	return out
}

// ToTaskDetailResponse converts a task detail aggregate
func ToTaskDetailResponse(detail *services.TaskDetail) TaskDetailResponse {
	return TaskDetailResponse{
		Task:        ToTaskDTO(detail.Task),
		Comments:    ToCommentDTOs(detail.Comments),
		Attachments: ToAttachmentDTOs(detail.Attachments),
	}
}
