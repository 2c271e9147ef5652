package dto

import (
	"time"

	"github.com/taskhive/project-management-api/internal/models"
)

// FileDTO represents an uploaded file in API responses, either a project
// file or a task attachment.
type FileDTO struct {
	ID         uint64    `json:"id"`
	Filename   string    `json:"filename"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy *uint64   `json:"uploaded_by"`
	ProjectID  uint64    `json:"project_id"`
	TaskNumber *uint64   `json:"task_number,omitempty"`
}

// ToProjectFileDTO converts a ProjectFile model to FileDTO
func ToProjectFileDTO(file models.ProjectFile) FileDTO {
	return FileDTO{
		ID:         file.ID,
		Filename:   file.Filename,
		FileURL:    file.FileURL,
		UploadedAt: file.UploadedAt,
		UploadedBy: file.UploadedBy,
		ProjectID:  file.ProjectID,
	}
}

// ToProjectFileDTOs converts a slice of project files
func ToProjectFileDTOs(files []models.ProjectFile) []FileDTO {
	out := make([]FileDTO, len(files))
	for i, f := range files {
		out[i] = ToProjectFileDTO(f)
	}
	return out
}

// ToAttachmentDTO converts an Attachment model to FileDTO
func ToAttachmentDTO(attachment models.Attachment) FileDTO {
	number := attachment.Task.TaskNumber
	return FileDTO{
		ID:         attachment.ID,
		Filename:   attachment.Filename,
		FileURL:    attachment.FileURL,
		UploadedAt: attachment.UploadedAt,
		UploadedBy: attachment.UploadedBy,
		ProjectID:  attachment.Task.ProjectID,
		TaskNumber: &number,
	}
}

// ToAttachmentDTOs converts a slice of attachments
func ToAttachmentDTOs(attachments []models.Attachment) []FileDTO {
	out := make([]FileDTO, len(attachments))
	for i, a := range attachments {
		out[i] = ToAttachmentDTO(a)
	}
	return out
}
