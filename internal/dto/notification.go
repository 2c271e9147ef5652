package dto

import (
	"time"

	"github.com/taskhive/project-management-api/internal/models"
)

// NotificationDTO represents an inbox entry in API responses
type NotificationDTO struct {
	ID            uint64                  `json:"id"`
	Message       string                  `json:"message"`
	Type          models.NotificationType `json:"type"`
	IsRead        bool                    `json:"is_read"`
	CreatedAt     time.Time               `json:"created_at"`
	ProjectID     *uint64                 `json:"project_id"`
	TaskProjectID *uint64                 `json:"task_project_id"`
	TaskNumber    *uint64                 `json:"task_number"`
	TriggeredBy   *uint64                 `json:"triggered_by"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID,
		Message:       n.Message,
		Type:          n.Type,
		IsRead:        n.IsRead,
		CreatedAt:     n.CreatedAt,
		ProjectID:     n.ProjectID,
		TaskProjectID: n.TaskProjectID,
		TaskNumber:    n.TaskNumber,
		TriggeredBy:   n.TriggeredBy,
	}
}

// ToNotificationDTOs converts a slice of notifications
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		out[i] = ToNotificationDTO(n)
	}
	return out
}
