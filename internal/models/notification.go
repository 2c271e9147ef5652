package models

import "time"

type NotificationType string

const (
	NotificationTaskStatus NotificationType = "task_status"
	NotificationComment    NotificationType = "comment"
	NotificationFile       NotificationType = "file"
	NotificationAssignment NotificationType = "assignment"
	NotificationReview     NotificationType = "review"
)

// Notification is a per-recipient inbox entry created as a side effect of
// another user's action, within the same transaction as that action.
type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	Message   string           `gorm:"type:varchar(500);not null" json:"message"`
	Type      NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	UserID uint64 `gorm:"not null;index" json:"user_id"`

	// Optional references. The task reference is nullable, so the composite
	// columns are carried as pointers instead of an embedded TaskRef.
	TaskProjectID *uint64 `gorm:"column:task_project_id" json:"task_project_id"`
	TaskNumber    *uint64 `gorm:"column:task_number" json:"task_number"`
	ProjectID     *uint64 `json:"project_id"`
	TriggeredBy   *uint64 `json:"triggered_by"`
}

// TaskRef returns the referenced task key, or nil when the notification does
// not point at a task.
func (n *Notification) TaskRef() *TaskRef {
	if n.TaskProjectID == nil || n.TaskNumber == nil {
		return nil
	}
	return &TaskRef{ProjectID: *n.TaskProjectID, TaskNumber: *n.TaskNumber}
}
