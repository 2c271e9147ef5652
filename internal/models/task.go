package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo          TaskStatus = "todo"
	TaskStatusInProgress    TaskStatus = "in_progress"
	TaskStatusPendingReview TaskStatus = "pending_review"
	TaskStatusCompleted     TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusPendingReview, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ProjectID      uint64     `gorm:"primarykey;autoIncrement:false" json:"project_id"`
	TaskNumber     uint64     `gorm:"primarykey;autoIncrement:false" json:"task_number"`
	Title          string     `gorm:"type:varchar(150);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority       Priority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
	CompletionDate *time.Time `json:"completion_date"`
	CreatedAt      time.Time  `json:"created_at"`
	AssignedTo     *uint64    `json:"assigned_to"`

	// Relations. Comments and attachments reference the composite key and are
	// loaded explicitly by the task repository.
	Project  Project `gorm:"foreignKey:ProjectID" json:"-"`
	Assignee *User   `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
}

// Ref returns the composite key addressing this task.
func (t *Task) Ref() TaskRef {
	return TaskRef{ProjectID: t.ProjectID, TaskNumber: t.TaskNumber}
}
