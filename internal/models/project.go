package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Project struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Name           string     `gorm:"type:varchar(150);not null" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
	CompletionDate *time.Time `json:"completion_date"`
	Priority       Priority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relations
	Tasks   []Task        `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Files   []ProjectFile `gorm:"foreignKey:ProjectID" json:"files,omitempty"`
	Members []*User       `gorm:"many2many:project_members" json:"members,omitempty"`
}
