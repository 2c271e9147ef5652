package models

import "time"

// ActivityLog is an append-only audit trail entry. Rows outlive the acting
// user and are only deleted when their project is deleted.
type ActivityLog struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Action    string    `gorm:"type:varchar(300);not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
	UserID    *uint64   `gorm:"index" json:"user_id"`
	ProjectID *uint64   `gorm:"index" json:"project_id"`

	// Relations
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}
