package models

import "time"

// ProjectFile is a file uploaded against a project rather than a task.
type ProjectFile struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Filename   string    `gorm:"type:varchar(200);not null" json:"filename"`
	FileURL    string    `gorm:"type:varchar(300);not null" json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy *uint64   `gorm:"index" json:"uploaded_by"`
	ProjectID  uint64    `gorm:"not null;index" json:"project_id"`

	// Relations
	Uploader *User `gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL" json:"uploader,omitempty"`
}
