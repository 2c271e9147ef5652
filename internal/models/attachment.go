package models

import "time"

// Attachment is a file uploaded against a single task.
type Attachment struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	Filename   string    `gorm:"type:varchar(200);not null" json:"filename"`
	FileURL    string    `gorm:"type:varchar(300);not null" json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy *uint64   `json:"uploaded_by"`

	Task TaskRef `gorm:"embedded" json:"task"`

	// Relations
	Uploader *User `gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL" json:"uploader,omitempty"`
}
