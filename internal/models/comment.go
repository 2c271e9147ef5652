package models

import "time"

// Comment survives its author; deleting the author leaves the row with a
// null user reference.
type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Task   TaskRef `gorm:"embedded" json:"task"`
	UserID *uint64 `gorm:"index" json:"user_id"`

	// Relations
	Author *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
}
