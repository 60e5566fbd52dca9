package models

import "time"

// Photo is an uploaded image whose file and row share a lifecycle: deleting
// or replacing one must delete or replace the other.
type Photo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ImageURL    string    `gorm:"size:255;not null" json:"image_url"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated on list queries that join users. Readable by Scan, never a
	// column.
	Username string `gorm:"->;-:migration" json:"username,omitempty"`
}
