package entities

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered identity. Locally registered users carry a
// PasswordHash; users who signed in through Google carry a GoogleID.
// A linked account may have both, but never neither.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:255" json:"username"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"`
	Secret       string         `gorm:"type:text" json:"-"` // free-form user payload, unrelated to auth
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Post is a published blog entry. Posts are not scoped per author:
// AuthorID records who wrote it for display, nothing more.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	AuthorID  uint      `gorm:"index" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
