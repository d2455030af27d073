package models

import "time"

// Profile is a site owner profile. Public pages treat the first row as "the"
// profile; multiple admin profiles may still exist by id.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	AvatarURL *string   `json:"avatar_url"`
	Username  string    `gorm:"not null" json:"username"`
	Bio       *string   `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
