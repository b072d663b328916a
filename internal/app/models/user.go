package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	Name       string    `json:"name" db:"name" example:"Jane Doe"`
	Email      string    `json:"email" db:"email" example:"jane@coursehub.io"`
	Phone      string    `json:"phone" db:"phone" example:"+905551112233"`
	Password   string    `json:"-" db:"password"` // hashed, excluded from JSON
	Role       RoleType  `json:"role" db:"role" example:"STUDENT"`
	IsActive   bool      `json:"isActive" db:"is_active" example:"true"`
	ProfilePic *string   `json:"profilePic,omitempty" db:"profile_pic" example:"uploads/profiles/ab12.jpg"`
	Resume     *string   `json:"resume,omitempty" db:"resume"` // students only
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
