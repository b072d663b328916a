package models

import "time"

// Course defines the course model based on the 'courses' table.
// Soft deletion flips is_active; rows are never removed.
type Course struct {
	ID          int64     `json:"id" db:"id" example:"5"`
	Name        string    `json:"name" db:"name" example:"Go for Backend Engineers"`
	Description string    `json:"description" db:"description"`
	Thumbnail   *string   `json:"thumbnail,omitempty" db:"thumbnail"`
	Level       string    `json:"level" db:"level" example:"BEGINNER"`
	Category    string    `json:"category" db:"category" example:"programming"`
	Price       float64   `json:"price" db:"price" example:"49.99"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	IsApproved  bool      `json:"isApproved" db:"is_approved"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Batches []*Batch `json:"batches,omitempty"` // relation, no db tag
}
