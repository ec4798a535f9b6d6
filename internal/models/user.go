package models

import "time"

// Role distinguishes the three account types the API serves.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// User represents an account: admin, lecturer or student.
// EligibilityThreshold is a lecturer-only override; nil means the school
// default applies.
type User struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"size:255;not null" json:"name"`
	Email                string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role                 Role      `gorm:"size:16;not null" json:"role"`
	SchoolID             uint      `gorm:"not null;index" json:"school_id"`
	RollNumber           string    `gorm:"size:64;index" json:"roll_number,omitempty"`
	EligibilityThreshold *int      `json:"eligibility_threshold,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
