package models

import "time"

// EnrollmentStatus marks whether a student currently sits a course.
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

// Enrollment registers a student in a course for one academic period.
// CreatedAt is the enrollment timestamp that gates session applicability;
// dropping and re-enrolling reactivates the same row and keeps it.
type Enrollment struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	StudentID      uint             `gorm:"not null;uniqueIndex:idx_enrollment_scope" json:"student_id"`
	CourseID       uint             `gorm:"not null;uniqueIndex:idx_enrollment_scope" json:"course_id"`
	AcademicYearID uint             `gorm:"not null;uniqueIndex:idx_enrollment_scope" json:"academic_year_id"`
	Semester       Semester         `gorm:"size:16;not null;uniqueIndex:idx_enrollment_scope" json:"semester"`
	Status         EnrollmentStatus `gorm:"size:16;not null;default:active" json:"status"`
	Student        *User            `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
