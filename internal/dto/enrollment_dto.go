package dto

import (
	"time"

	"github.com/campusroll/campusroll-api/internal/models"
)

// EnrollmentResponse serializes a student's course enrollment.
type EnrollmentResponse struct {
	ID         uint      `json:"id"`
	StudentID  uint      `json:"student_id"`
	CourseID   uint      `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// NewEnrollmentResponse maps an enrollment row. EnrolledAt is the original
// enrollment timestamp, which survives drop/re-enroll cycles.
func NewEnrollmentResponse(enrollment models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         enrollment.ID,
		StudentID:  enrollment.StudentID,
		CourseID:   enrollment.CourseID,
		Status:     string(enrollment.Status),
		EnrolledAt: enrollment.CreatedAt,
	}
}
