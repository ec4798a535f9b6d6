package models

import "time"

// AttendanceStatus is the stored state of an attendance record. Pending is
// never stored; it is derived at read time for active sessions.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// AttendanceRecord marks one student's attendance at one session. The unique
// index on (student, session) is the write-time guard the tally relies on;
// the aggregation layer assumes it and never deduplicates.
type AttendanceRecord struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	StudentID      uint             `gorm:"not null;uniqueIndex:idx_attendance_mark" json:"student_id"`
	SessionID      uint             `gorm:"not null;uniqueIndex:idx_attendance_mark" json:"session_id"`
	CourseID       uint             `gorm:"not null;index" json:"course_id"`
	AcademicYearID uint             `gorm:"not null;index" json:"academic_year_id"`
	Semester       Semester         `gorm:"size:16;not null" json:"semester"`
	Status         AttendanceStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}
