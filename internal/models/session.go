package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionStatus is the lifecycle state of a class session.
type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// Session is one class meeting of a course. CreatedAt is the ordering key
// for enrollment applicability; the transition Active to Ended happens
// exactly once and is never reversed.
type Session struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CourseID       uint           `gorm:"not null;index" json:"course_id"`
	AcademicYearID uint           `gorm:"not null;index" json:"academic_year_id"`
	Semester       Semester       `gorm:"size:16;not null" json:"semester"`
	Topic          string         `gorm:"size:255" json:"topic,omitempty"`
	ClassDate      datatypes.Date `json:"class_date"`
	Status         SessionStatus  `gorm:"size:16;not null;default:active" json:"status"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
