package models

import "time"

// Semester identifies one half of an academic year.
type Semester string

const (
	SemesterFirst  Semester = "first"
	SemesterSecond Semester = "second"
)

// School is the tenant boundary. Its current-year and current-semester
// pointers define the single active academic period; both nil means no
// period is open and attendance computation must refuse to run.
type School struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	Name                  string    `gorm:"size:255;not null" json:"name"`
	DefaultThreshold      *int      `json:"default_threshold,omitempty"`
	CurrentAcademicYearID *uint     `json:"current_academic_year_id,omitempty"`
	CurrentSemester       *Semester `gorm:"size:16" json:"current_semester,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// AcademicYear is one teaching year of a school, e.g. "2025/2026".
type AcademicYear struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SchoolID  uint      `gorm:"not null;index" json:"school_id"`
	Label     string    `gorm:"size:32;not null" json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// AcademicPeriod is the (academic year, semester) pair that scopes every
// session, enrollment and attendance read. It is resolved once per request
// and passed down explicitly; nothing below the resolver consults the school
// row again.
type AcademicPeriod struct {
	AcademicYearID uint     `json:"academic_year_id"`
	Semester       Semester `json:"semester"`
}
