package models

import "time"

// Faculty groups departments within a school.
type Faculty struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SchoolID uint   `gorm:"not null;index" json:"school_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
}

// Department groups courses within a faculty.
type Department struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FacultyID uint   `gorm:"not null;index" json:"faculty_id"`
	Name      string `gorm:"size:255;not null" json:"name"`
}

// Course is the unit students enroll in and sessions hang off.
type Course struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	SchoolID     uint        `gorm:"not null;index" json:"school_id"`
	FacultyID    uint        `gorm:"not null;index" json:"faculty_id"`
	DepartmentID uint        `gorm:"not null;index" json:"department_id"`
	Code         string      `gorm:"size:32;not null" json:"code"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Level        int         `json:"level"`
	Lecturers    []User      `gorm:"many2many:course_lecturers" json:"lecturers,omitempty"`
	Faculty      *Faculty    `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
