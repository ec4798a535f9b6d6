package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

// AttendanceRepository reads and writes attendance marks. The unique index
// on (student, session) makes Create the single point where duplicates are
// rejected; readers assume uniqueness.
type AttendanceRepository interface {
	Create(ctx context.Context, record *models.AttendanceRecord) error
	// PresentByStudent returns, per student, the session ids with a Present
	// record for the course in the period. One flat query per report.
	PresentByStudent(ctx context.Context, courseID uint, period models.AcademicPeriod) (map[uint][]uint, error)
	PresentSessionIDs(ctx context.Context, studentID, courseID uint, period models.AcademicPeriod) ([]uint, error)
	ListBySession(ctx context.Context, sessionID uint) ([]models.AttendanceRecord, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository constructs the attendance repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) PresentByStudent(ctx context.Context, courseID uint, period models.AcademicPeriod) (map[uint][]uint, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Select("student_id", "session_id").
		Where("course_id = ? AND academic_year_id = ? AND semester = ?", courseID, period.AcademicYearID, period.Semester).
		Where("status = ?", models.AttendancePresent).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	present := make(map[uint][]uint, len(records))
	for _, record := range records {
		present[record.StudentID] = append(present[record.StudentID], record.SessionID)
	}
	return present, nil
}

func (r *attendanceRepository) PresentSessionIDs(ctx context.Context, studentID, courseID uint, period models.AcademicPeriod) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("student_id = ? AND course_id = ? AND academic_year_id = ? AND semester = ?",
			studentID, courseID, period.AcademicYearID, period.Semester).
		Where("status = ?", models.AttendancePresent).
		Pluck("session_id", &ids).Error
	return ids, err
}

func (r *attendanceRepository) ListBySession(ctx context.Context, sessionID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error
	return records, err
}
