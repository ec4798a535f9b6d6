package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

// EnrollmentRepository reads and writes course enrollments. A student holds
// at most one row per (course, period); re-enrollment reactivates it.
type EnrollmentRepository interface {
	Find(ctx context.Context, studentID, courseID uint, period models.AcademicPeriod) (models.Enrollment, error)
	ListActiveByCourse(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Enrollment, error)
	ListActiveByStudent(ctx context.Context, studentID uint, period models.AcademicPeriod) ([]models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	SetStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs the enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Find(ctx context.Context, studentID, courseID uint, period models.AcademicPeriod) (models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ? AND academic_year_id = ? AND semester = ?",
			studentID, courseID, period.AcademicYearID, period.Semester).
		First(&enrollment).Error
	return enrollment, err
}

func (r *enrollmentRepository) ListActiveByCourse(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ? AND academic_year_id = ? AND semester = ?", courseID, period.AcademicYearID, period.Semester).
		Where("status = ?", models.EnrollmentActive).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) ListActiveByStudent(ctx context.Context, studentID uint, period models.AcademicPeriod) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND academic_year_id = ? AND semester = ?", studentID, period.AcademicYearID, period.Semester).
		Where("status = ?", models.EnrollmentActive).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) SetStatus(ctx context.Context, id uint, status models.EnrollmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", id).
		Update("status", status).Error
}
