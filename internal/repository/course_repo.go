package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

// CourseRepository reads course rows together with the lecturer association
// the threshold resolver consults.
type CourseRepository interface {
	Get(ctx context.Context, id uint) (models.Course, error)
	ListBySchool(ctx context.Context, schoolID uint) ([]models.Course, error)
	ListByLecturer(ctx context.Context, lecturerID uint) ([]models.Course, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Get(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Lecturers", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Preload("Faculty").
		Preload("Department").
		First(&course, id).Error
	return course, err
}

func (r *courseRepository) ListBySchool(ctx context.Context, schoolID uint) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Lecturers", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Where("school_id = ?", schoolID).
		Order("code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) ListByLecturer(ctx context.Context, lecturerID uint) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Lecturers", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Joins("JOIN course_lecturers cl ON cl.course_id = courses.id").
		Where("cl.user_id = ?", lecturerID).
		Order("courses.code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Preload("Lecturers", func(db *gorm.DB) *gorm.DB { return db.Order("users.id ASC") }).
		Where("id IN ?", ids).
		Order("code ASC").
		Find(&courses).Error
	return courses, err
}
