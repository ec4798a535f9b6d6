package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

// SchoolRepository reads and mutates the school row that anchors the active
// academic period and the school-wide threshold default.
type SchoolRepository interface {
	Get(ctx context.Context, id uint) (models.School, error)
	CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error
	SetCurrentPeriod(ctx context.Context, schoolID uint, yearID *uint, semester *models.Semester) error
	SetDefaultThreshold(ctx context.Context, schoolID uint, threshold *int) error
}

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository constructs the school repository.
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Get(ctx context.Context, id uint) (models.School, error) {
	var school models.School
	err := r.db.WithContext(ctx).First(&school, id).Error
	return school, err
}

func (r *schoolRepository) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	return r.db.WithContext(ctx).Create(year).Error
}

func (r *schoolRepository) SetCurrentPeriod(ctx context.Context, schoolID uint, yearID *uint, semester *models.Semester) error {
	return r.db.WithContext(ctx).
		Model(&models.School{}).
		Where("id = ?", schoolID).
		Updates(map[string]interface{}{
			"current_academic_year_id": yearID,
			"current_semester":         semester,
		}).Error
}

func (r *schoolRepository) SetDefaultThreshold(ctx context.Context, schoolID uint, threshold *int) error {
	return r.db.WithContext(ctx).
		Model(&models.School{}).
		Where("id = ?", schoolID).
		Update("default_threshold", threshold).Error
}
