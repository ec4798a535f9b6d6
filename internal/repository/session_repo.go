package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/models"
)

// SessionRepository reads and writes class sessions. Ended-session reads are
// always ordered ascending by creation time; the applicability calculation
// depends on that ordering.
type SessionRepository interface {
	Get(ctx context.Context, id uint) (models.Session, error)
	ListEnded(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Session, error)
	ListActive(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	// End flips the session to Ended and inserts the given absence records in
	// one transaction. It reports whether the update actually transitioned
	// the row, so a second end attempt can be rejected.
	End(ctx context.Context, sessionID uint, endedAt time.Time, absences []models.AttendanceRecord) (bool, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs the session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, id uint) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).First(&session, id).Error
	return session, err
}

func (r *sessionRepository) ListEnded(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND academic_year_id = ? AND semester = ?", courseID, period.AcademicYearID, period.Semester).
		Where("status = ?", models.SessionEnded).
		Order("created_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) ListActive(ctx context.Context, courseID uint, period models.AcademicPeriod) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND academic_year_id = ? AND semester = ?", courseID, period.AcademicYearID, period.Semester).
		Where("status = ?", models.SessionActive).
		Order("created_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) End(ctx context.Context, sessionID uint, endedAt time.Time, absences []models.AttendanceRecord) (bool, error) {
	ended := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&models.Session{}).
			Where("id = ? AND status = ?", sessionID, models.SessionActive).
			Updates(map[string]interface{}{
				"status":   models.SessionEnded,
				"ended_at": endedAt,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return nil
		}
		ended = true

		if len(absences) > 0 {
			if err := tx.Create(&absences).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return ended, err
}
