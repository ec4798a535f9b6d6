package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// ErrAlreadyEnrolled rejects a second active enrollment for the same
// student, course and period.
var ErrAlreadyEnrolled = errors.New("student already enrolled")

// EnrollmentService manages course enrollment for the active period.
// Re-enrolling after a drop reactivates the original row, so the enrollment
// timestamp that gates session applicability is preserved.
type EnrollmentService interface {
	Enroll(ctx context.Context, courseID, studentID uint) (dto.EnrollmentResponse, error)
	Drop(ctx context.Context, courseID, studentID uint) error
}

type enrollmentService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	periods     PeriodResolver
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	periods PeriodResolver,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		courses:     courses,
		enrollments: enrollments,
		periods:     periods,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID, studentID uint) (dto.EnrollmentResponse, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, fmt.Errorf("load course %d: %w", courseID, err)
	}

	period, err := s.periods.Resolve(ctx, course.SchoolID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}

	existing, err := s.enrollments.Find(ctx, studentID, courseID, period)
	switch {
	case err == nil:
		if existing.Status == models.EnrollmentActive {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		if err := s.enrollments.SetStatus(ctx, existing.ID, models.EnrollmentActive); err != nil {
			return dto.EnrollmentResponse{}, fmt.Errorf("reactivate enrollment: %w", err)
		}
		existing.Status = models.EnrollmentActive
		s.logger.Info().Uint("student_id", studentID).Uint("course_id", courseID).Msg("enrollment reactivated")
		return dto.NewEnrollmentResponse(existing), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First enrollment for this course and period.
	default:
		return dto.EnrollmentResponse{}, fmt.Errorf("load enrollment: %w", err)
	}

	enrollment := models.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		AcademicYearID: period.AcademicYearID,
		Semester:       period.Semester,
		Status:         models.EnrollmentActive,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, fmt.Errorf("create enrollment: %w", err)
	}

	s.logger.Info().Uint("student_id", studentID).Uint("course_id", courseID).Msg("student enrolled")
	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Drop(ctx context.Context, courseID, studentID uint) error {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("load course %d: %w", courseID, err)
	}

	period, err := s.periods.Resolve(ctx, course.SchoolID)
	if err != nil {
		return err
	}

	enrollment, err := s.enrollments.Find(ctx, studentID, courseID, period)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		return ErrNotEnrolled
	}

	if err := s.enrollments.SetStatus(ctx, enrollment.ID, models.EnrollmentDropped); err != nil {
		return fmt.Errorf("drop enrollment: %w", err)
	}

	s.logger.Info().Uint("student_id", studentID).Uint("course_id", courseID).Msg("enrollment dropped")
	return nil
}
