package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// ErrLecturerNotFound indicates the requested lecturer account does not exist.
var ErrLecturerNotFound = errors.New("lecturer not found")

// OverviewScope selects which course set an overview covers: every course of
// a school (admin view) or the courses a lecturer teaches.
type OverviewScope struct {
	SchoolID   uint
	LecturerID uint
}

// OverviewService computes cross-course roll-ups. Each course row carries
// its own summary; course figures are never averaged together, so large and
// small courses stay comparable.
type OverviewService interface {
	ComputeOverview(ctx context.Context, scope OverviewScope) ([]dto.OverviewEntryResponse, error)
}

type overviewService struct {
	users    repository.UserRepository
	courses  repository.CourseRepository
	periods  PeriodResolver
	computer courseComputer
	logger   zerolog.Logger
}

// NewOverviewService constructs the overview service.
func NewOverviewService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	sessions repository.SessionRepository,
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	periods PeriodResolver,
	thresholds ThresholdResolver,
	logger zerolog.Logger,
) OverviewService {
	return &overviewService{
		users:   users,
		courses: courses,
		periods: periods,
		computer: courseComputer{
			sessions:    sessions,
			enrollments: enrollments,
			attendance:  attendance,
			thresholds:  thresholds,
		},
		logger: logger.With().Str("component", "overview_service").Logger(),
	}
}

func (s *overviewService) ComputeOverview(ctx context.Context, scope OverviewScope) ([]dto.OverviewEntryResponse, error) {
	tracer := otel.Tracer("github.com/campusroll/campusroll-api/internal/service/overview")
	ctx, span := tracer.Start(ctx, "report.overview")
	defer span.End()

	schoolID := scope.SchoolID
	var courses []models.Course
	var err error

	if scope.LecturerID != 0 {
		lecturer, lookupErr := s.users.Get(ctx, scope.LecturerID)
		if lookupErr != nil {
			if errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				return nil, ErrLecturerNotFound
			}
			span.RecordError(lookupErr)
			return nil, fmt.Errorf("load lecturer %d: %w", scope.LecturerID, lookupErr)
		}
		schoolID = lecturer.SchoolID
		courses, err = s.courses.ListByLecturer(ctx, scope.LecturerID)
	} else {
		courses, err = s.courses.ListBySchool(ctx, schoolID)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list courses: %w", err)
	}

	period, err := s.periods.Resolve(ctx, schoolID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	overview := make([]dto.OverviewEntryResponse, 0, len(courses))
	for _, course := range courses {
		computation, err := s.computer.compute(ctx, course, period)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		overview = append(overview, dto.OverviewEntryResponse{
			Course:  dto.NewCourseInfoResponse(course),
			Summary: dto.NewSummaryResponse(computation.summary, computation.threshold),
		})
	}

	span.SetAttributes(attribute.Int("report.courses", len(overview)))
	return overview, nil
}
