package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ReportService computes the course eligibility report consumed by the
// on-screen view and the export pipeline. The report is recomputed on every
// call; enrollment and attendance can change between reads, so nothing here
// is cached.
type ReportService interface {
	ComputeCourseReport(ctx context.Context, courseID uint) (dto.CourseReportResponse, error)
}

type reportService struct {
	courses  repository.CourseRepository
	periods  PeriodResolver
	computer courseComputer
	logger   zerolog.Logger
}

// NewReportService constructs the course report service.
func NewReportService(
	courses repository.CourseRepository,
	sessions repository.SessionRepository,
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	periods PeriodResolver,
	thresholds ThresholdResolver,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		courses: courses,
		periods: periods,
		computer: courseComputer{
			sessions:    sessions,
			enrollments: enrollments,
			attendance:  attendance,
			thresholds:  thresholds,
		},
		logger: logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) ComputeCourseReport(ctx context.Context, courseID uint) (dto.CourseReportResponse, error) {
	tracer := otel.Tracer("github.com/campusroll/campusroll-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.course")
	span.SetAttributes(attribute.Int64("report.course_id", int64(courseID)))
	defer span.End()

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseReportResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_course_failed")
		return dto.CourseReportResponse{}, fmt.Errorf("load course %d: %w", courseID, err)
	}

	period, err := s.periods.Resolve(ctx, course.SchoolID)
	if err != nil {
		span.RecordError(err)
		return dto.CourseReportResponse{}, err
	}

	computation, err := s.computer.compute(ctx, course, period)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute_failed")
		return dto.CourseReportResponse{}, err
	}

	rows := make([]dto.StudentResultResponse, 0, len(computation.results))
	for _, result := range computation.results {
		rows = append(rows, dto.NewStudentResultResponse(computation.students[result.StudentID], result))
	}
	// Ordering is presentation only; the computation is order-independent.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RollNumber != rows[j].RollNumber {
			return rows[i].RollNumber < rows[j].RollNumber
		}
		return rows[i].StudentID < rows[j].StudentID
	})

	span.SetAttributes(
		attribute.Int("report.students", computation.summary.TotalStudents),
		attribute.Int("report.threshold", computation.threshold),
	)

	return dto.CourseReportResponse{
		Course:   dto.NewCourseInfoResponse(course),
		Period:   dto.NewPeriodResponse(period),
		Summary:  dto.NewSummaryResponse(computation.summary, computation.threshold),
		Students: rows,
	}, nil
}
