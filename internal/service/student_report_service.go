package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/eligibility"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// ErrStudentNotFound indicates the requested student account does not exist.
var ErrStudentNotFound = errors.New("student not found")

// StudentReportService computes a student's own standing across every course
// they are enrolled in. It runs the same engine over the same inputs as the
// course report, so the two views agree number for number.
type StudentReportService interface {
	ComputeOwnReport(ctx context.Context, studentID uint) ([]dto.StudentCourseStandingResponse, error)
}

type studentReportService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	periods     PeriodResolver
	thresholds  ThresholdResolver
	logger      zerolog.Logger
}

// NewStudentReportService constructs the student self-report service.
func NewStudentReportService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	sessions repository.SessionRepository,
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	periods PeriodResolver,
	thresholds ThresholdResolver,
	logger zerolog.Logger,
) StudentReportService {
	return &studentReportService{
		users:       users,
		courses:     courses,
		sessions:    sessions,
		enrollments: enrollments,
		attendance:  attendance,
		periods:     periods,
		thresholds:  thresholds,
		logger:      logger.With().Str("component", "student_report_service").Logger(),
	}
}

func (s *studentReportService) ComputeOwnReport(ctx context.Context, studentID uint) ([]dto.StudentCourseStandingResponse, error) {
	tracer := otel.Tracer("github.com/campusroll/campusroll-api/internal/service/student_report")
	ctx, span := tracer.Start(ctx, "report.student")
	span.SetAttributes(attribute.Int64("report.student_id", int64(studentID)))
	defer span.End()

	student, err := s.users.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("load student %d: %w", studentID, err)
	}

	period, err := s.periods.Resolve(ctx, student.SchoolID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	enrollments, err := s.enrollments.ListActiveByStudent(ctx, studentID, period)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		courseIDs = append(courseIDs, enrollment.CourseID)
	}
	courses, err := s.courses.ListByIDs(ctx, courseIDs)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list courses: %w", err)
	}
	coursesByID := make(map[uint]int, len(courses))
	for i, course := range courses {
		coursesByID[course.ID] = i
	}

	report := make([]dto.StudentCourseStandingResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		index, ok := coursesByID[enrollment.CourseID]
		if !ok {
			continue
		}
		course := courses[index]

		threshold, err := s.thresholds.Resolve(ctx, course)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("resolve threshold: %w", err)
		}

		ended, err := s.sessions.ListEnded(ctx, course.ID, period)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("list ended sessions: %w", err)
		}

		presentIDs, err := s.attendance.PresentSessionIDs(ctx, studentID, course.ID, period)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("load present records: %w", err)
		}

		result := eligibility.EvaluateStudent(studentID, ended, enrollment.CreatedAt, presentIDs, threshold)
		report = append(report, dto.StudentCourseStandingResponse{
			Course: dto.NewCourseInfoResponse(course),
			Result: dto.NewStudentResultResponse(student, result),
		})
	}

	sort.Slice(report, func(i, j int) bool { return report[i].Course.Code < report[j].Course.Code })
	span.SetAttributes(attribute.Int("report.courses", len(report)))
	return report, nil
}
