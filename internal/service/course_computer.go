package service

import (
	"context"
	"fmt"

	"github.com/campusroll/campusroll-api/internal/eligibility"
	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// courseComputer runs the eligibility pipeline for one course in one period:
// three flat reads, threshold resolution, then the pure engine. Every
// consumer surface that needs course-level numbers goes through this type,
// so the same (course, student) pair can never disagree between views.
type courseComputer struct {
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	thresholds  ThresholdResolver
}

type courseComputation struct {
	threshold int
	results   []eligibility.Result
	students  map[uint]models.User
	summary   eligibility.Summary
}

func (c courseComputer) compute(ctx context.Context, course models.Course, period models.AcademicPeriod) (courseComputation, error) {
	threshold, err := c.thresholds.Resolve(ctx, course)
	if err != nil {
		return courseComputation{}, fmt.Errorf("resolve threshold: %w", err)
	}

	ended, err := c.sessions.ListEnded(ctx, course.ID, period)
	if err != nil {
		return courseComputation{}, fmt.Errorf("list ended sessions: %w", err)
	}

	enrollments, err := c.enrollments.ListActiveByCourse(ctx, course.ID, period)
	if err != nil {
		return courseComputation{}, fmt.Errorf("list enrollments: %w", err)
	}

	present, err := c.attendance.PresentByStudent(ctx, course.ID, period)
	if err != nil {
		return courseComputation{}, fmt.Errorf("load present records: %w", err)
	}

	computation := courseComputation{
		threshold: threshold,
		results:   make([]eligibility.Result, 0, len(enrollments)),
		students:  make(map[uint]models.User, len(enrollments)),
	}
	for _, enrollment := range enrollments {
		result := eligibility.EvaluateStudent(
			enrollment.StudentID,
			ended,
			enrollment.CreatedAt,
			present[enrollment.StudentID],
			threshold,
		)
		computation.results = append(computation.results, result)
		if enrollment.Student != nil {
			computation.students[enrollment.StudentID] = *enrollment.Student
		}
	}
	computation.summary = eligibility.Summarize(computation.results)
	return computation, nil
}
