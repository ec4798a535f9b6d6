package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func (f reportFixture) enrollmentService(now func() time.Time) EnrollmentService {
	periods := NewPeriodResolver(f.schools, testLogger())
	svc := NewEnrollmentService(f.courses, f.enrollments, periods, testLogger()).(*enrollmentService)
	if now != nil {
		svc.now = now
	}
	return svc
}

func TestEnrollThenDuplicateRejected(t *testing.T) {
	fixture := newReportFixture(0)
	svc := fixture.enrollmentService(nil)

	// Student 3 is new to the course.
	enrollment, err := svc.Enroll(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Equal(t, "active", enrollment.Status)

	_, err = svc.Enroll(context.Background(), 10, 3)
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestReenrollmentKeepsOriginalTimestamp(t *testing.T) {
	fixture := newReportFixture(0)
	enrolledAt := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	svc := fixture.enrollmentService(func() time.Time { return enrolledAt })

	first, err := svc.Enroll(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Equal(t, enrolledAt, first.EnrolledAt)

	require.NoError(t, svc.Drop(context.Background(), 10, 3))

	// Re-enroll much later; the applicability timestamp must not move.
	later := fixture.enrollmentService(func() time.Time { return enrolledAt.Add(30 * 24 * time.Hour) })
	second, err := later.Enroll(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "re-enrollment reactivates the original row")
	require.Equal(t, enrolledAt, second.EnrolledAt)
	require.Equal(t, "active", second.Status)
}

func TestDropRequiresActiveEnrollment(t *testing.T) {
	fixture := newReportFixture(0)
	svc := fixture.enrollmentService(nil)

	require.ErrorIs(t, svc.Drop(context.Background(), 10, 3), ErrNotEnrolled)

	_, err := svc.Enroll(context.Background(), 10, 3)
	require.NoError(t, err)
	require.NoError(t, svc.Drop(context.Background(), 10, 3))
	require.ErrorIs(t, svc.Drop(context.Background(), 10, 3), ErrNotEnrolled)
}

func TestEnrollUnknownCourse(t *testing.T) {
	fixture := newReportFixture(0)
	_, err := fixture.enrollmentService(nil).Enroll(context.Background(), 999, 3)
	require.ErrorIs(t, err, ErrCourseNotFound)
}
