package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/models"
)

func (f reportFixture) studentReportService() StudentReportService {
	periods := NewPeriodResolver(f.schools, testLogger())
	thresholds := NewThresholdResolver(f.schools, f.users, 0, testLogger())
	return NewStudentReportService(f.users, f.courses, f.sessions, f.enrollments, f.attendance, periods, thresholds, testLogger())
}

func TestStudentOwnReportAgreesWithCourseReport(t *testing.T) {
	fixture := newReportFixture(4)
	fixture.markPresent(1, 1, 3)
	fixture.markPresent(2, 3, 4)

	courseReport, err := fixture.reportService().ComputeCourseReport(context.Background(), 10)
	require.NoError(t, err)

	for _, studentID := range []uint{1, 2} {
		ownReport, err := fixture.studentReportService().ComputeOwnReport(context.Background(), studentID)
		require.NoError(t, err)
		require.Len(t, ownReport, 1)

		var expected dto.StudentResultResponse
		found := false
		for _, row := range courseReport.Students {
			if row.StudentID == studentID {
				expected = row
				found = true
				break
			}
		}
		require.True(t, found)

		actual := ownReport[0].Result
		require.Equal(t, expected.ApplicableSessions, actual.ApplicableSessions)
		require.Equal(t, expected.Attended, actual.Attended)
		require.Equal(t, expected.Absent, actual.Absent)
		require.Equal(t, expected.Percentage, actual.Percentage)
		require.Equal(t, expected.Eligible, actual.Eligible)
		require.Equal(t, expected.EnrolledAtSession, actual.EnrolledAtSession)
	}
}

func TestStudentOwnReportNoActivePeriod(t *testing.T) {
	fixture := newReportFixture(2)
	fixture.schools.schools[1].CurrentAcademicYearID = nil
	fixture.schools.schools[1].CurrentSemester = nil

	_, err := fixture.studentReportService().ComputeOwnReport(context.Background(), 1)
	require.ErrorIs(t, err, ErrNoActivePeriod)
}

func TestStudentOwnReportUnknownStudent(t *testing.T) {
	fixture := newReportFixture(2)

	_, err := fixture.studentReportService().ComputeOwnReport(context.Background(), 404)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestStudentOwnReportSkipsDroppedEnrollments(t *testing.T) {
	fixture := newReportFixture(2)
	for _, row := range fixture.enrollments.rows {
		if row.StudentID == 2 {
			row.Status = models.EnrollmentDropped
		}
	}

	report, err := fixture.studentReportService().ComputeOwnReport(context.Background(), 2)
	require.NoError(t, err)
	require.Empty(t, report)
}
