package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/models"
)

func (f reportFixture) attendanceService(live LiveFeedService) AttendanceService {
	return NewAttendanceService(f.sessions, f.enrollments, f.attendance, f.users, live, testLogger())
}

func activeSessionFixture() reportFixture {
	fixture := newReportFixture(0)
	fixture.sessions.sessions[70] = &models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionActive, CreatedAt: fixture.base.Add(48 * time.Hour),
	}
	return fixture
}

func TestMarkPresentStoresRecordAndFeedsLiveSubscribers(t *testing.T) {
	fixture := activeSessionFixture()
	live := NewLiveFeedService(nil, testLogger())
	events, cancel := live.Subscribe(70)
	defer cancel()

	response, err := fixture.attendanceService(live).MarkPresent(context.Background(), 70, 1)
	require.NoError(t, err)
	require.Equal(t, string(models.AttendancePresent), response.Status)
	require.Equal(t, uint(70), response.SessionID)

	select {
	case event := <-events:
		require.Equal(t, dto.LiveEventMarked, event.Type)
		require.Equal(t, uint(1), event.StudentID)
		require.Equal(t, "CSC/21/001", event.RollNumber)
		require.NotEmpty(t, event.EventID)
	default:
		t.Fatal("expected a live event for the mark")
	}
}

func TestMarkPresentRejectsDuplicate(t *testing.T) {
	fixture := activeSessionFixture()
	svc := fixture.attendanceService(nil)

	_, err := svc.MarkPresent(context.Background(), 70, 1)
	require.NoError(t, err)

	_, err = svc.MarkPresent(context.Background(), 70, 1)
	require.ErrorIs(t, err, ErrAttendanceAlreadyMarked)
}

func TestMarkPresentRejectsEndedSession(t *testing.T) {
	fixture := activeSessionFixture()
	fixture.sessions.sessions[70].Status = models.SessionEnded

	_, err := fixture.attendanceService(nil).MarkPresent(context.Background(), 70, 1)
	require.ErrorIs(t, err, ErrSessionNotActive)
}

func TestMarkPresentRejectsPreEnrollmentSession(t *testing.T) {
	fixture := newReportFixture(0)
	// Session began before Bisi enrolled.
	fixture.sessions.sessions[70] = &models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionActive, CreatedAt: fixture.base,
	}

	_, err := fixture.attendanceService(nil).MarkPresent(context.Background(), 70, 2)
	require.ErrorIs(t, err, ErrSessionNotApplicable)
}

func TestMarkPresentRequiresEnrollment(t *testing.T) {
	fixture := activeSessionFixture()

	_, err := fixture.attendanceService(nil).MarkPresent(context.Background(), 70, 404)
	require.ErrorIs(t, err, ErrNotEnrolled)
}
