package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/models"
)

func (f reportFixture) sessionService() SessionService {
	periods := NewPeriodResolver(f.schools, testLogger())
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewSessionService(f.sessions, f.enrollments, f.attendance, f.courses, periods, nil, nil, validate, testLogger())
}

func TestSessionStartStampsPeriodAndSanitizesTopic(t *testing.T) {
	fixture := newReportFixture(0)
	svc := fixture.sessionService()

	response, err := svc.Start(context.Background(), 10, dto.StartSessionRequest{Topic: "<script>alert(1)</script>Binary Search"})
	require.NoError(t, err)
	require.Equal(t, string(models.SessionActive), response.Status)
	require.Equal(t, "Binary Search", response.Topic)

	stored := fixture.sessions.sessions[response.ID]
	require.Equal(t, uint(1), stored.AcademicYearID)
	require.Equal(t, models.SemesterFirst, stored.Semester)
}

func TestSessionStartRequiresActivePeriod(t *testing.T) {
	fixture := newReportFixture(0)
	fixture.schools.schools[1].CurrentAcademicYearID = nil
	fixture.schools.schools[1].CurrentSemester = nil

	_, err := fixture.sessionService().Start(context.Background(), 10, dto.StartSessionRequest{})
	require.ErrorIs(t, err, ErrNoActivePeriod)
}

func TestSessionEndBackfillsAbsencesForApplicableStudentsOnly(t *testing.T) {
	fixture := newReportFixture(0)
	base := fixture.base

	session := models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionActive, CreatedAt: base,
	}
	fixture.sessions.sessions[70] = &session

	// Ada (enrolled before the session) marked present; Bisi enrolled 36h
	// after the session began, so the session is not applicable to her.
	fixture.markPresent(1, 70)

	response, err := fixture.sessionService().End(context.Background(), 70)
	require.NoError(t, err)
	require.Equal(t, string(models.SessionEnded), response.Status)
	require.NotNil(t, response.EndedAt)

	require.Empty(t, fixture.sessions.inserted, "present and not-yet-enrolled students must not be back-filled")
}

func TestSessionEndBackfillsUnmarkedStudents(t *testing.T) {
	fixture := newReportFixture(0)

	session := models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionActive, CreatedAt: fixture.base.Add(48 * time.Hour),
	}
	fixture.sessions.sessions[70] = &session

	// Both students are enrolled by now and neither marked.
	_, err := fixture.sessionService().End(context.Background(), 70)
	require.NoError(t, err)

	require.Len(t, fixture.sessions.inserted, 2)
	for _, record := range fixture.sessions.inserted {
		require.Equal(t, models.AttendanceAbsent, record.Status)
		require.Equal(t, uint(70), record.SessionID)
	}
}

func TestSessionEndHappensExactlyOnce(t *testing.T) {
	fixture := newReportFixture(0)
	fixture.sessions.sessions[70] = &models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionActive, CreatedAt: fixture.base,
	}
	svc := fixture.sessionService()

	_, err := svc.End(context.Background(), 70)
	require.NoError(t, err)

	_, err = svc.End(context.Background(), 70)
	require.ErrorIs(t, err, ErrSessionAlreadyEnded)
}

func TestSessionDetailDerivesTriState(t *testing.T) {
	fixture := newReportFixture(0)
	fixture.sessions.sessions[70] = &models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionActive, CreatedAt: fixture.base.Add(48 * time.Hour),
	}
	fixture.markPresent(1, 70)

	detail, err := fixture.sessionService().Detail(context.Background(), 70)
	require.NoError(t, err)
	require.Len(t, detail.Standings, 2)

	require.Equal(t, "present", detail.Standings[0].Standing)
	require.Equal(t, "pending", detail.Standings[1].Standing, "no record on an active session is pending, not absent")
}

func TestSessionDetailAbsentAfterEnd(t *testing.T) {
	fixture := newReportFixture(0)
	fixture.sessions.sessions[70] = &models.Session{
		ID: 70, CourseID: 10, AcademicYearID: 1, Semester: models.SemesterFirst,
		Status: models.SessionEnded, CreatedAt: fixture.base.Add(48 * time.Hour),
	}

	detail, err := fixture.sessionService().Detail(context.Background(), 70)
	require.NoError(t, err)
	for _, standing := range detail.Standings {
		require.Equal(t, "absent", standing.Standing)
	}
}

func TestSessionEndUnknownSession(t *testing.T) {
	fixture := newReportFixture(0)
	_, err := fixture.sessionService().End(context.Background(), 999)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
