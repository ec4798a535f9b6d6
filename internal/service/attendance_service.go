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

// ErrSessionNotActive rejects marks against a session that has ended;
// absence is recorded by the session-end back-fill, never by students.
var ErrSessionNotActive = errors.New("session is not active")

// ErrNotEnrolled indicates the student holds no active enrollment for the
// session's course and period.
var ErrNotEnrolled = errors.New("student not enrolled in course")

// ErrSessionNotApplicable rejects marks for sessions that began before the
// student enrolled; those sessions never count toward them.
var ErrSessionNotApplicable = errors.New("session predates enrollment")

// ErrAttendanceAlreadyMarked rejects a duplicate (student, session) mark at
// write time, which is what lets the aggregation assume uniqueness.
var ErrAttendanceAlreadyMarked = errors.New("attendance already marked")

// AttendanceService accepts Present marks on active sessions.
type AttendanceService interface {
	MarkPresent(ctx context.Context, sessionID, studentID uint) (dto.AttendanceResponse, error)
}

type attendanceService struct {
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	users       repository.UserRepository
	live        LiveFeedService
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(
	sessions repository.SessionRepository,
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	users repository.UserRepository,
	live LiveFeedService,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceService{
		sessions:    sessions,
		enrollments: enrollments,
		attendance:  attendance,
		users:       users,
		live:        live,
		logger:      logger.With().Str("component", "attendance_service").Logger(),
		now:         time.Now,
	}
}

func (s *attendanceService) MarkPresent(ctx context.Context, sessionID, studentID uint) (dto.AttendanceResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrSessionNotFound
		}
		return dto.AttendanceResponse{}, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if session.Status != models.SessionActive {
		return dto.AttendanceResponse{}, ErrSessionNotActive
	}

	period := models.AcademicPeriod{AcademicYearID: session.AcademicYearID, Semester: session.Semester}
	enrollment, err := s.enrollments.Find(ctx, studentID, session.CourseID, period)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrNotEnrolled
		}
		return dto.AttendanceResponse{}, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment.Status != models.EnrollmentActive {
		return dto.AttendanceResponse{}, ErrNotEnrolled
	}
	if session.CreatedAt.Before(enrollment.CreatedAt) {
		return dto.AttendanceResponse{}, ErrSessionNotApplicable
	}

	record := models.AttendanceRecord{
		StudentID:      studentID,
		SessionID:      session.ID,
		CourseID:       session.CourseID,
		AcademicYearID: session.AcademicYearID,
		Semester:       session.Semester,
		Status:         models.AttendancePresent,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.attendance.Create(ctx, &record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AttendanceResponse{}, ErrAttendanceAlreadyMarked
		}
		return dto.AttendanceResponse{}, fmt.Errorf("store attendance: %w", err)
	}

	if s.live != nil {
		event := dto.LiveAttendanceEvent{
			Type:      dto.LiveEventMarked,
			SessionID: session.ID,
			StudentID: studentID,
			MarkedAt:  record.CreatedAt,
		}
		if student, err := s.users.Get(ctx, studentID); err == nil {
			event.Name = student.Name
			event.RollNumber = student.RollNumber
		}
		s.live.Publish(ctx, event)
	}

	s.logger.Info().Uint("session_id", session.ID).Uint("student_id", studentID).Msg("attendance marked")
	return dto.NewAttendanceResponse(record), nil
}
