package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/eligibility"
	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/repository"
)

// ErrSessionNotFound indicates the session does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionAlreadyEnded rejects a second end attempt; a session transitions
// Active to Ended exactly once and is never reopened.
var ErrSessionAlreadyEnded = errors.New("session already ended")

const sessionEndedSubject = "campusroll.sessions.ended"

// SessionService manages the class session lifecycle and the session detail
// view with derived per-student standings.
type SessionService interface {
	Start(ctx context.Context, courseID uint, payload dto.StartSessionRequest) (dto.SessionResponse, error)
	End(ctx context.Context, sessionID uint) (dto.SessionResponse, error)
	Detail(ctx context.Context, sessionID uint) (dto.SessionDetailResponse, error)
}

type sessionService struct {
	sessions    repository.SessionRepository
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	courses     repository.CourseRepository
	periods     PeriodResolver
	live        LiveFeedService
	nats        *nats.Conn
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

type sessionEndedEvent struct {
	SessionID uint      `json:"session_id"`
	CourseID  uint      `json:"course_id"`
	EndedAt   time.Time `json:"ended_at"`
}

// NewSessionService constructs the session service. The nats connection may
// be nil; ended events are then skipped.
func NewSessionService(
	sessions repository.SessionRepository,
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	courses repository.CourseRepository,
	periods PeriodResolver,
	live LiveFeedService,
	natsConn *nats.Conn,
	validate *validator.Validate,
	logger zerolog.Logger,
) SessionService {
	return &sessionService{
		sessions:    sessions,
		enrollments: enrollments,
		attendance:  attendance,
		courses:     courses,
		periods:     periods,
		live:        live,
		nats:        natsConn,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "session_service").Logger(),
		now:         time.Now,
	}
}

func (s *sessionService) Start(ctx context.Context, courseID uint, payload dto.StartSessionRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrCourseNotFound
		}
		return dto.SessionResponse{}, fmt.Errorf("load course %d: %w", courseID, err)
	}

	period, err := s.periods.Resolve(ctx, course.SchoolID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	now := s.now().UTC()
	session := models.Session{
		CourseID:       course.ID,
		AcademicYearID: period.AcademicYearID,
		Semester:       period.Semester,
		Topic:          s.sanitizer.Sanitize(payload.Topic),
		ClassDate:      datatypes.Date(now),
		Status:         models.SessionActive,
		CreatedAt:      now,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.SessionResponse{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("session_id", session.ID).Msg("session started")
	return dto.NewSessionResponse(session), nil
}

// End flips the session to Ended and back-fills an Absent record for every
// applicable enrolled student without a mark. Students enrolled after the
// session began are skipped; the session was never applicable to them.
func (s *sessionService) End(ctx context.Context, sessionID uint) (dto.SessionResponse, error) {
	tracer := otel.Tracer("github.com/campusroll/campusroll-api/internal/service/session")
	ctx, span := tracer.Start(ctx, "session.end")
	span.SetAttributes(attribute.Int64("session.id", int64(sessionID)))
	defer span.End()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, fmt.Errorf("load session %d: %w", sessionID, err)
	}
	if session.Status == models.SessionEnded {
		return dto.SessionResponse{}, ErrSessionAlreadyEnded
	}

	period := models.AcademicPeriod{AcademicYearID: session.AcademicYearID, Semester: session.Semester}
	enrollments, err := s.enrollments.ListActiveByCourse(ctx, session.CourseID, period)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("list enrollments: %w", err)
	}
	records, err := s.attendance.ListBySession(ctx, sessionID)
	if err != nil {
		return dto.SessionResponse{}, fmt.Errorf("list session records: %w", err)
	}
	recorded := make(map[uint]struct{}, len(records))
	for _, record := range records {
		recorded[record.StudentID] = struct{}{}
	}

	endedAt := s.now().UTC()
	absences := make([]models.AttendanceRecord, 0)
	for _, enrollment := range enrollments {
		if session.CreatedAt.Before(enrollment.CreatedAt) {
			continue
		}
		if _, ok := recorded[enrollment.StudentID]; ok {
			continue
		}
		absences = append(absences, models.AttendanceRecord{
			StudentID:      enrollment.StudentID,
			SessionID:      session.ID,
			CourseID:       session.CourseID,
			AcademicYearID: session.AcademicYearID,
			Semester:       session.Semester,
			Status:         models.AttendanceAbsent,
			CreatedAt:      endedAt,
		})
	}

	ended, err := s.sessions.End(ctx, sessionID, endedAt, absences)
	if err != nil {
		span.RecordError(err)
		return dto.SessionResponse{}, fmt.Errorf("end session: %w", err)
	}
	if !ended {
		return dto.SessionResponse{}, ErrSessionAlreadyEnded
	}

	s.publishEnded(sessionEndedEvent{SessionID: session.ID, CourseID: session.CourseID, EndedAt: endedAt})
	if s.live != nil {
		s.live.Publish(ctx, dto.LiveAttendanceEvent{
			Type:      dto.LiveEventSessionEnded,
			SessionID: session.ID,
			MarkedAt:  endedAt,
		})
	}

	s.logger.Info().
		Uint("session_id", session.ID).
		Int("auto_absent", len(absences)).
		Msg("session ended")

	session.Status = models.SessionEnded
	session.EndedAt = &endedAt
	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Detail(ctx context.Context, sessionID uint) (dto.SessionDetailResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionDetailResponse{}, ErrSessionNotFound
		}
		return dto.SessionDetailResponse{}, fmt.Errorf("load session %d: %w", sessionID, err)
	}

	period := models.AcademicPeriod{AcademicYearID: session.AcademicYearID, Semester: session.Semester}
	enrollments, err := s.enrollments.ListActiveByCourse(ctx, session.CourseID, period)
	if err != nil {
		return dto.SessionDetailResponse{}, fmt.Errorf("list enrollments: %w", err)
	}
	records, err := s.attendance.ListBySession(ctx, sessionID)
	if err != nil {
		return dto.SessionDetailResponse{}, fmt.Errorf("list session records: %w", err)
	}
	recordsByStudent := make(map[uint]*models.AttendanceRecord, len(records))
	for i := range records {
		recordsByStudent[records[i].StudentID] = &records[i]
	}

	standings := make([]dto.SessionStandingResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if session.CreatedAt.Before(enrollment.CreatedAt) {
			continue
		}
		standing := eligibility.SessionStanding(session.Status, recordsByStudent[enrollment.StudentID])
		row := dto.SessionStandingResponse{StudentID: enrollment.StudentID, Standing: string(standing)}
		if enrollment.Student != nil {
			row.Name = enrollment.Student.Name
			row.RollNumber = enrollment.Student.RollNumber
		}
		standings = append(standings, row)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].RollNumber != standings[j].RollNumber {
			return standings[i].RollNumber < standings[j].RollNumber
		}
		return standings[i].StudentID < standings[j].StudentID
	})

	return dto.SessionDetailResponse{
		Session:   dto.NewSessionResponse(session),
		Standings: standings,
	}, nil
}

func (s *sessionService) publishEnded(event sessionEndedEvent) {
	if s.nats == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode session ended event")
		return
	}
	if err := s.nats.Publish(sessionEndedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("session_id", event.SessionID).Msg("failed to publish session ended event")
	}
}
