package dto

import (
	"time"

	"github.com/campusroll/campusroll-api/internal/models"
)

// StartSessionRequest opens a new class session on a course.
type StartSessionRequest struct {
	Topic string `json:"topic" validate:"max=255"`
}

// SessionResponse serializes one class session.
type SessionResponse struct {
	ID        uint       `json:"id"`
	CourseID  uint       `json:"course_id"`
	Topic     string     `json:"topic,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// SessionStandingResponse is one student's derived state for one session:
// present, pending (active session, no mark yet) or absent.
type SessionStandingResponse struct {
	StudentID  uint   `json:"student_id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Standing   string `json:"standing"`
}

// SessionDetailResponse is the session view with per-student standings.
type SessionDetailResponse struct {
	Session   SessionResponse           `json:"session"`
	Standings []SessionStandingResponse `json:"standings"`
}

// AttendanceResponse serializes a stored attendance mark.
type AttendanceResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	SessionID uint      `json:"session_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LiveAttendanceEvent is one live-feed message: a Present mark arriving on
// an active session, or the feed closing when the session ends.
type LiveAttendanceEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	SessionID  uint      `json:"session_id"`
	StudentID  uint      `json:"student_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	RollNumber string    `json:"roll_number,omitempty"`
	MarkedAt   time.Time `json:"marked_at"`
}

// Live event types.
const (
	LiveEventMarked       = "attendance_marked"
	LiveEventSessionEnded = "session_ended"
)

// NewSessionResponse maps a session row.
func NewSessionResponse(session models.Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		CourseID:  session.CourseID,
		Topic:     session.Topic,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
		EndedAt:   session.EndedAt,
	}
}

// NewAttendanceResponse maps an attendance record.
func NewAttendanceResponse(record models.AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:        record.ID,
		StudentID: record.StudentID,
		SessionID: record.SessionID,
		Status:    string(record.Status),
		CreatedAt: record.CreatedAt,
	}
}
