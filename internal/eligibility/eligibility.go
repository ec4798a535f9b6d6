// Package eligibility implements the attendance eligibility computation as
// pure functions over already-fetched collections. Every consumer surface
// (course report, export, student self-report, overview) goes through this
// package, so a (course, student) pair yields the same numbers everywhere.
package eligibility

import (
	"math"
	"time"

	"github.com/campusroll/campusroll-api/internal/models"
)

// Result is the per-student outcome for one course. It is derived on every
// read and never persisted.
type Result struct {
	StudentID          uint `json:"student_id"`
	EnrolledAtSession  int  `json:"enrolled_at_session"`
	ApplicableSessions int  `json:"applicable_sessions"`
	Attended           int  `json:"attended"`
	Absent             int  `json:"absent"`
	Percentage         int  `json:"percentage"`
	Eligible           bool `json:"eligible"`
}

// ApplicableSessions filters the course's ended sessions down to those that
// occurred at or after the enrollment timestamp, and returns the 1-based
// ordinal of the session the student joined at. Sessions must arrive sorted
// ascending by CreatedAt. A student enrolled before the first session joined
// at session 1.
func ApplicableSessions(sessions []models.Session, enrolledAt time.Time) ([]models.Session, int) {
	skipped := 0
	for _, s := range sessions {
		if s.CreatedAt.Before(enrolledAt) {
			skipped++
			continue
		}
		break
	}
	return sessions[skipped:], skipped + 1
}

// CountAttended counts applicable sessions with a Present record. The
// storage layer guarantees at most one record per (student, session), so a
// plain set intersection is exact.
func CountAttended(applicable []models.Session, presentSessionIDs []uint) int {
	if len(applicable) == 0 || len(presentSessionIDs) == 0 {
		return 0
	}

	present := make(map[uint]struct{}, len(presentSessionIDs))
	for _, id := range presentSessionIDs {
		present[id] = struct{}{}
	}

	attended := 0
	for _, s := range applicable {
		if _, ok := present[s.ID]; ok {
			attended++
		}
	}
	return attended
}

// Percentage converts an attended/applicable pair into a half-up rounded
// integer percentage. Zero applicable sessions yields 100: a student with no
// session they could have attended is vacuously in good standing.
func Percentage(attended, applicable int) int {
	if applicable <= 0 {
		return 100
	}
	return roundHalfUp(float64(attended) / float64(applicable) * 100)
}

// Evaluate builds a Result from the raw counts. Eligibility compares the
// rounded percentage against the threshold; consumers must carry this flag
// forward rather than re-deriving it from a second rounding.
func Evaluate(studentID uint, enrolledAtSession, attended, applicable, threshold int) Result {
	percentage := Percentage(attended, applicable)
	return Result{
		StudentID:          studentID,
		EnrolledAtSession:  enrolledAtSession,
		ApplicableSessions: applicable,
		Attended:           attended,
		Absent:             applicable - attended,
		Percentage:         percentage,
		Eligible:           percentage >= threshold,
	}
}

// EvaluateStudent runs the full per-student pipeline: applicability, tally,
// evaluation. Only ended sessions may be passed in; active sessions never
// feed eligibility math.
func EvaluateStudent(studentID uint, endedSessions []models.Session, enrolledAt time.Time, presentSessionIDs []uint, threshold int) Result {
	applicable, ordinal := ApplicableSessions(endedSessions, enrolledAt)
	attended := CountAttended(applicable, presentSessionIDs)
	return Evaluate(studentID, ordinal, attended, len(applicable), threshold)
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}
