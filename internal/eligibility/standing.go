package eligibility

import "github.com/campusroll/campusroll-api/internal/models"

// Standing is the derived per-session attendance state shown on session
// detail views. Pending exists only while a session is active and is never
// stored; it contributes to neither attended nor applicable counts.
type Standing string

const (
	StandingPresent Standing = "present"
	StandingPending Standing = "pending"
	StandingAbsent  Standing = "absent"
)

// SessionStanding derives a student's standing for one session from the
// session lifecycle state and their stored record, if any.
func SessionStanding(status models.SessionStatus, record *models.AttendanceRecord) Standing {
	if record != nil {
		if record.Status == models.AttendancePresent {
			return StandingPresent
		}
		return StandingAbsent
	}
	if status == models.SessionActive {
		return StandingPending
	}
	return StandingAbsent
}
