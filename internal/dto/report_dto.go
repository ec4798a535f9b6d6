package dto

import (
	"github.com/campusroll/campusroll-api/internal/eligibility"
	"github.com/campusroll/campusroll-api/internal/models"
)

// PeriodResponse identifies the academic window a report was computed for.
type PeriodResponse struct {
	AcademicYearID uint   `json:"academic_year_id"`
	Semester       string `json:"semester"`
}

// CourseInfoResponse is the course header shown above a report.
type CourseInfoResponse struct {
	ID         uint     `json:"id"`
	Code       string   `json:"code"`
	Title      string   `json:"title"`
	Level      int      `json:"level"`
	Faculty    string   `json:"faculty,omitempty"`
	Department string   `json:"department,omitempty"`
	Lecturers  []string `json:"lecturers,omitempty"`
}

// StudentResultResponse is one row of a course eligibility report.
type StudentResultResponse struct {
	StudentID          uint   `json:"student_id"`
	Name               string `json:"name"`
	RollNumber         string `json:"roll_number"`
	EnrolledAtSession  int    `json:"enrolled_at_session"`
	ApplicableSessions int    `json:"applicable_sessions"`
	Attended           int    `json:"attended"`
	Absent             int    `json:"absent"`
	Percentage         int    `json:"percentage"`
	Eligible           bool   `json:"eligible"`
}

// SummaryResponse is the course-level roll-up above the per-student rows.
type SummaryResponse struct {
	TotalStudents     int `json:"total_students"`
	EligibleCount     int `json:"eligible_count"`
	NotEligibleCount  int `json:"not_eligible_count"`
	AverageAttendance int `json:"average_attendance"`
	Threshold         int `json:"threshold"`
}

// CourseReportResponse is the full course eligibility report. The on-screen
// view and the export pipeline both render exactly this payload.
type CourseReportResponse struct {
	Course   CourseInfoResponse      `json:"course"`
	Period   PeriodResponse          `json:"period"`
	Summary  SummaryResponse         `json:"summary"`
	Students []StudentResultResponse `json:"students"`
}

// StudentCourseStandingResponse is one course entry of a student's own
// report.
type StudentCourseStandingResponse struct {
	Course CourseInfoResponse    `json:"course"`
	Result StudentResultResponse `json:"result"`
}

// OverviewEntryResponse is one course line of a cross-course overview.
// Course summaries are listed, never folded into a single school figure.
type OverviewEntryResponse struct {
	Course  CourseInfoResponse `json:"course"`
	Summary SummaryResponse    `json:"summary"`
}

// NewCourseInfoResponse maps a course row into its report header.
func NewCourseInfoResponse(course models.Course) CourseInfoResponse {
	info := CourseInfoResponse{
		ID:    course.ID,
		Code:  course.Code,
		Title: course.Title,
		Level: course.Level,
	}
	if course.Faculty != nil {
		info.Faculty = course.Faculty.Name
	}
	if course.Department != nil {
		info.Department = course.Department.Name
	}
	for _, lecturer := range course.Lecturers {
		info.Lecturers = append(info.Lecturers, lecturer.Name)
	}
	return info
}

// NewPeriodResponse maps the resolved academic period.
func NewPeriodResponse(period models.AcademicPeriod) PeriodResponse {
	return PeriodResponse{
		AcademicYearID: period.AcademicYearID,
		Semester:       string(period.Semester),
	}
}

// NewStudentResultResponse joins a computed result with the student row it
// belongs to.
func NewStudentResultResponse(student models.User, result eligibility.Result) StudentResultResponse {
	return StudentResultResponse{
		StudentID:          result.StudentID,
		Name:               student.Name,
		RollNumber:         student.RollNumber,
		EnrolledAtSession:  result.EnrolledAtSession,
		ApplicableSessions: result.ApplicableSessions,
		Attended:           result.Attended,
		Absent:             result.Absent,
		Percentage:         result.Percentage,
		Eligible:           result.Eligible,
	}
}

// NewSummaryResponse maps an engine summary plus the threshold it was judged
// against.
func NewSummaryResponse(summary eligibility.Summary, threshold int) SummaryResponse {
	return SummaryResponse{
		TotalStudents:     summary.TotalStudents,
		EligibleCount:     summary.EligibleCount,
		NotEligibleCount:  summary.NotEligibleCount,
		AverageAttendance: summary.AverageAttendance,
		Threshold:         threshold,
	}
}
