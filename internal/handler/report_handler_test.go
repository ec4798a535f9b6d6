package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/handler"
	"github.com/campusroll/campusroll-api/internal/service"
)

type stubReportService struct {
	report dto.CourseReportResponse
	err    error
}

func (s stubReportService) ComputeCourseReport(context.Context, uint) (dto.CourseReportResponse, error) {
	return s.report, s.err
}

func courseReportStub() dto.CourseReportResponse {
	return dto.CourseReportResponse{
		Course: dto.CourseInfoResponse{ID: 10, Code: "CSC101", Title: "Intro to Computing"},
		Period: dto.PeriodResponse{AcademicYearID: 1, Semester: "first"},
		Summary: dto.SummaryResponse{
			TotalStudents: 2, EligibleCount: 1, NotEligibleCount: 1,
			AverageAttendance: 75, Threshold: 65,
		},
		Students: []dto.StudentResultResponse{
			{StudentID: 1, Name: "Ada", RollNumber: "CSC/21/001", EnrolledAtSession: 1, ApplicableSessions: 4, Attended: 2, Absent: 2, Percentage: 50, Eligible: false},
			{StudentID: 2, Name: "Bisi", RollNumber: "CSC/21/002", EnrolledAtSession: 3, ApplicableSessions: 2, Attended: 2, Absent: 0, Percentage: 100, Eligible: true},
		},
	}
}

func newReportApp(svc service.ReportService) *fiber.App {
	app := fiber.New()
	handler.NewReportHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/courses"))
	return app
}

func TestReportHandlerCourseReport(t *testing.T) {
	app := newReportApp(stubReportService{report: courseReportStub()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/10/report", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReportHandlerCourseNotFound(t *testing.T) {
	app := newReportApp(stubReportService{err: service.ErrCourseNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/10/report", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportHandlerNoActivePeriod(t *testing.T) {
	app := newReportApp(stubReportService{err: service.ErrNoActivePeriod})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/10/report", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestReportHandlerCSVExportMatchesReport(t *testing.T) {
	app := newReportApp(stubReportService{report: courseReportStub()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/courses/10/report/export", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3, "header plus one line per student")
	require.Equal(t, "CSC/21/001,Ada,1,4,2,2,50,false", strings.TrimSpace(lines[1]))
	require.Equal(t, "CSC/21/002,Bisi,3,2,2,0,100,true", strings.TrimSpace(lines[2]))
}
