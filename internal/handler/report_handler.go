package handler

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/dto"
	"github.com/campusroll/campusroll-api/internal/service"
	"github.com/campusroll/campusroll-api/internal/utils"
)

// ReportHandler serves course eligibility reports.
type ReportHandler struct {
	reports service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register attaches report endpoints to the course router group.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/:id/report", h.courseReport)
	router.Get("/:id/report/export", h.exportReport)
}

func (h *ReportHandler) courseReport(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.ComputeCourseReport(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course report computed", report)
}

// exportReport renders the same computed report as a CSV download. The
// export carries identical figures to the on-screen view because both come
// from one computation path.
func (h *ReportHandler) exportReport(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.ComputeCourseReport(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	payload, err := renderReportCSV(report)
	if err != nil {
		return h.internalError(c, err)
	}

	filename := fmt.Sprintf("attendance-%s-%s.csv", report.Course.Code, report.Period.Semester)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(payload)
}

func renderReportCSV(report dto.CourseReportResponse) ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	header := []string{"roll_number", "name", "enrolled_at_session", "applicable_sessions", "attended", "absent", "percentage", "eligible"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, row := range report.Students {
		record := []string{
			row.RollNumber,
			row.Name,
			strconv.Itoa(row.EnrolledAtSession),
			strconv.Itoa(row.ApplicableSessions),
			strconv.Itoa(row.Attended),
			strconv.Itoa(row.Absent),
			strconv.Itoa(row.Percentage),
			strconv.FormatBool(row.Eligible),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func (h *ReportHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrNoActivePeriod):
		return utils.SendError(c, fiber.StatusConflict, "no active academic period")
	default:
		return h.internalError(c, err)
	}
}

func (h *ReportHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
