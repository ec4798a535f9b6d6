package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campusroll/campusroll-api/internal/config"
	"github.com/campusroll/campusroll-api/internal/handler"
	"github.com/campusroll/campusroll-api/internal/middleware"
	"github.com/campusroll/campusroll-api/internal/models"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ReportHandler        *handler.ReportHandler
	StudentReportHandler *handler.StudentReportHandler
	OverviewHandler      *handler.OverviewHandler
	SessionHandler       *handler.SessionHandler
	AttendanceHandler    *handler.AttendanceHandler
	EnrollmentHandler    *handler.EnrollmentHandler
	SchoolHandler        *handler.SchoolHandler
	SettingsHandler      *handler.SettingsHandler
	LiveHandler          *handler.LiveHandler
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	staff := middleware.RequireRole(string(models.RoleLecturer), string(models.RoleAdmin))
	adminOnly := middleware.RequireRole(string(models.RoleAdmin))
	studentOnly := middleware.RequireRole(string(models.RoleStudent))

	// Courses: reports and exports for staff, session start for staff,
	// enrollment for students.
	courses := api.Group("/courses", jwtMiddleware)
	if deps.ReportHandler != nil {
		reports := courses.Group("", staff)
		deps.ReportHandler.Register(reports)
	}
	if deps.SessionHandler != nil {
		start := courses.Group("", staff)
		deps.SessionHandler.RegisterCourseRoutes(start)
	}
	if deps.EnrollmentHandler != nil {
		enrollment := courses.Group("", studentOnly)
		deps.EnrollmentHandler.Register(enrollment)
	}

	// Sessions: detail and end for staff, marks for students, the live feed
	// for any authenticated user.
	sessions := api.Group("/sessions", jwtMiddleware)
	if deps.SessionHandler != nil {
		lifecycle := sessions.Group("", staff)
		deps.SessionHandler.Register(lifecycle)
	}
	if deps.AttendanceHandler != nil {
		marks := sessions.Group("", studentOnly, middleware.RateLimit("attendance_mark", 10, time.Minute))
		deps.AttendanceHandler.Register(marks)
	}
	if deps.LiveHandler != nil {
		deps.LiveHandler.Register(sessions)
	}

	// Students: self-service report.
	if deps.StudentReportHandler != nil {
		students := api.Group("/students", jwtMiddleware, studentOnly)
		deps.StudentReportHandler.Register(students)
	}

	// Overview: lecturers see their courses, admins any scope.
	if deps.OverviewHandler != nil {
		overview := api.Group("", jwtMiddleware, staff)
		deps.OverviewHandler.Register(overview)
	}

	// School administration.
	if deps.SchoolHandler != nil {
		schools := api.Group("/schools", jwtMiddleware, adminOnly)
		deps.SchoolHandler.Register(schools)
	}

	// Lecturer settings.
	if deps.SettingsHandler != nil {
		settings := api.Group("/settings", jwtMiddleware, middleware.RequireRole(string(models.RoleLecturer)))
		deps.SettingsHandler.Register(settings)
	}
}
