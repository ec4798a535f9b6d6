package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/config"
	"github.com/campusroll/campusroll-api/internal/database"
	"github.com/campusroll/campusroll-api/internal/handler"
	"github.com/campusroll/campusroll-api/internal/middleware"
	"github.com/campusroll/campusroll-api/internal/models"
	"github.com/campusroll/campusroll-api/internal/observability"
	"github.com/campusroll/campusroll-api/internal/repository"
	"github.com/campusroll/campusroll-api/internal/router"
	"github.com/campusroll/campusroll-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.School{},
		&models.AcademicYear{},
		&models.Faculty{},
		&models.Department{},
		&models.User{},
		&models.Course{},
		&models.Session{},
		&models.Enrollment{},
		&models.AttendanceRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis backs the live feed fan-out; a missing URL degrades the feed
	// to single-node delivery.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	schoolRepo := repository.NewSchoolRepository(db)
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	periodResolver := service.NewPeriodResolver(schoolRepo, logger)
	thresholdResolver := service.NewThresholdResolver(schoolRepo, userRepo, cfg.DefaultThreshold, logger)
	liveFeed := service.NewLiveFeedService(redisClient, logger)
	reportService := service.NewReportService(courseRepo, sessionRepo, enrollmentRepo, attendanceRepo, periodResolver, thresholdResolver, logger)
	studentReportService := service.NewStudentReportService(userRepo, courseRepo, sessionRepo, enrollmentRepo, attendanceRepo, periodResolver, thresholdResolver, logger)
	overviewService := service.NewOverviewService(userRepo, courseRepo, sessionRepo, enrollmentRepo, attendanceRepo, periodResolver, thresholdResolver, logger)
	sessionService := service.NewSessionService(sessionRepo, enrollmentRepo, attendanceRepo, courseRepo, periodResolver, liveFeed, natsConn, validate, logger)
	attendanceService := service.NewAttendanceService(sessionRepo, enrollmentRepo, attendanceRepo, userRepo, liveFeed, logger)
	enrollmentService := service.NewEnrollmentService(courseRepo, enrollmentRepo, periodResolver, logger)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	liveFeed.Start(feedCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	app.Get("/metrics", observability.MetricsHandler())

	router.Register(app, cfg, router.Dependencies{
		ReportHandler:        handler.NewReportHandler(reportService, logger),
		StudentReportHandler: handler.NewStudentReportHandler(studentReportService, logger),
		OverviewHandler:      handler.NewOverviewHandler(overviewService, logger),
		SessionHandler:       handler.NewSessionHandler(sessionService, logger),
		AttendanceHandler:    handler.NewAttendanceHandler(attendanceService, logger),
		EnrollmentHandler:    handler.NewEnrollmentHandler(enrollmentService, logger),
		SchoolHandler:        handler.NewSchoolHandler(periodResolver, thresholdResolver, validate, logger),
		SettingsHandler:      handler.NewSettingsHandler(thresholdResolver, validate, logger),
		LiveHandler:          handler.NewLiveHandler(liveFeed, logger),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
