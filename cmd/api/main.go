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
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradex-go-api/internal/config"
	"github.com/noah-isme/gradex-go-api/internal/database"
	"github.com/noah-isme/gradex-go-api/internal/handler"
	"github.com/noah-isme/gradex-go-api/internal/middleware"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/repository"
	"github.com/noah-isme/gradex-go-api/internal/router"
	"github.com/noah-isme/gradex-go-api/internal/service"
	cloud "github.com/noah-isme/gradex-go-api/pkg/cloudinary"
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
		&models.Instructor{},
		&models.Student{},
		&models.Course{},
		&models.Exam{},
		&models.Submission{},
		&models.Grievance{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	blobs, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	instructorRepo := repository.NewInstructorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	examRepo := repository.NewExamRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	grievanceRepo := repository.NewGrievanceRepository(db)

	events := service.NewEventPublisher(redisClient, cfg.EventChannelBase, natsConn, logger)

	examService := service.NewExamService(instructorRepo, examRepo, submissionRepo, courseRepo, blobs, validate, logger)
	batchService := service.NewBatchIngestService(instructorRepo, studentRepo, examRepo, submissionRepo, blobs, events, cfg.MaxUploadSizeMB, logger)
	gradingService := service.NewGradingService(instructorRepo, submissionRepo, validate, events, logger)
	submissionService := service.NewSubmissionService(studentRepo, examRepo, submissionRepo, grievanceRepo, validate, logger)
	grievanceService := service.NewGrievanceService(studentRepo, instructorRepo, submissionRepo, grievanceRepo, validate, events, logger)
	resultsService := service.NewResultsService(instructorRepo, examRepo, submissionRepo, logger)
	teacherDashboardService := service.NewTeacherDashboardService(instructorRepo, examRepo, submissionRepo, logger)
	studentDashboardService := service.NewStudentDashboardService(studentRepo, submissionRepo, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadSizeMB + 2) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ExamHandler:             handler.NewExamHandler(examService, logger),
		BatchUploadHandler:      handler.NewBatchUploadHandler(batchService, logger),
		GradingHandler:          handler.NewGradingHandler(gradingService, logger),
		ResultsHandler:          handler.NewResultsHandler(resultsService, logger),
		TeacherDashboardHandler: handler.NewTeacherDashboardHandler(teacherDashboardService, logger),
		SubmissionHandler:       handler.NewSubmissionHandler(submissionService, logger),
		GrievanceHandler:        handler.NewGrievanceHandler(grievanceService, logger),
		StudentDashboardHandler: handler.NewStudentDashboardHandler(studentDashboardService, logger),
		JWTMiddleware:           middleware.JWTProtected(cfg.JWTSecret),
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
