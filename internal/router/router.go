package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gradex-go-api/internal/config"
	"github.com/noah-isme/gradex-go-api/internal/handler"
	"github.com/noah-isme/gradex-go-api/internal/middleware"
	"github.com/noah-isme/gradex-go-api/internal/observability"
	"github.com/noah-isme/gradex-go-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ExamHandler             *handler.ExamHandler
	BatchUploadHandler      *handler.BatchUploadHandler
	GradingHandler          *handler.GradingHandler
	ResultsHandler          *handler.ResultsHandler
	TeacherDashboardHandler *handler.TeacherDashboardHandler
	SubmissionHandler       *handler.SubmissionHandler
	GrievanceHandler        *handler.GrievanceHandler
	StudentDashboardHandler *handler.StudentDashboardHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Instructor surface
	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(service.RoleTeacher))

	if deps.ExamHandler != nil {
		exams := teacher.Group("/exams")
		deps.ExamHandler.RegisterCourses(teacher.Group("/courses"))
		deps.ExamHandler.Register(exams)

		if deps.BatchUploadHandler != nil {
			deps.BatchUploadHandler.Register(exams, middleware.RateLimit("batch-upload", 10, time.Minute))
		}
		if deps.ResultsHandler != nil {
			deps.ResultsHandler.Register(exams)
		}
	}

	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(teacher.Group("/submissions"))
	}

	if deps.TeacherDashboardHandler != nil {
		deps.TeacherDashboardHandler.Register(teacher.Group("/dashboard"))
	}

	if deps.GrievanceHandler != nil {
		deps.GrievanceHandler.RegisterTeacher(teacher.Group("/grievances"))
	}

	// Student surface
	student := api.Group("/student", jwtMiddleware, middleware.RequireRole(service.RoleStudent))

	if deps.ExamHandler != nil {
		deps.ExamHandler.RegisterActive(student.Group("/exams"))
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(student.Group("/submissions"))
	}

	if deps.GrievanceHandler != nil {
		deps.GrievanceHandler.RegisterStudent(student.Group("/grievances", middleware.RateLimit("grievances", 30, time.Minute)))
	}

	if deps.StudentDashboardHandler != nil {
		deps.StudentDashboardHandler.Register(student.Group("/dashboard"))
	}
}
