package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/observability"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// GradingService applies instructor grades to submissions. Re-grading an
// already graded submission is allowed and overwrites the prior grade.
type GradingService interface {
	Grade(ctx context.Context, actor Actor, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	instructors repository.InstructorRepository
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	events      EventPublisher
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(instructorRepo repository.InstructorRepository, submissionRepo repository.SubmissionRepository, validate *validator.Validate, events EventPublisher, logger zerolog.Logger) GradingService {
	return &gradingService{
		instructors: instructorRepo,
		submissions: submissionRepo,
		validator:   validate,
		events:      events,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/gradex-go-api/internal/service/grading"),
		now:         time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, actor Actor, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.grade", trace.WithAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.SubmissionResponse{}, err
	}

	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "instructor not found")
			return dto.SubmissionResponse{}, ErrInstructorNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission not found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if submission.Exam.InstructorID != instructor.ID {
		span.SetStatus(codes.Error, "exam not owned by caller")
		return dto.SubmissionResponse{}, ErrForbidden
	}

	marks := payload.Marks
	submission.Marks = &marks
	submission.MatchPercentage = payload.MatchPercentage
	if feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback)); feedback != "" {
		submission.Feedback = &feedback
	} else {
		submission.Feedback = nil
	}
	submission.Status = models.SubmissionStatusGraded
	gradedAt := s.now()
	submission.GradedAt = &gradedAt

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionsGraded().Inc()

	if s.events != nil {
		s.events.Publish(ctx, EventSubmissionGraded, map[string]interface{}{
			"submission_id": submission.ID,
			"exam_id":       submission.ExamID,
			"student_id":    submission.StudentID,
			"marks":         marks,
		})
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("marks", marks).
		Msg("submission graded")

	span.SetAttributes(attribute.Float64("grading.marks", marks))

	return dto.NewSubmissionResponse(submission), nil
}
