package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/observability"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// Grievance transition actions.
const (
	GrievanceActionRespond = "respond"
	GrievanceActionResolve = "resolve"
	GrievanceActionDismiss = "dismiss"
)

// GrievanceService governs the dispute lifecycle: students file at most
// one grievance per submission; only the owning exam's instructor may
// transition it; resolved and rejected are terminal.
type GrievanceService interface {
	Create(ctx context.Context, actor Actor, payload dto.GrievanceCreateRequest) (dto.GrievanceResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.GrievanceResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.GrievanceResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.GrievanceResponse, error)
	Transition(ctx context.Context, actor Actor, id uint, payload dto.GrievanceActionRequest) (dto.GrievanceResponse, error)
}

type grievanceService struct {
	students    repository.StudentRepository
	instructors repository.InstructorRepository
	submissions repository.SubmissionRepository
	grievances  repository.GrievanceRepository
	validator   *validator.Validate
	events      EventPublisher
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGrievanceService constructs the grievance service.
func NewGrievanceService(
	studentRepo repository.StudentRepository,
	instructorRepo repository.InstructorRepository,
	submissionRepo repository.SubmissionRepository,
	grievanceRepo repository.GrievanceRepository,
	validate *validator.Validate,
	events EventPublisher,
	logger zerolog.Logger,
) GrievanceService {
	return &grievanceService{
		students:    studentRepo,
		instructors: instructorRepo,
		submissions: submissionRepo,
		grievances:  grievanceRepo,
		validator:   validate,
		events:      events,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "grievance_service").Logger(),
		now:         time.Now,
	}
}

// Create files a grievance against one of the caller's own submissions.
func (s *grievanceService) Create(ctx context.Context, actor Actor, payload dto.GrievanceCreateRequest) (dto.GrievanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GrievanceResponse{}, err
	}

	student, err := s.students.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GrievanceResponse{}, ErrStudentNotFound
		}
		return dto.GrievanceResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, payload.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GrievanceResponse{}, ErrSubmissionNotFound
		}
		return dto.GrievanceResponse{}, err
	}

	if submission.StudentID != student.ID {
		return dto.GrievanceResponse{}, ErrSubmissionNotFound
	}

	if _, err := s.grievances.GetBySubmission(ctx, submission.ID); err == nil {
		return dto.GrievanceResponse{}, ErrDuplicateGrievance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.GrievanceResponse{}, err
	}

	grievance := models.Grievance{
		StudentID:      student.ID,
		ExamID:         submission.ExamID,
		SubmissionID:   submission.ID,
		Type:           payload.Type,
		QuestionNumber: payload.QuestionNumber,
		Description:    strings.TrimSpace(s.sanitizer.Sanitize(payload.Description)),
		Status:         models.GrievanceStatusPending,
	}

	if err := s.grievances.Create(ctx, &grievance); err != nil {
		// The uniqueness check above races with concurrent filers; the
		// unique index on submission_id is authoritative.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.GrievanceResponse{}, ErrDuplicateGrievance
		}
		return dto.GrievanceResponse{}, err
	}

	created, err := s.grievances.GetByID(ctx, grievance.ID)
	if err != nil {
		return dto.GrievanceResponse{}, err
	}

	s.logger.Info().Uint("grievance_id", created.ID).Uint("submission_id", submission.ID).Msg("grievance filed")

	return dto.NewGrievanceResponse(created), nil
}

// Get returns one grievance for the owning instructor.
func (s *grievanceService) Get(ctx context.Context, actor Actor, id uint) (dto.GrievanceResponse, error) {
	grievance, _, err := s.ownedGrievance(ctx, actor, id)
	if err != nil {
		return dto.GrievanceResponse{}, err
	}

	return dto.NewGrievanceResponse(grievance), nil
}

// List returns every grievance filed against the instructor's exams.
func (s *grievanceService) List(ctx context.Context, actor Actor) ([]dto.GrievanceResponse, error) {
	instructor, err := s.resolveInstructor(ctx, actor)
	if err != nil {
		return nil, err
	}

	grievances, err := s.grievances.ListByInstructor(ctx, instructor.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewGrievanceResponseSlice(grievances), nil
}

// ListMine returns the grievances filed by the calling student.
func (s *grievanceService) ListMine(ctx context.Context, actor Actor) ([]dto.GrievanceResponse, error) {
	student, err := s.students.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	grievances, err := s.grievances.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewGrievanceResponseSlice(grievances), nil
}

// Transition applies one instructor action. Transitions out of resolved
// or rejected are rejected rather than silently ignored.
func (s *grievanceService) Transition(ctx context.Context, actor Actor, id uint, payload dto.GrievanceActionRequest) (dto.GrievanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GrievanceResponse{}, err
	}

	grievance, _, err := s.ownedGrievance(ctx, actor, id)
	if err != nil {
		return dto.GrievanceResponse{}, err
	}

	if grievance.IsClosed() {
		return dto.GrievanceResponse{}, ErrGrievanceClosed
	}

	response := strings.TrimSpace(s.sanitizer.Sanitize(payload.InstructorResponse))
	now := s.now()

	switch payload.Action {
	case GrievanceActionRespond:
		if response == "" {
			return dto.GrievanceResponse{}, ErrResponseRequired
		}
		grievance.InstructorResponse = &response
		grievance.Status = models.GrievanceStatusUnderReview
		grievance.ReviewedAt = &now
	case GrievanceActionResolve:
		if response != "" {
			grievance.InstructorResponse = &response
		}
		grievance.Status = models.GrievanceStatusResolved
		grievance.ResolvedAt = &now
	case GrievanceActionDismiss:
		grievance.Status = models.GrievanceStatusRejected
		grievance.ReviewedAt = &now
	}

	if err := s.grievances.Update(ctx, &grievance); err != nil {
		return dto.GrievanceResponse{}, err
	}

	observability.GrievanceTransitions().WithLabelValues(payload.Action).Inc()

	if s.events != nil {
		s.events.Publish(ctx, EventGrievanceUpdated, map[string]interface{}{
			"grievance_id": grievance.ID,
			"action":       payload.Action,
			"status":       grievance.Status,
		})
	}

	s.logger.Info().
		Uint("grievance_id", grievance.ID).
		Str("action", payload.Action).
		Str("status", grievance.Status).
		Msg("grievance transitioned")

	return dto.NewGrievanceResponse(grievance), nil
}

// ownedGrievance loads the grievance and verifies the caller owns the exam
// it was filed against.
func (s *grievanceService) ownedGrievance(ctx context.Context, actor Actor, id uint) (models.Grievance, models.Instructor, error) {
	instructor, err := s.resolveInstructor(ctx, actor)
	if err != nil {
		return models.Grievance{}, models.Instructor{}, err
	}

	grievance, err := s.grievances.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Grievance{}, models.Instructor{}, ErrGrievanceNotFound
		}
		return models.Grievance{}, models.Instructor{}, err
	}

	if grievance.Exam.InstructorID != instructor.ID {
		return models.Grievance{}, models.Instructor{}, ErrForbidden
	}

	return grievance, instructor, nil
}

func (s *grievanceService) resolveInstructor(ctx context.Context, actor Actor) (models.Instructor, error) {
	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Instructor{}, ErrInstructorNotFound
		}
		return models.Instructor{}, err
	}

	return instructor, nil
}
