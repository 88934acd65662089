package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// SubmissionService handles student-initiated submission workflows.
type SubmissionService interface {
	Create(ctx context.Context, actor Actor, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error)
	ListEligibleForGrievance(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	students    repository.StudentRepository
	exams       repository.ExamRepository
	submissions repository.SubmissionRepository
	grievances  repository.GrievanceRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(studentRepo repository.StudentRepository, examRepo repository.ExamRepository, submissionRepo repository.SubmissionRepository, grievanceRepo repository.GrievanceRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		students:    studentRepo,
		exams:       examRepo,
		submissions: submissionRepo,
		grievances:  grievanceRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

// Create records a student's own text-answer submission. Unlike the batch
// path it never overwrites: a second submission for the same exam fails
// with a duplicate error.
func (s *submissionService) Create(ctx context.Context, actor Actor, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	student, err := s.resolveStudent(ctx, actor)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	exam, err := s.exams.GetByID(ctx, payload.ExamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrExamNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if !exam.IsActive {
		return dto.SubmissionResponse{}, ErrExamNotActive
	}

	if _, err := s.submissions.GetByStudentExam(ctx, student.ID, exam.ID); err == nil {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	answers, err := json.Marshal(map[string]string{"answer": payload.OriginalAnswer})
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID:       student.ID,
		ExamID:          exam.ID,
		OriginalAnswers: answers,
		Status:          models.SubmissionStatusPending,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		// The pre-insert check races with concurrent writers; the unique
		// constraint on (student_id, exam_id) is what actually decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Uint("exam_id", exam.ID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

// ListMine returns the calling student's submissions, newest first.
func (s *submissionService) ListMine(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error) {
	student, err := s.resolveStudent(ctx, actor)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &student.ID})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// ListEligibleForGrievance returns the student's submissions that do not
// yet have a grievance filed against them.
func (s *submissionService) ListEligibleForGrievance(ctx context.Context, actor Actor) ([]dto.SubmissionResponse, error) {
	student, err := s.resolveStudent(ctx, actor)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &student.ID})
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if _, err := s.grievances.GetBySubmission(ctx, submission.ID); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		eligible = append(eligible, submission)
	}

	return dto.NewSubmissionResponseSlice(eligible), nil
}

func (s *submissionService) resolveStudent(ctx context.Context, actor Actor) (models.Student, error) {
	student, err := s.students.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}

	return student, nil
}
