package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// ExamService handles instructor-owned exam management. Updates are
// non-destructive partial merges; deletion cascades to submissions and
// grievances through the store's foreign keys.
type ExamService interface {
	Create(ctx context.Context, actor Actor, payload dto.ExamCreateRequest) (dto.ExamResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.ExamResponse, error)
	Get(ctx context.Context, actor Actor, id uint) (dto.ExamResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	UploadModelAnswer(ctx context.Context, actor Actor, id uint, content []byte, contentType string) (dto.ExamResponse, error)
	ListCourses(ctx context.Context, actor Actor) ([]dto.CourseResponse, error)
	ListActive(ctx context.Context) ([]dto.ExamResponse, error)
}

type examService struct {
	instructors repository.InstructorRepository
	exams       repository.ExamRepository
	submissions repository.SubmissionRepository
	courses     repository.CourseRepository
	blobs       BlobStore
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewExamService constructs an ExamService instance.
func NewExamService(
	instructorRepo repository.InstructorRepository,
	examRepo repository.ExamRepository,
	submissionRepo repository.SubmissionRepository,
	courseRepo repository.CourseRepository,
	blobs BlobStore,
	validate *validator.Validate,
	logger zerolog.Logger,
) ExamService {
	return &examService{
		instructors: instructorRepo,
		exams:       examRepo,
		submissions: submissionRepo,
		courses:     courseRepo,
		blobs:       blobs,
		validator:   validate,
		logger:      logger.With().Str("component", "exam_service").Logger(),
	}
}

func (s *examService) Create(ctx context.Context, actor Actor, payload dto.ExamCreateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	instructor, err := s.resolveInstructor(ctx, actor)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	if payload.CourseID != nil {
		course, err := s.courses.GetByID(ctx, *payload.CourseID)
		if err != nil || course.InstructorID != instructor.ID {
			return dto.ExamResponse{}, ErrForbidden
		}
	}

	exam := models.Exam{
		InstructorID: instructor.ID,
		CourseID:     payload.CourseID,
		Title:        payload.Title,
		Description:  payload.Description,
		Type:         payload.Type,
		Deadline:     payload.Deadline,
		Rubric:       payload.Rubric,
		IsActive:     true,
	}

	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Str("title", exam.Title).Msg("exam created")

	return dto.NewExamResponse(exam), nil
}

func (s *examService) List(ctx context.Context, actor Actor) ([]dto.ExamResponse, error) {
	instructor, err := s.resolveInstructor(ctx, actor)
	if err != nil {
		return nil, err
	}

	exams, err := s.exams.ListByInstructor(ctx, instructor.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ExamResponse, 0, len(exams))
	for _, exam := range exams {
		response := dto.NewExamResponse(exam)
		if response.TotalSubmissions, err = s.submissions.Count(ctx, repository.SubmissionFilter{ExamID: &exam.ID}); err != nil {
			return nil, err
		}
		graded := models.SubmissionStatusGraded
		if response.GradedCount, err = s.submissions.Count(ctx, repository.SubmissionFilter{ExamID: &exam.ID, Status: &graded}); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *examService) Get(ctx context.Context, actor Actor, id uint) (dto.ExamResponse, error) {
	exam, err := s.ownedExam(ctx, actor, id)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	response := dto.NewExamResponse(exam)
	if response.TotalSubmissions, err = s.submissions.Count(ctx, repository.SubmissionFilter{ExamID: &exam.ID}); err != nil {
		return dto.ExamResponse{}, err
	}
	graded := models.SubmissionStatusGraded
	if response.GradedCount, err = s.submissions.Count(ctx, repository.SubmissionFilter{ExamID: &exam.ID, Status: &graded}); err != nil {
		return dto.ExamResponse{}, err
	}

	return response, nil
}

func (s *examService) Update(ctx context.Context, actor Actor, id uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	exam, err := s.ownedExam(ctx, actor, id)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	if payload.Title != nil {
		exam.Title = *payload.Title
	}
	if payload.Description != nil {
		exam.Description = *payload.Description
	}
	if payload.Type != nil {
		exam.Type = *payload.Type
	}
	if payload.Deadline != nil {
		exam.Deadline = payload.Deadline
	}
	if payload.Rubric != nil {
		exam.Rubric = *payload.Rubric
	}
	if payload.CourseID != nil {
		exam.CourseID = payload.CourseID
	}
	if payload.IsActive != nil {
		exam.IsActive = *payload.IsActive
	}

	if err := s.exams.Update(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Msg("exam updated")

	return dto.NewExamResponse(exam), nil
}

func (s *examService) Delete(ctx context.Context, actor Actor, id uint) error {
	exam, err := s.ownedExam(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.exams.Delete(ctx, exam.ID); err != nil {
		return err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Msg("exam deleted")

	return nil
}

// UploadModelAnswer stores the instructor's reference answer sheet and
// links it to the exam.
func (s *examService) UploadModelAnswer(ctx context.Context, actor Actor, id uint, content []byte, contentType string) (dto.ExamResponse, error) {
	exam, err := s.ownedExam(ctx, actor, id)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	if contentType != acceptedAnswerSheetType {
		return dto.ExamResponse{}, ErrInvalidFileType
	}

	link, err := s.blobs.Put(ctx, ModelAnswerKey(exam.ID), content, acceptedAnswerSheetType)
	if err != nil {
		return dto.ExamResponse{}, ErrStorageFailure
	}

	exam.ModelAnswerLink = link
	if err := s.exams.Update(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	return dto.NewExamResponse(exam), nil
}

func (s *examService) ListCourses(ctx context.Context, actor Actor) ([]dto.CourseResponse, error) {
	instructor, err := s.resolveInstructor(ctx, actor)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.ListByInstructor(ctx, instructor.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

// ListActive returns exams currently open for submission, for student
// browsing.
func (s *examService) ListActive(ctx context.Context) ([]dto.ExamResponse, error) {
	exams, err := s.exams.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, dto.NewExamResponse(exam))
	}

	return responses, nil
}

func (s *examService) ownedExam(ctx context.Context, actor Actor, id uint) (models.Exam, error) {
	instructor, err := s.resolveInstructor(ctx, actor)
	if err != nil {
		return models.Exam{}, err
	}

	exam, err := s.exams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Exam{}, ErrExamNotFound
		}
		return models.Exam{}, err
	}

	if exam.InstructorID != instructor.ID {
		return models.Exam{}, ErrForbidden
	}

	return exam, nil
}

func (s *examService) resolveInstructor(ctx context.Context, actor Actor) (models.Instructor, error) {
	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Instructor{}, ErrInstructorNotFound
		}
		return models.Instructor{}, err
	}

	return instructor, nil
}
