package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// TeacherDashboardService derives grading-workload statistics for an
// instructor. Everything is recomputed from the store on each call;
// repeated calls are not free, which is an accepted trade-off for
// always-fresh numbers.
type TeacherDashboardService interface {
	GetDashboard(ctx context.Context, actor Actor) (dto.TeacherDashboardResponse, error)
}

type teacherDashboardService struct {
	instructors repository.InstructorRepository
	exams       repository.ExamRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewTeacherDashboardService builds the instructor dashboard aggregator.
func NewTeacherDashboardService(instructorRepo repository.InstructorRepository, examRepo repository.ExamRepository, submissionRepo repository.SubmissionRepository, logger zerolog.Logger) TeacherDashboardService {
	return &teacherDashboardService{
		instructors: instructorRepo,
		exams:       examRepo,
		submissions: submissionRepo,
		logger:      logger.With().Str("component", "teacher_dashboard_service").Logger(),
	}
}

func (s *teacherDashboardService) GetDashboard(ctx context.Context, actor Actor) (dto.TeacherDashboardResponse, error) {
	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherDashboardResponse{}, ErrInstructorNotFound
		}
		return dto.TeacherDashboardResponse{}, err
	}

	totalExams, err := s.exams.CountByInstructor(ctx, instructor.ID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	totalSubmissions, err := s.submissions.Count(ctx, repository.SubmissionFilter{InstructorID: &instructor.ID})
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	pending := models.SubmissionStatusPending
	pendingSubmissions, err := s.submissions.Count(ctx, repository.SubmissionFilter{InstructorID: &instructor.ID, Status: &pending})
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	marks, err := s.submissions.GradedMarks(ctx, repository.SubmissionFilter{InstructorID: &instructor.ID})
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	recentExams, err := s.exams.ListRecentByInstructor(ctx, instructor.ID, 5)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	recent := make([]dto.ExamResponse, 0, len(recentExams))
	for _, exam := range recentExams {
		response := dto.NewExamResponse(exam)
		if response.TotalSubmissions, err = s.submissions.Count(ctx, repository.SubmissionFilter{ExamID: &exam.ID}); err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		recent = append(recent, response)
	}

	return dto.TeacherDashboardResponse{
		Statistics: dto.TeacherStatistics{
			TotalExams:         totalExams,
			TotalSubmissions:   totalSubmissions,
			PendingSubmissions: pendingSubmissions,
			StudentsGraded:     totalSubmissions - pendingSubmissions,
		},
		RecentExams:       recent,
		GradeDistribution: BucketGrades(marks),
	}, nil
}

// BucketGrades buckets graded marks into letter bands: A [90,100],
// B [80,90), C [70,80), D [60,70), F [0,60). Submissions without marks
// are excluded upstream rather than counted as F.
func BucketGrades(marks []float64) dto.GradeDistribution {
	var distribution dto.GradeDistribution
	for _, mark := range marks {
		switch {
		case mark >= 90:
			distribution.A++
		case mark >= 80:
			distribution.B++
		case mark >= 70:
			distribution.C++
		case mark >= 60:
			distribution.D++
		default:
			distribution.F++
		}
	}

	return distribution
}
