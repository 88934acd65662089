package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/models"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// StudentDashboardService derives a student's score statistics and
// recent grading activity, recomputed per request.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, actor Actor) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	students    repository.StudentRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewStudentDashboardService builds the student dashboard aggregator.
func NewStudentDashboardService(studentRepo repository.StudentRepository, submissionRepo repository.SubmissionRepository, logger zerolog.Logger) StudentDashboardService {
	return &studentDashboardService{
		students:    studentRepo,
		submissions: submissionRepo,
		logger:      logger.With().Str("component", "student_dashboard_service").Logger(),
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, actor Actor) (dto.StudentDashboardResponse, error) {
	student, err := s.students.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentDashboardResponse{}, ErrStudentNotFound
		}
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{StudentID: &student.ID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	return buildStudentDashboard(submissions), nil
}

func buildStudentDashboard(submissions []models.Submission) dto.StudentDashboardResponse {
	graded := make([]models.Submission, 0, len(submissions))
	for _, submission := range submissions {
		if submission.IsGraded() && submission.Marks != nil {
			graded = append(graded, submission)
		}
	}

	// Oldest first, so the trend reads left to right.
	sort.Slice(graded, func(i, j int) bool {
		iAt := graded[i].GradedAt
		jAt := graded[j].GradedAt
		if iAt == nil || jAt == nil {
			return jAt != nil
		}
		return iAt.Before(*jAt)
	})

	var total float64
	scoreData := make([]dto.ScorePoint, 0, len(graded))
	for _, submission := range graded {
		total += *submission.Marks
		scoreData = append(scoreData, dto.ScorePoint{
			Name:  submission.Exam.Title,
			Marks: *submission.Marks,
		})
	}

	average := 0
	if len(graded) > 0 {
		average = int(math.Round(total / float64(len(graded))))
	}

	recentlyGraded := make([]dto.GradedExamEntry, 0, 5)
	for i := len(graded) - 1; i >= 0 && len(recentlyGraded) < 5; i-- {
		submission := graded[i]
		recentlyGraded = append(recentlyGraded, dto.GradedExamEntry{
			SubmissionID: submission.ID,
			ExamID:       submission.ExamID,
			ExamTitle:    submission.Exam.Title,
			Marks:        submission.Marks,
			GradedAt:     submission.GradedAt,
		})
	}

	return dto.StudentDashboardResponse{
		Statistics: dto.StudentStatistics{
			TotalExamsTaken: int64(len(submissions)),
			AverageScore:    average,
			PendingGrading:  int64(len(submissions) - len(graded)),
		},
		RecentlyGraded: recentlyGraded,
		ScoreData:      scoreData,
	}
}
