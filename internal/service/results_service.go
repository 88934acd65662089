package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/repository"
)

// ResultsService exposes per-exam result sheets to the owning instructor,
// including a CSV rendition for download.
type ResultsService interface {
	ListByExam(ctx context.Context, actor Actor, examID uint) ([]dto.ExamResultRow, error)
	ExportCSV(ctx context.Context, actor Actor, examID uint) (filename string, content []byte, err error)
}

type resultsService struct {
	instructors repository.InstructorRepository
	examRepo    repository.ExamRepository
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewResultsService constructs a ResultsService instance.
func NewResultsService(instructorRepo repository.InstructorRepository, examRepo repository.ExamRepository, submissionRepo repository.SubmissionRepository, logger zerolog.Logger) ResultsService {
	return &resultsService{
		instructors: instructorRepo,
		examRepo:    examRepo,
		submissions: submissionRepo,
		logger:      logger.With().Str("component", "results_service").Logger(),
		now:         time.Now,
	}
}

func (s *resultsService) ListByExam(ctx context.Context, actor Actor, examID uint) ([]dto.ExamResultRow, error) {
	if _, err := s.ownedExam(ctx, actor, examID); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{ExamID: &examID})
	if err != nil {
		return nil, err
	}

	return dto.NewExamResultRows(submissions), nil
}

// ExportCSV renders the exam's result sheet as CSV. Column layout follows
// the downloadable report: student identity, marks, match percentage,
// feedback, status and timestamps.
func (s *resultsService) ExportCSV(ctx context.Context, actor Actor, examID uint) (string, []byte, error) {
	exam, err := s.ownedExam(ctx, actor, examID)
	if err != nil {
		return "", nil, err
	}

	rows, err := s.ListByExam(ctx, actor, examID)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Student Name", "Student ID", "Email", "Marks", "Match Percentage (%)", "Feedback", "Status", "Submitted At", "Graded At"}
	if err := writer.Write(header); err != nil {
		return "", nil, err
	}

	for _, row := range rows {
		record := []string{
			row.StudentName,
			row.StudentUserID,
			row.StudentEmail,
			formatOptionalFloat(row.Marks),
			formatOptionalFloat(row.MatchPercentage),
			formatOptionalString(row.Feedback),
			row.Status,
			row.SubmittedAt.Format(time.RFC3339),
			formatOptionalTime(row.GradedAt),
		}
		if err := writer.Write(record); err != nil {
			return "", nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", nil, err
	}

	filename := fmt.Sprintf("%s_results_%d.csv", sanitizeTitle(exam.Title), s.now().Unix())

	return filename, buf.Bytes(), nil
}

func (s *resultsService) ownedExam(ctx context.Context, actor Actor, examID uint) (examSummary, error) {
	instructor, err := s.instructors.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return examSummary{}, ErrInstructorNotFound
		}
		return examSummary{}, err
	}

	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return examSummary{}, ErrExamNotFound
		}
		return examSummary{}, err
	}

	if exam.InstructorID != instructor.ID {
		return examSummary{}, ErrForbidden
	}

	return examSummary{ID: exam.ID, Title: exam.Title}, nil
}

type examSummary struct {
	ID    uint
	Title string
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func formatOptionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatOptionalTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(time.RFC3339)
}

func sanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, title)

	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		cleaned = "exam"
	}

	return cleaned
}
