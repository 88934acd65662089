package dto

import (
	"time"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// ExamResultRow is one line of an exam's result sheet.
type ExamResultRow struct {
	SubmissionID    uint       `json:"submission_id"`
	StudentUserID   string     `json:"student_user_id"`
	StudentName     string     `json:"student_name"`
	StudentEmail    string     `json:"student_email"`
	Marks           *float64   `json:"marks"`
	MatchPercentage *float64   `json:"match_percentage"`
	Feedback        *string    `json:"feedback"`
	Status          string     `json:"status"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	GradedAt        *time.Time `json:"graded_at"`
}

// NewExamResultRows converts submissions into result-sheet rows.
func NewExamResultRows(submissions []models.Submission) []ExamResultRow {
	rows := make([]ExamResultRow, 0, len(submissions))
	for _, submission := range submissions {
		rows = append(rows, ExamResultRow{
			SubmissionID:    submission.ID,
			StudentUserID:   submission.Student.UserID,
			StudentName:     submission.Student.Name,
			StudentEmail:    submission.Student.Email,
			Marks:           submission.Marks,
			MatchPercentage: submission.MatchPercentage,
			Feedback:        submission.Feedback,
			Status:          submission.Status,
			SubmittedAt:     submission.CreatedAt,
			GradedAt:        submission.GradedAt,
		})
	}

	return rows
}
