package dto

import (
	"time"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// SubmissionCreateRequest describes a student's text-answer submission.
type SubmissionCreateRequest struct {
	ExamID         uint   `json:"exam_id" validate:"required,gt=0"`
	OriginalAnswer string `json:"original_answer" validate:"required,min=1"`
}

// GradeSubmissionRequest carries instructor-supplied grading values.
type GradeSubmissionRequest struct {
	Marks           float64  `json:"marks" validate:"gte=0"`
	Feedback        string   `json:"feedback" validate:"omitempty,max=5000"`
	MatchPercentage *float64 `json:"match_percentage" validate:"omitempty,gte=0,lte=100"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID              uint       `json:"id"`
	StudentID       uint       `json:"student_id"`
	ExamID          uint       `json:"exam_id"`
	FileLink        string     `json:"file_link"`
	Status          string     `json:"status"`
	Marks           *float64   `json:"marks"`
	MatchPercentage *float64   `json:"match_percentage"`
	Feedback        *string    `json:"feedback"`
	GradedAt        *time.Time `json:"graded_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Exam            ExamLite   `json:"exam"`
	Student         StudentLite `json:"student"`
}

// ExamLite summarizes an exam in submission responses.
type ExamLite struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID     uint   `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:              model.ID,
		StudentID:       model.StudentID,
		ExamID:          model.ExamID,
		FileLink:        model.FileLink,
		Status:          model.Status,
		Marks:           model.Marks,
		MatchPercentage: model.MatchPercentage,
		Feedback:        model.Feedback,
		GradedAt:        model.GradedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.Exam.ID != 0 {
		response.Exam = ExamLite{
			ID:    model.Exam.ID,
			Title: model.Exam.Title,
			Type:  model.Exam.Type,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:     model.Student.ID,
			UserID: model.Student.UserID,
			Name:   model.Student.Name,
			Email:  model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
