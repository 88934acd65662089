package dto

import (
	"time"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// GrievanceCreateRequest describes a student's dispute filing.
type GrievanceCreateRequest struct {
	SubmissionID   uint   `json:"submission_id" validate:"required,gt=0"`
	Type           string `json:"type" validate:"required,oneof=score_disagreement incorrect_feedback missing_answer other"`
	QuestionNumber *int   `json:"question_number" validate:"omitempty,gt=0"`
	Description    string `json:"description" validate:"required,min=50"`
}

// GrievanceActionRequest carries an instructor transition on a grievance.
type GrievanceActionRequest struct {
	Action             string `json:"action" validate:"required,oneof=respond resolve dismiss"`
	InstructorResponse string `json:"instructor_response" validate:"omitempty,max=5000"`
}

// GrievanceResponse is returned to API clients when viewing grievances.
type GrievanceResponse struct {
	ID                 uint        `json:"id"`
	SubmissionID       uint        `json:"submission_id"`
	ExamID             uint        `json:"exam_id"`
	Type               string      `json:"type"`
	QuestionNumber     *int        `json:"question_number"`
	Description        string      `json:"description"`
	Status             string      `json:"status"`
	InstructorResponse *string     `json:"instructor_response"`
	ReviewedAt         *time.Time  `json:"reviewed_at"`
	ResolvedAt         *time.Time  `json:"resolved_at"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Student            StudentLite `json:"student"`
	Exam               ExamLite    `json:"exam"`
	Submission         *SubmissionSummary `json:"submission,omitempty"`
}

// SubmissionSummary gives grievance readers the grading context.
type SubmissionSummary struct {
	ID       uint       `json:"id"`
	Marks    *float64   `json:"marks"`
	Feedback *string    `json:"feedback"`
	Status   string     `json:"status"`
	GradedAt *time.Time `json:"graded_at"`
}

// NewGrievanceResponse converts a Grievance model into a DTO.
func NewGrievanceResponse(model models.Grievance) GrievanceResponse {
	response := GrievanceResponse{
		ID:                 model.ID,
		SubmissionID:       model.SubmissionID,
		ExamID:             model.ExamID,
		Type:               model.Type,
		QuestionNumber:     model.QuestionNumber,
		Description:        model.Description,
		Status:             model.Status,
		InstructorResponse: model.InstructorResponse,
		ReviewedAt:         model.ReviewedAt,
		ResolvedAt:         model.ResolvedAt,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:     model.Student.ID,
			UserID: model.Student.UserID,
			Name:   model.Student.Name,
			Email:  model.Student.Email,
		}
	}

	if model.Exam.ID != 0 {
		response.Exam = ExamLite{
			ID:    model.Exam.ID,
			Title: model.Exam.Title,
			Type:  model.Exam.Type,
		}
	}

	if model.Submission.ID != 0 {
		response.Submission = &SubmissionSummary{
			ID:       model.Submission.ID,
			Marks:    model.Submission.Marks,
			Feedback: model.Submission.Feedback,
			Status:   model.Submission.Status,
			GradedAt: model.Submission.GradedAt,
		}
	}

	return response
}

// NewGrievanceResponseSlice converts grievance models into DTOs.
func NewGrievanceResponseSlice(models []models.Grievance) []GrievanceResponse {
	responses := make([]GrievanceResponse, 0, len(models))
	for _, grievance := range models {
		responses = append(responses, NewGrievanceResponse(grievance))
	}

	return responses
}
