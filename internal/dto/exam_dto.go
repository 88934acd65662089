package dto

import (
	"time"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// ExamCreateRequest describes the payload for creating an exam.
type ExamCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Type        string     `json:"type" validate:"required,oneof=mcq true_false short_answer mixed"`
	Deadline    *time.Time `json:"deadline"`
	Rubric      string     `json:"rubric" validate:"omitempty,max=5000"`
	CourseID    *uint      `json:"course_id" validate:"omitempty,gt=0"`
}

// ExamUpdateRequest carries a partial, non-destructive exam update.
type ExamUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Type        *string    `json:"type" validate:"omitempty,oneof=mcq true_false short_answer mixed"`
	Deadline    *time.Time `json:"deadline"`
	Rubric      *string    `json:"rubric" validate:"omitempty,max=5000"`
	CourseID    *uint      `json:"course_id" validate:"omitempty,gt=0"`
	IsActive    *bool      `json:"is_active"`
}

// ExamResponse is returned to API clients when viewing exams.
type ExamResponse struct {
	ID               uint            `json:"id"`
	InstructorID     uint            `json:"instructor_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Type             string          `json:"type"`
	Deadline         *time.Time      `json:"deadline"`
	ModelAnswerLink  string          `json:"model_answer_link"`
	Rubric           string          `json:"rubric"`
	IsActive         bool            `json:"is_active"`
	Course           *CourseResponse `json:"course,omitempty"`
	TotalSubmissions int64           `json:"total_submissions"`
	GradedCount      int64           `json:"graded_count"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CourseResponse summarizes a course in exam responses.
type CourseResponse struct {
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// NewExamResponse converts an Exam model into a DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	response := ExamResponse{
		ID:              model.ID,
		InstructorID:    model.InstructorID,
		Title:           model.Title,
		Description:     model.Description,
		Type:            model.Type,
		Deadline:        model.Deadline,
		ModelAnswerLink: model.ModelAnswerLink,
		Rubric:          model.Rubric,
		IsActive:        model.IsActive,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}

	if model.Course != nil && model.Course.ID != 0 {
		response.Course = &CourseResponse{
			ID:    model.Course.ID,
			Code:  model.Course.Code,
			Title: model.Course.Title,
		}
	}

	return response
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, CourseResponse{
			ID:    course.ID,
			Code:  course.Code,
			Title: course.Title,
		})
	}

	return responses
}
