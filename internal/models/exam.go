package models

import "time"

// Exam is owned by exactly one instructor and optionally linked to a course.
// Deleting an exam cascades to its submissions and grievances.
type Exam struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	InstructorID    uint       `gorm:"not null;index" json:"instructor_id"`
	CourseID        *uint      `json:"course_id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Type            string     `gorm:"size:32;not null" json:"type"`
	Deadline        *time.Time `json:"deadline"`
	ModelAnswerLink string     `gorm:"size:512" json:"model_answer_link"`
	Rubric          string     `gorm:"type:text" json:"rubric"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Instructor      Instructor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Course          *Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"course,omitempty"`
}

const (
	// ExamTypeMCQ marks a multiple-choice exam.
	ExamTypeMCQ = "mcq"
	// ExamTypeTrueFalse marks a true/false exam.
	ExamTypeTrueFalse = "true_false"
	// ExamTypeShortAnswer marks a short-answer exam.
	ExamTypeShortAnswer = "short_answer"
	// ExamTypeMixed marks an exam combining question styles.
	ExamTypeMixed = "mixed"
)

// ValidExamType reports whether t is one of the supported exam types.
func ValidExamType(t string) bool {
	switch t {
	case ExamTypeMCQ, ExamTypeTrueFalse, ExamTypeShortAnswer, ExamTypeMixed:
		return true
	default:
		return false
	}
}
