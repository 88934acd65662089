package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is a student's answer artifact for one exam. The composite
// unique index on (student_id, exam_id) is the hard constraint backing
// the at-most-one-submission-per-pair invariant; batch uploads rely on it
// for atomic insert-or-overwrite semantics.
type Submission struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	StudentID       uint           `gorm:"not null;uniqueIndex:idx_submissions_student_exam" json:"student_id"`
	ExamID          uint           `gorm:"not null;uniqueIndex:idx_submissions_student_exam" json:"exam_id"`
	FileLink        string         `gorm:"size:512" json:"file_link"`
	OriginalAnswers datatypes.JSON `json:"original_answers"`
	Status          string         `gorm:"size:32;not null" json:"status"`
	Marks           *float64       `json:"marks"`
	MatchPercentage *float64       `json:"match_percentage"`
	Feedback        *string        `gorm:"type:text" json:"feedback"`
	GradedAt        *time.Time     `json:"graded_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Student         Student        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Exam            Exam           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam"`
}

const (
	// SubmissionStatusPending indicates the submission awaits grading.
	SubmissionStatusPending = "pending"
	// SubmissionStatusGraded indicates the submission has been evaluated.
	SubmissionStatusGraded = "graded"
)

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
