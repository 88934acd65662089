package models

import "time"

// Grievance is a student-initiated dispute against one submission. The
// unique index on submission_id enforces at most one grievance per
// submission. Only the owning exam's instructor may transition it.
type Grievance struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	StudentID          uint       `gorm:"not null;index" json:"student_id"`
	ExamID             uint       `gorm:"not null;index" json:"exam_id"`
	SubmissionID       uint       `gorm:"not null;uniqueIndex" json:"submission_id"`
	Type               string     `gorm:"size:32;not null" json:"type"`
	QuestionNumber     *int       `json:"question_number"`
	Description        string     `gorm:"type:text;not null" json:"description"`
	Status             string     `gorm:"size:32;not null" json:"status"`
	InstructorResponse *string    `gorm:"type:text" json:"instructor_response"`
	ReviewedAt         *time.Time `json:"reviewed_at"`
	ResolvedAt         *time.Time `json:"resolved_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Student            Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Exam               Exam       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam"`
	Submission         Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"submission"`
}

const (
	// GrievanceStatusPending is the initial state of a filed grievance.
	GrievanceStatusPending = "pending"
	// GrievanceStatusUnderReview indicates the instructor has responded.
	GrievanceStatusUnderReview = "under_review"
	// GrievanceStatusResolved is terminal.
	GrievanceStatusResolved = "resolved"
	// GrievanceStatusRejected is terminal.
	GrievanceStatusRejected = "rejected"
)

const (
	// GrievanceTypeScoreDisagreement disputes the awarded marks.
	GrievanceTypeScoreDisagreement = "score_disagreement"
	// GrievanceTypeIncorrectFeedback disputes the written feedback.
	GrievanceTypeIncorrectFeedback = "incorrect_feedback"
	// GrievanceTypeMissingAnswer reports an answer that was not graded.
	GrievanceTypeMissingAnswer = "missing_answer"
	// GrievanceTypeOther covers everything else.
	GrievanceTypeOther = "other"
)

// IsClosed reports whether the grievance reached a terminal state.
func (g Grievance) IsClosed() bool {
	return g.Status == GrievanceStatusResolved || g.Status == GrievanceStatusRejected
}

// ValidGrievanceType reports whether t is one of the supported grievance types.
func ValidGrievanceType(t string) bool {
	switch t {
	case GrievanceTypeScoreDisagreement, GrievanceTypeIncorrectFeedback, GrievanceTypeMissingAnswer, GrievanceTypeOther:
		return true
	default:
		return false
	}
}
