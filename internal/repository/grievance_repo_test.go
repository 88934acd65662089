package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

func seedGrievanceGraph(t *testing.T, db *gorm.DB) (models.Student, models.Exam, models.Submission) {
	t.Helper()

	student, exam := seedStudentExam(t, db)

	marks := 61.0
	submission := models.Submission{StudentID: student.ID, ExamID: exam.ID, Status: models.SubmissionStatusGraded, Marks: &marks}
	require.NoError(t, db.Create(&submission).Error)

	return student, exam, submission
}

func TestGrievanceUniquePerSubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrievanceRepository(db)
	student, exam, submission := seedGrievanceGraph(t, db)

	first := models.Grievance{
		StudentID:    student.ID,
		ExamID:       exam.ID,
		SubmissionID: submission.ID,
		Type:         models.GrievanceTypeScoreDisagreement,
		Description:  "the marks awarded for question three do not match the rubric",
		Status:       models.GrievanceStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), &first))

	duplicate := models.Grievance{
		StudentID:    student.ID,
		ExamID:       exam.ID,
		SubmissionID: submission.ID,
		Type:         models.GrievanceTypeOther,
		Description:  "filing a second dispute against the very same submission",
		Status:       models.GrievanceStatusPending,
	}
	err := repo.Create(context.Background(), &duplicate)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGrievanceListByInstructorPreloads(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrievanceRepository(db)
	student, exam, submission := seedGrievanceGraph(t, db)

	grievance := models.Grievance{
		StudentID:    student.ID,
		ExamID:       exam.ID,
		SubmissionID: submission.ID,
		Type:         models.GrievanceTypeMissingAnswer,
		Description:  "my answer to question five appears to have been skipped entirely",
		Status:       models.GrievanceStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), &grievance))

	var instructorID uint
	require.NoError(t, db.Model(&models.Exam{}).Where("id = ?", exam.ID).Pluck("instructor_id", &instructorID).Error)

	listed, err := repo.ListByInstructor(context.Background(), instructorID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, student.Name, listed[0].Student.Name)
	require.Equal(t, exam.Title, listed[0].Exam.Title)
	require.NotNil(t, listed[0].Submission.Marks)

	other, err := repo.ListByInstructor(context.Background(), instructorID+100)
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestGrievanceGetBySubmissionNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrievanceRepository(db)

	_, err := repo.GetBySubmission(context.Background(), 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
