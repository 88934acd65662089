package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// SubmissionFilter narrows submission queries. InstructorID scopes the
// query to submissions whose exam belongs to that instructor.
type SubmissionFilter struct {
	ExamID       *uint
	StudentID    *uint
	InstructorID *uint
	Status       *string
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByStudentExam(ctx context.Context, studentID, examID uint) (models.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	Count(ctx context.Context, filter SubmissionFilter) (int64, error)
	GradedMarks(ctx context.Context, filter SubmissionFilter) ([]float64, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	UpsertByStudentExam(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Exam").
		Preload("Student")
}

func applySubmissionFilter(query *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.ExamID != nil {
		query = query.Where("submissions.exam_id = ?", *filter.ExamID)
	}

	if filter.StudentID != nil {
		query = query.Where("submissions.student_id = ?", *filter.StudentID)
	}

	if filter.InstructorID != nil {
		query = query.Joins("JOIN exams ON exams.id = submissions.exam_id").
			Where("exams.instructor_id = ?", *filter.InstructorID)
	}

	if filter.Status != nil {
		query = query.Where("submissions.status = ?", *filter.Status)
	}

	return query
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByStudentExam(ctx context.Context, studentID, examID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("submissions.student_id = ?", studentID).
		Where("submissions.exam_id = ?", examID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	var submissions []models.Submission
	query := applySubmissionFilter(r.baseQuery(ctx), filter)
	if err := query.Order("submissions.created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) Count(ctx context.Context, filter SubmissionFilter) (int64, error) {
	var total int64
	query := applySubmissionFilter(r.db.WithContext(ctx).Model(&models.Submission{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

// GradedMarks returns the marks of graded submissions matching the filter,
// skipping rows whose marks column is null.
func (r *submissionRepository) GradedMarks(ctx context.Context, filter SubmissionFilter) ([]float64, error) {
	var marks []float64
	query := applySubmissionFilter(r.db.WithContext(ctx).Model(&models.Submission{}), filter)
	if err := query.
		Where("submissions.status = ?", models.SubmissionStatusGraded).
		Where("submissions.marks IS NOT NULL").
		Pluck("submissions.marks", &marks).Error; err != nil {
		return nil, err
	}

	return marks, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

// UpsertByStudentExam inserts the submission or, when a row already exists
// for the (student_id, exam_id) key, replaces its file reference and resets
// it to pending, clearing any prior grade. The conflict target is the
// unique composite index, so concurrent uploads for the same pair cannot
// produce duplicate rows.
func (r *submissionRepository) UpsertByStudentExam(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "exam_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"file_link":        submission.FileLink,
			"status":           models.SubmissionStatusPending,
			"marks":            nil,
			"match_percentage": nil,
			"feedback":         nil,
			"graded_at":        nil,
			"updated_at":       time.Now(),
		}),
	}).Create(submission).Error
}
