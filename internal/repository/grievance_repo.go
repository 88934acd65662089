package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// GrievanceRepository defines data operations for grievances.
type GrievanceRepository interface {
	GetByID(ctx context.Context, id uint) (models.Grievance, error)
	GetBySubmission(ctx context.Context, submissionID uint) (models.Grievance, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]models.Grievance, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Grievance, error)
	Create(ctx context.Context, grievance *models.Grievance) error
	Update(ctx context.Context, grievance *models.Grievance) error
}

type grievanceRepository struct {
	db *gorm.DB
}

// NewGrievanceRepository instantiates the repository.
func NewGrievanceRepository(db *gorm.DB) GrievanceRepository {
	return &grievanceRepository{db: db}
}

func (r *grievanceRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Grievance{}).
		Preload("Student").
		Preload("Exam").
		Preload("Submission")
}

func (r *grievanceRepository) GetByID(ctx context.Context, id uint) (models.Grievance, error) {
	var grievance models.Grievance
	if err := r.baseQuery(ctx).First(&grievance, id).Error; err != nil {
		return models.Grievance{}, err
	}

	return grievance, nil
}

func (r *grievanceRepository) GetBySubmission(ctx context.Context, submissionID uint) (models.Grievance, error) {
	var grievance models.Grievance
	if err := r.baseQuery(ctx).
		Where("grievances.submission_id = ?", submissionID).
		First(&grievance).Error; err != nil {
		return models.Grievance{}, err
	}

	return grievance, nil
}

func (r *grievanceRepository) ListByInstructor(ctx context.Context, instructorID uint) ([]models.Grievance, error) {
	var grievances []models.Grievance
	if err := r.baseQuery(ctx).
		Joins("JOIN exams ON exams.id = grievances.exam_id").
		Where("exams.instructor_id = ?", instructorID).
		Order("grievances.created_at DESC").
		Find(&grievances).Error; err != nil {
		return nil, err
	}

	return grievances, nil
}

func (r *grievanceRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Grievance, error) {
	var grievances []models.Grievance
	if err := r.baseQuery(ctx).
		Where("grievances.student_id = ?", studentID).
		Order("grievances.created_at DESC").
		Find(&grievances).Error; err != nil {
		return nil, err
	}

	return grievances, nil
}

func (r *grievanceRepository) Create(ctx context.Context, grievance *models.Grievance) error {
	return r.db.WithContext(ctx).Create(grievance).Error
}

func (r *grievanceRepository) Update(ctx context.Context, grievance *models.Grievance) error {
	return r.db.WithContext(ctx).Save(grievance).Error
}
