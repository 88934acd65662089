package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// ExamRepository defines data operations for exams.
type ExamRepository interface {
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	ListByInstructor(ctx context.Context, instructorID uint) ([]models.Exam, error)
	ListRecentByInstructor(ctx context.Context, instructorID uint, limit int) ([]models.Exam, error)
	ListActive(ctx context.Context) ([]models.Exam, error)
	CountByInstructor(ctx context.Context, instructorID uint) (int64, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Exam{}).Preload("Course")
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.baseQuery(ctx).First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) ListByInstructor(ctx context.Context, instructorID uint) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.baseQuery(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListRecentByInstructor(ctx context.Context, instructorID uint, limit int) ([]models.Exam, error) {
	if limit <= 0 {
		limit = 5
	}

	var exams []models.Exam
	if err := r.baseQuery(ctx).
		Where("instructor_id = ?", instructorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListActive(ctx context.Context) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.baseQuery(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) CountByInstructor(ctx context.Context, instructorID uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Exam{}).
		Where("instructor_id = ?", instructorID).
		Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepository) Update(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}

// Delete removes the exam row. Submissions and grievances referencing it
// are removed by the foreign-key cascade.
func (r *examRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Exam{}, id).Error
}
