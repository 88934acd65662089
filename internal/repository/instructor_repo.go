package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/gradex-go-api/internal/models"
)

// InstructorRepository defines data operations for instructors.
type InstructorRepository interface {
	GetByID(ctx context.Context, id uint) (models.Instructor, error)
	GetByUserID(ctx context.Context, userID string) (models.Instructor, error)
	Create(ctx context.Context, instructor *models.Instructor) error
}

type instructorRepository struct {
	db *gorm.DB
}

// NewInstructorRepository instantiates the repository.
func NewInstructorRepository(db *gorm.DB) InstructorRepository {
	return &instructorRepository{db: db}
}

func (r *instructorRepository) GetByID(ctx context.Context, id uint) (models.Instructor, error) {
	var instructor models.Instructor
	if err := r.db.WithContext(ctx).First(&instructor, id).Error; err != nil {
		return models.Instructor{}, err
	}

	return instructor, nil
}

func (r *instructorRepository) GetByUserID(ctx context.Context, userID string) (models.Instructor, error) {
	var instructor models.Instructor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&instructor).Error; err != nil {
		return models.Instructor{}, err
	}

	return instructor, nil
}

func (r *instructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}
