package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-maker/internal/models"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(upload *models.SkillMatrixUpload) error
	FindByID(id uuid.UUID) (*models.SkillMatrixUpload, error)
	List(limit int) ([]models.SkillMatrixUpload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// Create implements UploadRepository.
func (r *uploadRepository) Create(upload *models.SkillMatrixUpload) error {
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}

	return nil
}

// FindByID implements UploadRepository.
func (r *uploadRepository) FindByID(id uuid.UUID) (*models.SkillMatrixUpload, error) {
	var upload models.SkillMatrixUpload
	if err := r.db.Where("id = ?", id).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}

		return nil, fmt.Errorf("failed to find upload: %w", err)
	}

	return &upload, nil
}

// List implements UploadRepository. Newest uploads come first.
func (r *uploadRepository) List(limit int) ([]models.SkillMatrixUpload, error) {
	if limit <= 0 {
		limit = 20
	}

	var uploads []models.SkillMatrixUpload
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	return uploads, nil
}
