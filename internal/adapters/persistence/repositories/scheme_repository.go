package repositories

import (
	"context"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SchemeRepository handles government scheme master data access
type SchemeRepository struct {
	db *gorm.DB
}

// NewSchemeRepository creates a new scheme repository
func NewSchemeRepository(db *gorm.DB) *SchemeRepository {
	return &SchemeRepository{db: db}
}

// Create creates a new scheme
func (r *SchemeRepository) Create(ctx context.Context, scheme *models.Scheme) error {
	return r.db.WithContext(ctx).Create(scheme).Error
}

// GetByID gets a scheme by ID
func (r *SchemeRepository) GetByID(ctx context.Context, id uint) (*models.Scheme, error) {
	var scheme models.Scheme
	err := r.db.WithContext(ctx).First(&scheme, id).Error
	if err != nil {
		return nil, err
	}
	return &scheme, nil
}

// GetByCode gets a scheme by its code
func (r *SchemeRepository) GetByCode(ctx context.Context, code string) (*models.Scheme, error) {
	var scheme models.Scheme
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&scheme).Error
	if err != nil {
		return nil, err
	}
	return &scheme, nil
}

// ListActive lists active schemes
func (r *SchemeRepository) ListActive(ctx context.Context) ([]*models.Scheme, error) {
	var schemes []*models.Scheme
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&schemes).Error
	return schemes, err
}

// List lists all schemes with pagination
func (r *SchemeRepository) List(ctx context.Context, offset, limit int) ([]*models.Scheme, int64, error) {
	var schemes []*models.Scheme
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Scheme{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("code ASC").
		Offset(offset).
		Limit(limit).
		Find(&schemes).Error

	return schemes, total, err
}

// Update updates a scheme
func (r *SchemeRepository) Update(ctx context.Context, scheme *models.Scheme) error {
	return r.db.WithContext(ctx).Save(scheme).Error
}

// Delete soft deletes a scheme
func (r *SchemeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Scheme{}, id).Error
}
