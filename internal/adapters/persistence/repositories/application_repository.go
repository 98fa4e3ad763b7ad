package repositories

import (
	"context"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ApplicationRepository handles funding application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID with relations
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Scheme").
		First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByClient lists applications filed for a client
func (r *ApplicationRepository) ListByClient(ctx context.Context, clientID uint) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Scheme").
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// List lists all applications with pagination
func (r *ApplicationRepository) List(ctx context.Context, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Scheme").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// UpdateStatus moves an application between workflow statuses with a
// conditional UPDATE guard
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update updates an application
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}
