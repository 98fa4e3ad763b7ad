package repositories

import (
	"context"
	"time"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID gets a client by ID with relations
func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("SalesRep").
		Preload("AssignedManager").
		Preload("Approver").
		First(&client, id).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Update updates a client
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// List lists all clients with pagination
func (r *clientRepository) List(ctx context.Context, offset, limit int) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("SalesRep").
		Preload("AssignedManager").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&clients).Error

	return clients, total, err
}

// ListByAssignee lists clients assigned to a sales rep
func (r *clientRepository) ListByAssignee(ctx context.Context, userID uint, offset, limit int) ([]*models.Client, int64, error) {
	return r.listWhere(ctx, "assigned_to = ?", []interface{}{userID}, offset, limit)
}

// ListByManager lists clients whose team rolls up to a manager
func (r *clientRepository) ListByManager(ctx context.Context, managerID uint, offset, limit int) ([]*models.Client, int64, error) {
	return r.listWhere(ctx, "assigned_manager_id = ?", []interface{}{managerID}, offset, limit)
}

// ListPending lists clients awaiting an approval decision
func (r *clientRepository) ListPending(ctx context.Context, offset, limit int) ([]*models.Client, int64, error) {
	return r.listWhere(ctx, "is_approved = ? AND (rejection_reason IS NULL OR rejection_reason = '')", []interface{}{false}, offset, limit)
}

func (r *clientRepository) listWhere(ctx context.Context, cond string, args []interface{}, offset, limit int) ([]*models.Client, int64, error) {
	var clients []*models.Client
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Client{}).Where(cond, args...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("SalesRep").
		Preload("AssignedManager").
		Where(cond, args...).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&clients).Error

	return clients, total, err
}

// ApproveIfPending marks a pending client approved. The WHERE clause is
// the guard: a client already approved or rejected matches zero rows, so
// a concurrent second approval is a no-op. Returns whether this call won.
func (r *clientRepository) ApproveIfPending(ctx context.Context, id, approverID uint) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Where("is_approved = ?", false).
		Where("rejection_reason IS NULL OR rejection_reason = ''").
		Updates(map[string]interface{}{
			"is_approved": true,
			"approved_by": approverID,
			"approved_at": &now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RejectIfPending records a rejection on a pending client. Same
// zero-rows guard as ApproveIfPending.
func (r *clientRepository) RejectIfPending(ctx context.Context, id, approverID uint, reason string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Where("is_approved = ?", false).
		Where("rejection_reason IS NULL OR rejection_reason = ''").
		Updates(map[string]interface{}{
			"rejection_reason": reason,
			"approved_by":      approverID,
			"approved_at":      &now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateFigures writes the revenue columns only. Callers build the map
// from a normalized figure set so partial writes cannot skew totals.
func (r *clientRepository) UpdateFigures(ctx context.Context, id uint, figures map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(figures).Error
}

// ApplyField writes a single whitelisted column. Used when applying an
// approved edit request outside the combined approve-and-apply path.
func (r *clientRepository) ApplyField(ctx context.Context, id uint, field, value string) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Update(field, value).Error
}

// SetAccount links a login account to the client
func (r *clientRepository) SetAccount(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Update("user_id", userID).Error
}
