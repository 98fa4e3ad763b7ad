package repositories

import (
	"context"
	"time"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/core/domain"

	"gorm.io/gorm"
)

// editRequestRepository implements EditRequestRepository interface
type editRequestRepository struct {
	db *gorm.DB
}

// NewEditRequestRepository creates a new edit request repository
func NewEditRequestRepository(db *gorm.DB) EditRequestRepository {
	return &editRequestRepository{db: db}
}

// Create creates a new edit request
func (r *editRequestRepository) Create(ctx context.Context, req *models.EditRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID gets an edit request by ID with relations
func (r *editRequestRepository) GetByID(ctx context.Context, id uint) (*models.EditRequest, error) {
	var req models.EditRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Approver").
		First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// List lists all edit requests with pagination
func (r *editRequestRepository) List(ctx context.Context, offset, limit int) ([]*models.EditRequest, int64, error) {
	return r.listWhere(ctx, "", nil, offset, limit)
}

// ListByStatus lists edit requests in a given status
func (r *editRequestRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.EditRequest, int64, error) {
	return r.listWhere(ctx, "status = ?", []interface{}{status}, offset, limit)
}

// ListByRequester lists edit requests raised by a user
func (r *editRequestRepository) ListByRequester(ctx context.Context, userID uint, offset, limit int) ([]*models.EditRequest, int64, error) {
	return r.listWhere(ctx, "requested_by = ?", []interface{}{userID}, offset, limit)
}

func (r *editRequestRepository) listWhere(ctx context.Context, cond string, args []interface{}, offset, limit int) ([]*models.EditRequest, int64, error) {
	var reqs []*models.EditRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.EditRequest{})
	if cond != "" {
		query = query.Where(cond, args...)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Approver")
	if cond != "" {
		listQuery = listQuery.Where(cond, args...)
	}
	err := listQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reqs).Error

	return reqs, total, err
}

// TransitionStatus moves an edit request between statuses with the same
// conditional UPDATE guard as payments. Used for rejection.
func (r *editRequestRepository) TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := r.db.WithContext(ctx).
		Model(&models.EditRequest{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ApproveAndApply approves a pending edit request and writes the
// requested value to the target client column in one transaction. The
// caller has already validated FieldName against the editable whitelist.
// Returns false when the request was no longer pending.
func (r *editRequestRepository) ApproveAndApply(ctx context.Context, req *models.EditRequest, approverID uint, notes string) (bool, error) {
	won := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// 1. Claim the pending request
		result := tx.Model(&models.EditRequest{}).
			Where("id = ?", req.ID).
			Where("status = ?", domain.EditRequestPending).
			Updates(map[string]interface{}{
				"status":         domain.EditRequestApplied,
				"approved_by":    approverID,
				"approval_notes": notes,
				"approval_date":  &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race, nothing to apply
			return nil
		}

		// 2. Apply the change to the target entity
		if err := tx.Table("clients").
			Where("id = ?", req.EntityID).
			Update(req.FieldName, req.RequestedValue).Error; err != nil {
			return err
		}

		won = true
		return nil
	})
	return won, err
}
