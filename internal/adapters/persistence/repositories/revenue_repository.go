package repositories

import (
	"context"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// revenueEntryRepository implements RevenueEntryRepository interface.
// The ledger is append-only so there is no update or delete.
type revenueEntryRepository struct {
	db *gorm.DB
}

// NewRevenueEntryRepository creates a new revenue ledger repository
func NewRevenueEntryRepository(db *gorm.DB) RevenueEntryRepository {
	return &revenueEntryRepository{db: db}
}

// Create appends a ledger entry
func (r *revenueEntryRepository) Create(ctx context.Context, entry *models.RevenueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByClient lists ledger entries for a client, newest first
func (r *revenueEntryRepository) ListByClient(ctx context.Context, clientID uint, offset, limit int) ([]*models.RevenueEntry, int64, error) {
	var entries []*models.RevenueEntry
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.RevenueEntry{}).Where("client_id = ?", clientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error

	return entries, total, err
}
