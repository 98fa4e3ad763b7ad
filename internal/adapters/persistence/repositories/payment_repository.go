package repositories

import (
	"context"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID with relations
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Client").
		Preload("Receiver").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByReferenceID gets a payment by its external reference
func (r *paymentRepository) GetByReferenceID(ctx context.Context, referenceID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// List lists all payments with pagination
func (r *paymentRepository) List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Receiver").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error

	return payments, total, err
}

// ListByClient lists payments under a client
func (r *paymentRepository) ListByClient(ctx context.Context, clientID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// ListByBooking lists payments under a booking
func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID uint) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

// ListByStatus lists payments in a given status
func (r *paymentRepository) ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("status = ?", status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("Booking").
		Preload("Receiver").
		Where("status = ?", status).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error

	return payments, total, err
}

// TransitionStatus moves a payment from one status to another in a single
// conditional UPDATE. The from-status in the WHERE clause is the guard:
// if another request already moved the record, zero rows match and this
// call reports false without touching anything.
func (r *paymentRepository) TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Where("status = ?", from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SumCapturedByBooking sums captured payment amounts for a booking
func (r *paymentRepository) SumCapturedByBooking(ctx context.Context, bookingID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("booking_id = ?", bookingID).
		Where("status = ?", domain.PaymentCaptured).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
