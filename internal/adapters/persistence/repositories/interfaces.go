package repositories

import (
	"context"

	"consultease/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ListByManager(ctx context.Context, managerID uint) ([]*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetLastLogin(ctx context.Context, id uint) error
	ClearLastLogin(ctx context.Context, id uint) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// ClientRepository defines client repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uint) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	List(ctx context.Context, offset, limit int) ([]*models.Client, int64, error)
	ListByAssignee(ctx context.Context, userID uint, offset, limit int) ([]*models.Client, int64, error)
	ListByManager(ctx context.Context, managerID uint, offset, limit int) ([]*models.Client, int64, error)
	ListPending(ctx context.Context, offset, limit int) ([]*models.Client, int64, error)
	ApproveIfPending(ctx context.Context, id, approverID uint) (bool, error)
	RejectIfPending(ctx context.Context, id, approverID uint, reason string) (bool, error)
	UpdateFigures(ctx context.Context, id uint, figures map[string]interface{}) error
	ApplyField(ctx context.Context, id uint, field, value string) error
	SetAccount(ctx context.Context, id, userID uint) error
}

// BookingRepository defines booking repository interface
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context, offset, limit int) ([]*models.Booking, int64, error)
	ListByClient(ctx context.Context, clientID uint) ([]*models.Booking, error)
	MarkPaidIfActive(ctx context.Context, id uint) (bool, error)
	UpdateFigures(ctx context.Context, id uint, figures map[string]interface{}) error
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByReferenceID(ctx context.Context, referenceID string) (*models.Payment, error)
	List(ctx context.Context, offset, limit int) ([]*models.Payment, int64, error)
	ListByClient(ctx context.Context, clientID uint) ([]*models.Payment, error)
	ListByBooking(ctx context.Context, bookingID uint) ([]*models.Payment, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.Payment, int64, error)
	TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error)
	SumCapturedByBooking(ctx context.Context, bookingID uint) (float64, error)
}

// EditRequestRepository defines edit request repository interface
type EditRequestRepository interface {
	Create(ctx context.Context, req *models.EditRequest) error
	GetByID(ctx context.Context, id uint) (*models.EditRequest, error)
	List(ctx context.Context, offset, limit int) ([]*models.EditRequest, int64, error)
	ListByStatus(ctx context.Context, status string, offset, limit int) ([]*models.EditRequest, int64, error)
	ListByRequester(ctx context.Context, userID uint, offset, limit int) ([]*models.EditRequest, int64, error)
	TransitionStatus(ctx context.Context, id uint, from, to string, updates map[string]interface{}) (bool, error)
	ApproveAndApply(ctx context.Context, req *models.EditRequest, approverID uint, notes string) (bool, error)
}

// CredentialRepository defines client credential repository interface
type CredentialRepository interface {
	Create(ctx context.Context, cred *models.ClientCredential) error
	GetByClientID(ctx context.Context, clientID uint) (*models.ClientCredential, error)
	UpdateContact(ctx context.Context, id uint, username, email string) error
	MarkSent(ctx context.Context, id, sentBy uint) error
}

// RevenueEntryRepository defines revenue ledger repository interface
type RevenueEntryRepository interface {
	Create(ctx context.Context, entry *models.RevenueEntry) error
	ListByClient(ctx context.Context, clientID uint, offset, limit int) ([]*models.RevenueEntry, int64, error)
}
