package repositories

import (
	"context"
	"time"

	"consultease/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new client credential repository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

// Create creates a credential record. The unique index on client_id
// makes a duplicate issuance fail loudly rather than silently stacking.
func (r *credentialRepository) Create(ctx context.Context, cred *models.ClientCredential) error {
	return r.db.WithContext(ctx).Create(cred).Error
}

// GetByClientID gets the credential issued for a client
func (r *credentialRepository) GetByClientID(ctx context.Context, clientID uint) (*models.ClientCredential, error) {
	var cred models.ClientCredential
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// UpdateContact refreshes the delivery username/email. The secret is
// never touched after issuance.
func (r *credentialRepository) UpdateContact(ctx context.Context, id uint, username, email string) error {
	return r.db.WithContext(ctx).
		Model(&models.ClientCredential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"username": username,
			"email":    email,
		}).Error
}

// MarkSent records that the credential was delivered to the client
func (r *credentialRepository) MarkSent(ctx context.Context, id, sentBy uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.ClientCredential{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_sent": true,
			"sent_by": sentBy,
			"sent_at": &now,
		}).Error
}
