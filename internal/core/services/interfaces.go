package services

import "consultease/internal/adapters/persistence/models"

// Note: AuthService implementation is in auth_service.go
// Note: UserService implementation is in user_service.go

// Notifier defines the outbound notification surface. All sends are
// best-effort: callers log failures and continue.
type Notifier interface {
	NotifyClientApproved(client *models.Client, cred *models.ClientCredential) error
	NotifyClientRejected(client *models.Client, reason string) error
	NotifyPaymentCaptured(payment *models.Payment) error
	NotifyEditRequestDecided(req *models.EditRequest) error
}
