package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment service errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
)

// PaymentService handles payment lifecycle business logic
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	authz       *AuthzService
	revenueSvc  *RevenueService
	notifier    Notifier
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	authz *AuthzService,
	revenueSvc *RevenueService,
	notifier Notifier,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		authz:       authz,
		revenueSvc:  revenueSvc,
		notifier:    notifier,
	}
}

// RecordPaymentInput represents payment recording input
type RecordPaymentInput struct {
	BookingID uint    `json:"booking_id" validate:"required"`
	ClientID  uint    `json:"client_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// TransitionPaymentInput represents a status transition request
type TransitionPaymentInput struct {
	ToStatus string `json:"to_status" validate:"required"`
	Reason   string `json:"reason"`
}

// RecordPayment records an incoming payment in PENDING state
func (s *PaymentService) RecordPayment(ctx context.Context, actor *domain.Actor, input *RecordPaymentInput) (*models.PaymentResponse, error) {
	// 1. Team-scope on the owning client
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 2. Create with a unique reference
	payment := &models.Payment{
		BookingID:   input.BookingID,
		ClientID:    input.ClientID,
		Amount:      input.Amount,
		Status:      domain.PaymentPending,
		ReceivedBy:  actor.UserID,
		ReferenceID: "PAY-" + uuid.New().String(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	log.Printf("✅ Payment recorded: %s %.2f (booking: %d)", payment.ReferenceID, payment.Amount, payment.BookingID)
	return payment.ToResponse(), nil
}

// GetPayment gets a payment the actor is allowed to see
func (s *PaymentService) GetPayment(ctx context.Context, actor *domain.Actor, id uint) (*models.PaymentResponse, error) {
	payment, err := s.loadScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return payment.ToResponse(), nil
}

// ListPaymentsByClient lists payments under a client
func (s *PaymentService) ListPaymentsByClient(ctx context.Context, actor *domain.Actor, clientID uint) ([]*models.PaymentResponse, error) {
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	payments, err := s.paymentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = p.ToResponse()
	}
	return responses, nil
}

// Transition moves a payment along its lifecycle. The transition table
// decides what is reachable; the conditional UPDATE decides who wins
// when two requests race. Exactly one caller observes the side effects.
func (s *PaymentService) Transition(ctx context.Context, actor *domain.Actor, id uint, input *TransitionPaymentInput) (*models.PaymentResponse, error) {
	to := strings.ToUpper(strings.TrimSpace(input.ToStatus))

	// 1. Load and team-scope
	payment, err := s.loadScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// 2. Every transition is reserved for manager and above. FAILED is a
	// terminal rejection and the rest move money; none belong to sales.
	if !s.authz.CanDecide(actor) {
		return nil, domain.ErrAccessDenied
	}

	// 3. A failure must carry a reason
	if to == domain.PaymentFailed && strings.TrimSpace(input.Reason) == "" {
		return nil, domain.ErrReasonRequired
	}

	// 4. Reject unreachable transitions up front
	if !domain.ValidPaymentTransition(payment.Status, to) {
		return payment.ToResponse(), domain.ErrInvalidTransition
	}

	// 5. Build the accompanying column writes
	updates := map[string]interface{}{
		"resolved_by": actor.UserID,
	}
	if to == domain.PaymentCaptured {
		now := time.Now()
		updates["payment_date"] = &now
	}
	if input.Reason != "" {
		updates["rejection_reason"] = input.Reason
	}

	// 6. Claim the transition
	won, err := s.paymentRepo.TransitionStatus(ctx, id, payment.Status, to, updates)
	if err != nil {
		return nil, err
	}
	if !won {
		return payment.ToResponse(), domain.ErrAlreadyProcessed
	}

	log.Printf("✅ Payment %s: %s → %s by user %d", payment.ReferenceID, payment.Status, to, actor.UserID)

	// 7. Capture settles money: resync figures and announce once
	if to == domain.PaymentCaptured {
		s.settleCapture(ctx, payment, actor.UserID)
	}

	updated, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return payment.ToResponse(), nil
	}
	return updated.ToResponse(), nil
}

// settleCapture runs the post-capture side effects. Figure syncs are
// required; the notification is a single best-effort attempt.
func (s *PaymentService) settleCapture(ctx context.Context, payment *models.Payment, actorID uint) {
	if _, _, err := s.revenueSvc.SyncBooking(ctx, payment.BookingID, actorID); err != nil {
		log.Printf("❌ Booking figure sync failed after capture %s: %v", payment.ReferenceID, err)
	}
	if _, err := s.revenueSvc.SyncClient(ctx, payment.ClientID, models.RevenueSourcePayments, actorID); err != nil {
		log.Printf("❌ Client figure sync failed after capture %s: %v", payment.ReferenceID, err)
	}
	if err := s.notifier.NotifyPaymentCaptured(payment); err != nil {
		log.Printf("⚠️ Capture notification failed for %s: %v", payment.ReferenceID, err)
	}
}

// loadScoped loads a payment and applies team scoping via the user who
// recorded it. A payment stays with its recorder's reporting line even
// if the client is later reassigned.
func (s *PaymentService) loadScoped(ctx context.Context, actor *domain.Actor, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if err := s.authz.CheckRecorderScope(ctx, actor, payment.ReceivedBy); err != nil {
		return nil, err
	}

	return payment, nil
}
