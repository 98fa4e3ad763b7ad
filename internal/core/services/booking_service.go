package services

import (
	"context"
	"errors"
	"log"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/core/domain"

	"gorm.io/gorm"
)

// Booking service errors
var (
	ErrBookingNotFound = errors.New("booking not found")
)

// BookingService handles booking business logic
type BookingService struct {
	bookingRepo repositories.BookingRepository
	authz       *AuthzService
	revenueSvc  *RevenueService
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	authz *AuthzService,
	revenueSvc *RevenueService,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		authz:       authz,
		revenueSvc:  revenueSvc,
	}
}

// CreateBookingInput represents booking creation input
type CreateBookingInput struct {
	ClientID      uint    `json:"client_id" validate:"required"`
	ServiceName   string  `json:"service_name" validate:"required,min=2,max=200"`
	PitchedAmount float64 `json:"pitched_amount" validate:"gte=0"`
	GSTPercent    float64 `json:"gst_percent"`
}

// CreateBooking creates a booking under a client the actor can reach
func (s *BookingService) CreateBooking(ctx context.Context, actor *domain.Actor, input *CreateBookingInput) (*models.Booking, error) {
	// 1. Team-scope on the owning client
	client, err := s.authz.CheckClientScopeByID(ctx, actor, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// 2. Create in ACTIVE state
	booking := &models.Booking{
		ClientID:    client.ID,
		ServiceName: input.ServiceName,
		Status:      domain.BookingActive,
		AssignedTo:  client.AssignedTo,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	// 3. Seed figures, then roll the client totals up
	if _, _, err := s.syncFigures(ctx, booking.ID, input.PitchedAmount, input.GSTPercent, actor.UserID); err != nil {
		return nil, err
	}
	if _, err := s.revenueSvc.SyncClient(ctx, client.ID, models.RevenueSourceAggregate, actor.UserID); err != nil {
		return nil, err
	}

	log.Printf("✅ Booking created: #%d %s (client: %d)", booking.ID, booking.ServiceName, client.ID)

	return s.bookingRepo.GetByID(ctx, booking.ID)
}

// syncFigures seeds the booking figures and recomputes from payments
func (s *BookingService) syncFigures(ctx context.Context, bookingID uint, pitched, gstPercent float64, actorID uint) (float64, bool, error) {
	if err := s.bookingRepo.UpdateFigures(ctx, bookingID, map[string]interface{}{
		"total_pitched_amount": pitched,
		"gst_percentage":       gstPercent,
	}); err != nil {
		return 0, false, err
	}
	figures, paid, err := s.revenueSvc.SyncBooking(ctx, bookingID, actorID)
	return figures.Total, paid, err
}

// GetBooking gets a booking the actor is allowed to see
func (s *BookingService) GetBooking(ctx context.Context, actor *domain.Actor, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if _, err := s.authz.CheckClientScopeByID(ctx, actor, booking.ClientID); err != nil {
		return nil, err
	}

	return booking, nil
}

// ListBookingsByClient lists bookings under a client
func (s *BookingService) ListBookingsByClient(ctx context.Context, actor *domain.Actor, clientID uint) ([]*models.Booking, error) {
	if _, err := s.authz.CheckClientScopeByID(ctx, actor, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.bookingRepo.ListByClient(ctx, clientID)
}

// UpdateBookingFigures updates a booking's pitched amount and GST rate,
// then resyncs the booking and its client
func (s *BookingService) UpdateBookingFigures(ctx context.Context, actor *domain.Actor, id uint, pitched, gstPercent float64) (*models.Booking, error) {
	booking, err := s.GetBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if _, _, err := s.syncFigures(ctx, id, pitched, gstPercent, actor.UserID); err != nil {
		return nil, err
	}
	if _, err := s.revenueSvc.SyncClient(ctx, booking.ClientID, models.RevenueSourceAggregate, actor.UserID); err != nil {
		return nil, err
	}

	return s.bookingRepo.GetByID(ctx, id)
}
