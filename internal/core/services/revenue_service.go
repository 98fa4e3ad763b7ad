package services

import (
	"context"
	"log"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/adapters/persistence/repositories"
	"consultease/internal/pkg/revenue"
)

// RevenueService is the only writer of the pitched/GST/received/pending
// figure columns. Every write goes through revenue.Compute so the
// invariants (gst derivation, overpayment clamp, non-negative pending)
// hold no matter which flow triggered the update, and every write
// appends a ledger entry.
type RevenueService struct {
	clientRepo  repositories.ClientRepository
	bookingRepo repositories.BookingRepository
	paymentRepo repositories.PaymentRepository
	revenueRepo repositories.RevenueEntryRepository
}

// NewRevenueService creates a new revenue service
func NewRevenueService(
	clientRepo repositories.ClientRepository,
	bookingRepo repositories.BookingRepository,
	paymentRepo repositories.PaymentRepository,
	revenueRepo repositories.RevenueEntryRepository,
) *RevenueService {
	return &RevenueService{
		clientRepo:  clientRepo,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		revenueRepo: revenueRepo,
	}
}

// figuresToColumns maps a computed figure set onto the shared revenue
// columns. Clients and bookings carry the same six columns.
func figuresToColumns(f revenue.Figures) map[string]interface{} {
	return map[string]interface{}{
		"total_pitched_amount": f.Pitched,
		"gst_percentage":       f.GSTPercent,
		"gst_amount":           f.GSTAmount,
		"total_with_gst":       f.Total,
		"received_amount":      f.Received,
		"pending_amount":       f.Pending,
	}
}

// SetClientFigures writes client figures from raw inputs
func (s *RevenueService) SetClientFigures(ctx context.Context, clientID uint, pitched, gstPercent, received float64, source string, actorID uint) (revenue.Figures, error) {
	figures := revenue.Compute(revenue.Normalize(pitched, gstPercent, received))

	if err := s.clientRepo.UpdateFigures(ctx, clientID, figuresToColumns(figures)); err != nil {
		return figures, err
	}

	s.appendLedger(ctx, clientID, figures, source, actorID)
	return figures, nil
}

// SyncBooking recomputes a booking's figures from its captured payments.
// Returns the fresh figures and whether the booking became fully paid.
func (s *RevenueService) SyncBooking(ctx context.Context, bookingID uint, actorID uint) (revenue.Figures, bool, error) {
	// 1. Load the booking
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return revenue.Figures{}, false, err
	}

	// 2. Sum captured payments
	received, err := s.paymentRepo.SumCapturedByBooking(ctx, bookingID)
	if err != nil {
		return revenue.Figures{}, false, err
	}

	// 3. Recompute and persist
	figures := revenue.Compute(revenue.Normalize(booking.TotalPitchedAmount, booking.GSTPercentage, received))
	if err := s.bookingRepo.UpdateFigures(ctx, bookingID, figuresToColumns(figures)); err != nil {
		return figures, false, err
	}

	// 4. A fully settled booking flips to PAID
	fullyPaid := false
	if figures.Total > 0 && figures.Pending == 0 {
		fullyPaid, err = s.bookingRepo.MarkPaidIfActive(ctx, bookingID)
		if err != nil {
			return figures, false, err
		}
	}

	return figures, fullyPaid, nil
}

// SyncClient rolls the client's bookings up into the client figures
func (s *RevenueService) SyncClient(ctx context.Context, clientID uint, source string, actorID uint) (revenue.Figures, error) {
	// 1. Load the client and its bookings
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return revenue.Figures{}, err
	}

	bookings, err := s.bookingRepo.ListByClient(ctx, clientID)
	if err != nil {
		return revenue.Figures{}, err
	}

	// 2. No bookings: the client's own figures stand, just renormalize
	if len(bookings) == 0 {
		return s.SetClientFigures(ctx, clientID, client.TotalPitchedAmount, client.GSTPercentage, client.ReceivedAmount, source, actorID)
	}

	// 3. Aggregate booking figures
	items := make([]revenue.Figures, len(bookings))
	for i, b := range bookings {
		items[i] = revenue.Figures{
			Pitched:    b.TotalPitchedAmount,
			GSTPercent: b.GSTPercentage,
			GSTAmount:  b.GSTAmount,
			Total:      b.TotalWithGST,
			Received:   b.ReceivedAmount,
			Pending:    b.PendingAmount,
		}
	}
	figures := revenue.Aggregate(items, client.GSTPercentage)

	// 4. Persist and record
	if err := s.clientRepo.UpdateFigures(ctx, clientID, figuresToColumns(figures)); err != nil {
		return figures, err
	}

	s.appendLedger(ctx, clientID, figures, source, actorID)
	return figures, nil
}

// SweepAll renormalizes every client's figures. Idempotent: a second
// sweep over unchanged data writes the same numbers. Run nightly.
func (s *RevenueService) SweepAll(ctx context.Context) error {
	const pageSize = 200

	offset := 0
	for {
		clients, total, err := s.clientRepo.List(ctx, offset, pageSize)
		if err != nil {
			return err
		}

		for _, client := range clients {
			if _, err := s.SyncClient(ctx, client.ID, models.RevenueSourceSweep, 0); err != nil {
				log.Printf("⚠️ Revenue sweep failed for client %d: %v", client.ID, err)
			}
		}

		offset += pageSize
		if int64(offset) >= total {
			break
		}
	}

	log.Printf("✅ Revenue sweep completed")
	return nil
}

// appendLedger records a snapshot. Ledger failures are logged, not
// returned: the authoritative columns are already written.
func (s *RevenueService) appendLedger(ctx context.Context, clientID uint, f revenue.Figures, source string, actorID uint) {
	entry := &models.RevenueEntry{
		ClientID:       clientID,
		PitchedAmount:  f.Pitched,
		GSTAmount:      f.GSTAmount,
		TotalWithGST:   f.Total,
		ReceivedAmount: f.Received,
		PendingAmount:  f.Pending,
		Source:         source,
		CreatedBy:      actorID,
	}
	if err := s.revenueRepo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to append revenue ledger for client %d: %v", clientID, err)
	}
}

// ListLedger lists ledger entries for a client
func (s *RevenueService) ListLedger(ctx context.Context, clientID uint, page, limit int) ([]*models.RevenueEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.revenueRepo.ListByClient(ctx, clientID, (page-1)*limit, limit)
}
