package services

import (
	"context"
	"testing"

	"consultease/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncClientAggregatesBookings(t *testing.T) {
	_, clients, _ := testTeam(t)
	bookings := newFakeBookingRepo()
	ledger := &fakeRevenueRepo{}
	svc := NewRevenueService(clients, bookings, newFakePaymentRepo(), ledger)
	ctx := context.Background()

	bookings.add(&models.Booking{
		ClientID: 10, Status: "ACTIVE",
		TotalPitchedAmount: 1000, GSTPercentage: 18, GSTAmount: 180,
		TotalWithGST: 1180, ReceivedAmount: 1180, PendingAmount: 0,
	})
	bookings.add(&models.Booking{
		ClientID: 10, Status: "ACTIVE",
		TotalPitchedAmount: 2000, GSTPercentage: 18, GSTAmount: 360,
		TotalWithGST: 2360, ReceivedAmount: 1000, PendingAmount: 1360,
	})

	figures, err := svc.SyncClient(ctx, 10, models.RevenueSourceAggregate, 1)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, figures.Pitched)
	assert.Equal(t, 540.0, figures.GSTAmount)
	assert.Equal(t, 3540.0, figures.Total)
	assert.Equal(t, 2180.0, figures.Received)
	assert.Equal(t, 1360.0, figures.Pending)

	// The authoritative columns were written
	client, _ := clients.GetByID(ctx, 10)
	assert.Equal(t, 3540.0, client.TotalWithGST)
	assert.Equal(t, 1360.0, client.PendingAmount)

	// And the sync left a ledger entry
	entries, _, _ := ledger.ListByClient(ctx, 10, 0, 20)
	require.Len(t, entries, 1)
	assert.Equal(t, models.RevenueSourceAggregate, entries[0].Source)
}

func TestSyncClientWithoutBookingsRenormalizes(t *testing.T) {
	_, clients, _ := testTeam(t)
	svc := NewRevenueService(clients, newFakeBookingRepo(), newFakePaymentRepo(), &fakeRevenueRepo{})
	ctx := context.Background()

	// Stale stored figures with no bookings behind them
	client, _ := clients.GetByID(ctx, 10)
	client.TotalPitchedAmount = 500
	client.GSTPercentage = 0
	client.ReceivedAmount = 1000

	figures, err := svc.SyncClient(ctx, 10, models.RevenueSourceSweep, 0)
	require.NoError(t, err)

	// Overpayment clamp: total follows received, GST zeroes out
	assert.Equal(t, 1000.0, figures.Total)
	assert.Equal(t, 0.0, figures.GSTAmount)
	assert.Equal(t, 0.0, figures.Pending)
}

func TestSweepIsIdempotent(t *testing.T) {
	_, clients, _ := testTeam(t)
	ledger := &fakeRevenueRepo{}
	svc := NewRevenueService(clients, newFakeBookingRepo(), newFakePaymentRepo(), ledger)
	ctx := context.Background()

	_, err := svc.SetClientFigures(ctx, 10, 1000, 18, 200, models.RevenueSourceDirect, 1)
	require.NoError(t, err)

	require.NoError(t, svc.SweepAll(ctx))
	first, _ := clients.GetByID(ctx, 10)
	firstPending := first.PendingAmount

	require.NoError(t, svc.SweepAll(ctx))
	second, _ := clients.GetByID(ctx, 10)

	// A second sweep over unchanged data writes the same numbers
	assert.Equal(t, firstPending, second.PendingAmount)
	assert.Equal(t, 980.0, second.PendingAmount)
}

func TestSyncBookingMarksPaid(t *testing.T) {
	_, clients, _ := testTeam(t)
	bookings := newFakeBookingRepo()
	payments := newFakePaymentRepo()
	svc := NewRevenueService(clients, bookings, payments, &fakeRevenueRepo{})
	ctx := context.Background()

	booking := bookings.add(&models.Booking{
		ClientID: 10, Status: "ACTIVE",
		TotalPitchedAmount: 1000, GSTPercentage: 18,
	})
	payments.add(&models.Payment{
		BookingID: booking.ID, ClientID: 10, Amount: 1180,
		Status: "CAPTURED", ReferenceID: "PAY-sync-1",
	})

	figures, fullyPaid, err := svc.SyncBooking(ctx, booking.ID, 1)
	require.NoError(t, err)
	assert.True(t, fullyPaid)
	assert.Equal(t, 0.0, figures.Pending)

	updated, _ := bookings.GetByID(ctx, booking.ID)
	assert.Equal(t, "PAID", updated.Status)
}
