package services

import (
	"context"
	"testing"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentServiceFixture struct {
	clients  *fakeClientRepo
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	notifier *fakeNotifier
	svc      *PaymentService
}

// newPaymentServiceFixture sets up a client with one active booking
// pitched at 1000 + 18% GST (total 1180) and one pending payment
// covering the full amount.
func newPaymentServiceFixture(t *testing.T) *paymentServiceFixture {
	t.Helper()

	_, clients, authz := testTeam(t)

	bookings := newFakeBookingRepo()
	bookings.add(&models.Booking{
		ID:                 100,
		ClientID:           10,
		ServiceName:        "GST Registration",
		Status:             "ACTIVE",
		TotalPitchedAmount: 1000,
		GSTPercentage:      18,
		GSTAmount:          180,
		TotalWithGST:       1180,
		PendingAmount:      1180,
		AssignedTo:         2,
	})

	payments := newFakePaymentRepo()
	payments.add(&models.Payment{
		ID:          1000,
		BookingID:   100,
		ClientID:    10,
		Amount:      1180,
		Status:      domain.PaymentPending,
		ReceivedBy:  2,
		ReferenceID: "PAY-test-1",
	})

	notifier := &fakeNotifier{}
	revenueSvc := NewRevenueService(clients, bookings, payments, &fakeRevenueRepo{})
	svc := NewPaymentService(payments, authz, revenueSvc, notifier)

	return &paymentServiceFixture{
		clients:  clients,
		bookings: bookings,
		payments: payments,
		notifier: notifier,
		svc:      svc,
	}
}

func TestCaptureSettlesBooking(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{ToStatus: "CAPTURED"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCaptured, resp.Status)

	// The booking settled: received covers the total, nothing pending,
	// status flipped to PAID
	booking, _ := f.bookings.GetByID(ctx, 100)
	assert.Equal(t, "PAID", booking.Status)
	assert.Equal(t, 1180.0, booking.ReceivedAmount)
	assert.Equal(t, 0.0, booking.PendingAmount)

	// Exactly one notification
	assert.Equal(t, 1, f.notifier.capturedCalls)
}

func TestTransitionsReservedForManagerUp(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	// No transition belongs to sales, not even on their own recording:
	// FAILED is a terminal rejection and the rest move money
	for _, to := range []string{"CAPTURED", "INITIATED", "FAILED"} {
		_, err := f.svc.Transition(ctx, salesActor(), 1000, &TransitionPaymentInput{
			ToStatus: to,
			Reason:   "Cheque bounced",
		})
		assert.ErrorIs(t, err, domain.ErrAccessDenied, to)
	}

	payment, _ := f.payments.GetByID(ctx, 1000)
	assert.Equal(t, domain.PaymentPending, payment.Status)

	// Reading their own recording is still allowed
	resp, err := f.svc.GetPayment(ctx, salesActor(), 1000)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, resp.Status)
}

func TestFailureRequiresReason(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{ToStatus: "FAILED"})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)

	resp, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{
		ToStatus: "FAILED",
		Reason:   "Cheque bounced",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, resp.Status)

	stored, _ := f.payments.GetByID(ctx, 1000)
	assert.Equal(t, "Cheque bounced", stored.RejectionReason)
}

func TestInvalidTransitionIsAWarning(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{ToStatus: "CAPTURED"})
	require.NoError(t, err)

	// CAPTURED has no path back to INITIATED; the current record comes
	// back with the error so the caller can show it
	resp, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{ToStatus: "INITIATED"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	require.NotNil(t, resp)
	assert.Equal(t, domain.PaymentCaptured, resp.Status)
}

func TestLostClaimReportsAlreadyProcessed(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	// Another request wins the conditional update underneath us
	f.payments.loseNextClaim = true

	_, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{ToStatus: "CAPTURED"})
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)

	// The loser triggered no side effects
	booking, _ := f.bookings.GetByID(ctx, 100)
	assert.Equal(t, "ACTIVE", booking.Status)
	assert.Equal(t, 0, f.notifier.capturedCalls)
}

func TestCaptureSurvivesNotificationFailure(t *testing.T) {
	f := newPaymentServiceFixture(t)
	f.notifier.err = assert.AnError
	ctx := context.Background()

	resp, err := f.svc.Transition(ctx, managerActor(), 1000, &TransitionPaymentInput{ToStatus: "CAPTURED"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCaptured, resp.Status)

	booking, _ := f.bookings.GetByID(ctx, 100)
	assert.Equal(t, "PAID", booking.Status)
}

func TestPaymentCrossTeamDenied(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	otherManager := &domain.Actor{UserID: 3, Role: domain.RoleManager}
	_, err := f.svc.GetPayment(ctx, otherManager, 1000)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestPaymentScopeFollowsRecorder(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	// Recorded by sales.b, who reports to manager.b, against a team A client
	f.payments.add(&models.Payment{
		ID:          1001,
		BookingID:   100,
		ClientID:    10,
		Amount:      200,
		Status:      domain.PaymentPending,
		ReceivedBy:  4,
		ReferenceID: "PAY-test-2",
	})

	// The recorder's manager decides, wherever the client sits
	otherManager := &domain.Actor{UserID: 3, Role: domain.RoleManager}
	resp, err := f.svc.Transition(ctx, otherManager, 1001, &TransitionPaymentInput{ToStatus: "AUTHORIZED"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentAuthorized, resp.Status)

	// The client's manager has no claim on another team's recording
	_, err = f.svc.GetPayment(ctx, managerActor(), 1001)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestRecordPaymentStartsPending(t *testing.T) {
	f := newPaymentServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.RecordPayment(ctx, salesActor(), &RecordPaymentInput{
		BookingID: 100,
		ClientID:  10,
		Amount:    500,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, resp.Status)
	assert.NotEmpty(t, resp.ReferenceID)
}
