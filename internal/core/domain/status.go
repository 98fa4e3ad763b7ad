package domain

// Payment statuses
const (
	PaymentPending       = "PENDING"
	PaymentInitiated     = "INITIATED"
	PaymentAuthorized    = "AUTHORIZED"
	PaymentCaptured      = "CAPTURED"
	PaymentFailed        = "FAILED"
	PaymentRefunded      = "REFUNDED"
	PaymentPartialRefund = "PARTIAL_REFUND"
)

// EditRequest statuses
const (
	EditRequestPending  = "PENDING"
	EditRequestApproved = "APPROVED"
	EditRequestRejected = "REJECTED"
	EditRequestApplied  = "APPLIED"
)

// Booking statuses
const (
	BookingActive    = "ACTIVE"
	BookingPaid      = "PAID"
	BookingCancelled = "CANCELLED"
)

// Application statuses
const (
	ApplicationDraft     = "DRAFT"
	ApplicationSubmitted = "SUBMITTED"
	ApplicationApproved  = "APPROVED"
	ApplicationRejected  = "REJECTED"
)

var paymentTransitions = map[string][]string{
	PaymentInitiated:     {PaymentPending},
	PaymentAuthorized:    {PaymentPending, PaymentInitiated},
	PaymentCaptured:      {PaymentPending, PaymentInitiated, PaymentAuthorized},
	PaymentFailed:        {PaymentPending, PaymentInitiated, PaymentAuthorized},
	PaymentRefunded:      {PaymentCaptured, PaymentPartialRefund},
	PaymentPartialRefund: {PaymentCaptured},
}

// ValidPaymentTransition reports whether a payment may move from one
// status to another. REFUNDED is terminal, as are FAILED and a rejected
// capture; there is no re-open path.
func ValidPaymentTransition(from, to string) bool {
	allowed, ok := paymentTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

var editRequestTransitions = map[string][]string{
	EditRequestApproved: {EditRequestPending},
	EditRequestRejected: {EditRequestPending},
	EditRequestApplied:  {EditRequestApproved},
}

// ValidEditRequestTransition reports whether an edit request may move
// from one status to another. APPLIED is reachable only from APPROVED.
func ValidEditRequestTransition(from, to string) bool {
	allowed, ok := editRequestTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}
