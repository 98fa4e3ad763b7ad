package domain

import "testing"

func TestValidPaymentTransition(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		valid bool
	}{
		{PaymentPending, PaymentInitiated, true},
		{PaymentPending, PaymentCaptured, true},
		{PaymentInitiated, PaymentAuthorized, true},
		{PaymentAuthorized, PaymentCaptured, true},
		{PaymentPending, PaymentFailed, true},
		{PaymentCaptured, PaymentRefunded, true},
		{PaymentCaptured, PaymentPartialRefund, true},
		{PaymentPartialRefund, PaymentRefunded, true},
		{PaymentCaptured, PaymentPending, false},
		{PaymentFailed, PaymentCaptured, false},
		{PaymentRefunded, PaymentCaptured, false},
		{PaymentPending, "BOGUS", false},
	}

	for _, tt := range cases {
		if got := ValidPaymentTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidPaymentTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestValidEditRequestTransition(t *testing.T) {
	cases := []struct {
		from  string
		to    string
		valid bool
	}{
		{EditRequestPending, EditRequestApproved, true},
		{EditRequestPending, EditRequestRejected, true},
		{EditRequestApproved, EditRequestApplied, true},
		{EditRequestPending, EditRequestApplied, false},
		{EditRequestRejected, EditRequestApproved, false},
		{EditRequestApplied, EditRequestApproved, false},
		{EditRequestApproved, EditRequestRejected, false},
	}

	for _, tt := range cases {
		if got := ValidEditRequestTransition(tt.from, tt.to); got != tt.valid {
			t.Fatalf("ValidEditRequestTransition(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}
