// Package revenue holds the pure monetary computations for client and
// booking figures: normalization, GST derivation and the overpayment
// clamp. It has no state of its own; callers persist the results.
package revenue

import "math"

// DefaultGSTPercent is applied when no GST percentage is recorded
const DefaultGSTPercent = 18.0

// Figures is the derived monetary quadruple for a client or booking
type Figures struct {
	Pitched    float64
	GSTPercent float64
	GSTAmount  float64
	Total      float64
	Received   float64
	Pending    float64
}

// Round2 rounds x to 2 decimal places
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Normalize clamps negative monetary inputs to zero and defaults a
// missing GST percentage. Missing and negative values both normalize
// to zero, except the percentage which falls back to the default rate.
func Normalize(pitched, gstPercent, received float64) (float64, float64, float64) {
	if pitched < 0 || math.IsNaN(pitched) {
		pitched = 0
	}
	if gstPercent <= 0 || math.IsNaN(gstPercent) {
		gstPercent = DefaultGSTPercent
	}
	if received < 0 || math.IsNaN(received) {
		received = 0
	}
	return pitched, gstPercent, received
}

// Compute derives the full quadruple from pitched amount, GST percentage
// and received amount. Invariants on the result:
//
//	GSTAmount = Pitched x GSTPercent / 100
//	Total     = Pitched + GSTAmount
//	Pending   = max(0, Total - Received)
//
// If the received amount exceeds the computed total, the total is clamped
// to the received amount and GST is zeroed so the pending balance never
// goes negative.
func Compute(pitched, gstPercent, received float64) Figures {
	pitched, gstPercent, received = Normalize(pitched, gstPercent, received)

	gstAmount := Round2(pitched * gstPercent / 100)
	total := Round2(pitched + gstAmount)

	// Overpayment clamp: the client paid more than is currently pitched
	if received > total {
		total = received
		gstAmount = 0
	}

	pending := Round2(total - received)
	if pending < 0 {
		pending = 0
	}

	return Figures{
		Pitched:    pitched,
		GSTPercent: gstPercent,
		GSTAmount:  gstAmount,
		Total:      total,
		Received:   received,
		Pending:    pending,
	}
}

// Recompute re-derives a Figures value from its own inputs. Calling it
// repeatedly on unchanged input leaves every field unchanged.
func Recompute(f Figures) Figures {
	return Compute(f.Pitched, f.GSTPercent, f.Received)
}

// Aggregate sums booking figures into a single client-level quadruple.
// The effective GST percentage is recomputed as GSTAmount/Pitched x 100
// when the summed pitched amount is positive; otherwise prior is kept.
func Aggregate(items []Figures, prior float64) Figures {
	var out Figures
	for _, item := range items {
		out.Pitched += item.Pitched
		out.GSTAmount += item.GSTAmount
		out.Total += item.Total
		out.Received += item.Received
		out.Pending += item.Pending
	}

	out.Pitched = Round2(out.Pitched)
	out.GSTAmount = Round2(out.GSTAmount)
	out.Total = Round2(out.Total)
	out.Received = Round2(out.Received)
	out.Pending = Round2(out.Pending)

	if out.Pitched > 0 {
		out.GSTPercent = Round2(out.GSTAmount / out.Pitched * 100)
	} else {
		out.GSTPercent = prior
	}

	return out
}
