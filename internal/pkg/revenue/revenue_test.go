package revenue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	t.Run("Standard 18 percent GST", func(t *testing.T) {
		f := Compute(10000, 18, 0)
		assert.Equal(t, 1800.0, f.GSTAmount)
		assert.Equal(t, 11800.0, f.Total)
		assert.Equal(t, 11800.0, f.Pending)
	})

	t.Run("Partial payment", func(t *testing.T) {
		f := Compute(10000, 18, 5000)
		assert.Equal(t, 11800.0, f.Total)
		assert.Equal(t, 6800.0, f.Pending)
	})

	t.Run("Received exceeds total clamps total and zeroes GST", func(t *testing.T) {
		f := Compute(10000, 18, 15000)
		assert.Equal(t, 15000.0, f.Total)
		assert.Equal(t, 0.0, f.GSTAmount)
		assert.Equal(t, 0.0, f.Pending)
	})

	t.Run("Exact payment leaves zero pending", func(t *testing.T) {
		f := Compute(10000, 18, 11800)
		assert.Equal(t, 11800.0, f.Total)
		assert.Equal(t, 1800.0, f.GSTAmount)
		assert.Equal(t, 0.0, f.Pending)
	})

	t.Run("Negative inputs clamp to zero", func(t *testing.T) {
		f := Compute(-500, 18, -100)
		assert.Equal(t, 0.0, f.Pitched)
		assert.Equal(t, 0.0, f.GSTAmount)
		assert.Equal(t, 0.0, f.Total)
		assert.Equal(t, 0.0, f.Received)
		assert.Equal(t, 0.0, f.Pending)
	})

	t.Run("Missing GST percentage defaults to 18", func(t *testing.T) {
		f := Compute(10000, 0, 0)
		assert.Equal(t, DefaultGSTPercent, f.GSTPercent)
		assert.Equal(t, 1800.0, f.GSTAmount)
	})

	t.Run("Fractional rates round to two decimals", func(t *testing.T) {
		f := Compute(999.99, 12.5, 0)
		assert.Equal(t, 125.0, f.GSTAmount)
		assert.Equal(t, 1124.99, f.Total)
	})
}

func TestRecomputeIdempotent(t *testing.T) {
	inputs := []Figures{
		Compute(10000, 18, 0),
		Compute(10000, 18, 15000),
		Compute(7500.50, 12, 3000),
		Compute(0, 0, 0),
	}

	for _, f := range inputs {
		again := Recompute(f)
		assert.Equal(t, f, again)
		assert.Equal(t, again, Recompute(again))
	}
}

func TestAggregate(t *testing.T) {
	t.Run("Sums booking quadruples", func(t *testing.T) {
		bookings := []Figures{
			Compute(10000, 18, 11800),
			Compute(5000, 18, 0),
		}

		agg := Aggregate(bookings, 18)
		assert.Equal(t, 15000.0, agg.Pitched)
		assert.Equal(t, 2700.0, agg.GSTAmount)
		assert.Equal(t, 17700.0, agg.Total)
		assert.Equal(t, 11800.0, agg.Received)
		assert.Equal(t, 5900.0, agg.Pending)
		assert.Equal(t, 18.0, agg.GSTPercent)
	})

	t.Run("Effective percentage from mixed rates", func(t *testing.T) {
		bookings := []Figures{
			Compute(10000, 18, 0),
			Compute(10000, 12, 0),
		}

		agg := Aggregate(bookings, 18)
		assert.Equal(t, 3000.0, agg.GSTAmount)
		assert.Equal(t, 15.0, agg.GSTPercent)
	})

	t.Run("Zero pitched keeps prior percentage", func(t *testing.T) {
		agg := Aggregate(nil, 18)
		assert.Equal(t, 18.0, agg.GSTPercent)
		assert.Equal(t, 0.0, agg.Pitched)
	})
}
