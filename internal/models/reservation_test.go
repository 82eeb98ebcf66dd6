package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		expected int
	}{
		{
			name:     "single night",
			checkIn:  day(2026, 3, 10),
			checkOut: day(2026, 3, 11),
			expected: 1,
		},
		{
			name:     "four nights",
			checkIn:  day(2026, 3, 10),
			checkOut: day(2026, 3, 14),
			expected: 4,
		},
		{
			// Range validation rejects zero-length stays before pricing,
			// so the floor only matters for direct callers.
			name:     "same day floors to one",
			checkIn:  day(2026, 3, 10),
			checkOut: day(2026, 3, 10),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Nights(tt.checkIn, tt.checkOut))
		})
	}
}

func TestReservation_ComputeTotal(t *testing.T) {
	t.Run("nights times nightly rate", func(t *testing.T) {
		reservation := &Reservation{
			CheckIn:  day(2026, 3, 10),
			CheckOut: day(2026, 3, 14),
		}

		total := reservation.ComputeTotal(decimal.NewFromInt(100))
		assert.True(t, total.Equal(decimal.NewFromInt(400)), "expected 400, got %s", total)
	})

	t.Run("fractional rate keeps cents", func(t *testing.T) {
		reservation := &Reservation{
			CheckIn:  day(2026, 3, 10),
			CheckOut: day(2026, 3, 13),
		}

		total := reservation.ComputeTotal(decimal.NewFromFloat(99.50))
		assert.True(t, total.Equal(decimal.NewFromFloat(298.50)), "expected 298.50, got %s", total)
	})
}

func TestReservation_RefundFor(t *testing.T) {
	reservation := &Reservation{
		CheckIn:    day(2026, 3, 10),
		CheckOut:   day(2026, 3, 14),
		TotalPrice: decimal.NewFromInt(400),
	}

	tests := []struct {
		name     string
		today    time.Time
		expected decimal.Decimal
	}{
		{
			name:     "well before check-in refunds everything",
			today:    day(2026, 3, 1),
			expected: decimal.NewFromInt(400),
		},
		{
			name:     "exactly two days out still refunds everything",
			today:    day(2026, 3, 8),
			expected: decimal.NewFromInt(400),
		},
		{
			name:     "one day out refunds half",
			today:    day(2026, 3, 9),
			expected: decimal.NewFromInt(200),
		},
		{
			name:     "check-in day refunds half",
			today:    day(2026, 3, 10),
			expected: decimal.NewFromInt(200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refund := reservation.RefundFor(tt.today)
			assert.True(
				t,
				refund.Equal(tt.expected),
				"expected %s, got %s", tt.expected, refund,
			)
		})
	}
}

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	allStatuses := []ReservationStatus{
		ReservationPending,
		ReservationConfirmed,
		ReservationCheckedIn,
		ReservationCheckedOut,
		ReservationCancelled,
	}

	allowed := map[ReservationStatus][]ReservationStatus{
		ReservationPending:   {ReservationConfirmed, ReservationCancelled},
		ReservationConfirmed: {ReservationCheckedIn, ReservationCancelled},
		ReservationCheckedIn: {ReservationCheckedOut},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			expected := false
			for _, next := range allowed[from] {
				if next == to {
					expected = true
				}
			}
			assert.Equal(
				t,
				expected,
				from.CanTransitionTo(to),
				"%s -> %s", from, to,
			)
		}
	}
}

func TestReservationStatus_IsTerminal(t *testing.T) {
	assert.True(t, ReservationCheckedOut.IsTerminal())
	assert.True(t, ReservationCancelled.IsTerminal())
	assert.False(t, ReservationPending.IsTerminal())
	assert.False(t, ReservationConfirmed.IsTerminal())
	assert.False(t, ReservationCheckedIn.IsTerminal())
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{
			name:   "identical ranges overlap",
			aStart: day(2026, 3, 10), aEnd: day(2026, 3, 14),
			bStart: day(2026, 3, 10), bEnd: day(2026, 3, 14),
			expected: true,
		},
		{
			name:   "partial overlap",
			aStart: day(2026, 3, 10), aEnd: day(2026, 3, 14),
			bStart: day(2026, 3, 12), bEnd: day(2026, 3, 16),
			expected: true,
		},
		{
			name:   "contained range overlaps",
			aStart: day(2026, 3, 11), aEnd: day(2026, 3, 12),
			bStart: day(2026, 3, 10), bEnd: day(2026, 3, 14),
			expected: true,
		},
		{
			name:   "checkout day equals check-in day does not overlap",
			aStart: day(2026, 3, 10), aEnd: day(2026, 3, 14),
			bStart: day(2026, 3, 14), bEnd: day(2026, 3, 16),
			expected: false,
		},
		{
			name:   "check-in day equals checkout day does not overlap",
			aStart: day(2026, 3, 14), aEnd: day(2026, 3, 16),
			bStart: day(2026, 3, 10), bEnd: day(2026, 3, 14),
			expected: false,
		},
		{
			name:   "disjoint ranges",
			aStart: day(2026, 3, 1), aEnd: day(2026, 3, 3),
			bStart: day(2026, 3, 10), bEnd: day(2026, 3, 14),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(
				t,
				tt.expected,
				IntervalsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd),
			)
			// The predicate is symmetric.
			assert.Equal(
				t,
				tt.expected,
				IntervalsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd),
			)
		})
	}
}
